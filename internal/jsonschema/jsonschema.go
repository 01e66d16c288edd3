package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to describe tool arguments to a
// completion provider. Object schemas carry Properties and Required; arrays
// carry Items.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	// AdditionalProperties is either a bool or a *Schema for map types.
	AdditionalProperties any   `json:"additionalProperties,omitempty"`
	Enum                 []any `json:"enum,omitempty"`
	Default              any   `json:"default,omitempty"`
}

// GenerateJSONSchema derives a Schema from the Go type T.
//
// Struct fields use their json tag name. A field is required when it is not a
// pointer and has no omitempty option, or when its jsonschema tag contains
// "required". The jsonschema tag also accepts description=... and enum=...
// entries separated by commas:
//
//	type Input struct {
//	    City string `json:"city" jsonschema:"description=City to look up,required"`
//	}
func GenerateJSONSchema[T any]() (*Schema, error) {
	return generate(reflect.TypeFor[T](), map[reflect.Type]bool{})
}

func generate(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := generate(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := generate(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return generateStruct(t, visiting)
	default:
		return &Schema{Type: "object"}, nil
	}
}

func generateStruct(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	if visiting[t] {
		return nil, fmt.Errorf("jsonschema: recursive type %s is not supported", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := generate(field.Type, visiting)
		if err != nil {
			return nil, err
		}

		requiredByTag, err := applyTag(field.Type, field.Tag.Get("jsonschema"), fieldSchema)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: field %s: %w", field.Name, err)
		}

		schema.Properties[name] = fieldSchema
		if requiredByTag || (field.Type.Kind() != reflect.Ptr && !omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema, nil
}

func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	if tag == "" {
		return name, false, false
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyTag reads a jsonschema struct tag into schema and reports whether the
// tag marks the field as required.
func applyTag(fieldType reflect.Type, tag string, schema *Schema) (bool, error) {
	if tag == "" {
		return false, nil
	}

	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}

		switch key {
		case "description":
			schema.Description = value
		case "enum":
			enumValue, err := convertEnum(fieldType, value)
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, enumValue)
		}
	}

	return required, nil
}

func convertEnum(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %q as integer: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %q as number: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %q as bool: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type %v", fieldType)
	}
}

// ToMap converts the schema into a generic JSON object, the shape SDKs
// expect for function parameters.
func (s *Schema) ToMap() (map[string]any, error) {
	if s == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}, nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	return out, nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(raw)
}
