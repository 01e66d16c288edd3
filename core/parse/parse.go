package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var errNotWrapped = errors.New("not a schema-wrapped value")

// ParseStringAs converts model-produced text into T.
//
// Primitive kinds are converted with strconv. Structs, maps and slices are
// decoded as JSON; when strict decoding fails the text is repaired with
// jsonrepair and decoded again, and finally {"type":...,"value":...}
// wrappers are unwrapped. A value of the wrong JSON type is an error even
// after repair.
//
//	args, err := ParseStringAs[Input](`{city: 'Beijing'}`) // repaired
//	n, err := ParseStringAs[int]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := unwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err := setPrimitive(target, strings.TrimSpace(content))
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := unwrapPrimitive(content); unwrapErr == nil {
			if setPrimitive(target, unwrapped) == nil {
				return result, nil
			}
		}
		return result, fmt.Errorf("failed to parse content as %s: %w", target.Kind(), err)

	default:
		err := json.Unmarshal([]byte(content), &result)
		if err == nil {
			return result, nil
		}

		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return result, fmt.Errorf("failed to unmarshal content as %T: %w (repair failed: %v)", result, err, repairErr)
		}

		var repairedResult T
		if err = json.Unmarshal([]byte(repaired), &repairedResult); err == nil {
			return repairedResult, nil
		}

		if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
			var unwrappedResult T
			if json.Unmarshal([]byte(unwrapped), &unwrappedResult) == nil {
				return unwrappedResult, nil
			}
		}

		return result, fmt.Errorf("failed to unmarshal repaired content as %T: %w", result, err)
	}
}

// MissingFields reports which of the required keys are absent or null in
// the JSON object held by content. The content is repaired first, matching
// ParseStringAs.
func MissingFields(content string, required []string) ([]string, error) {
	if len(required) == 0 {
		return nil, nil
	}

	var object map[string]any
	if err := json.Unmarshal([]byte(content), &object); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return nil, fmt.Errorf("content is not a JSON object: %w", err)
		}
		object = nil
		if err := json.Unmarshal([]byte(repaired), &object); err != nil {
			return nil, fmt.Errorf("content is not a JSON object: %w", err)
		}
	}

	var missing []string
	for _, key := range required {
		if v, ok := object[key]; !ok || v == nil {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

func setPrimitive(target reflect.Value, content string) error {
	switch target.Kind() {
	case reflect.Bool:
		v, err := strconv.ParseBool(content)
		if err != nil {
			return err
		}
		target.SetBool(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(content, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetFloat(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(content, 10, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetInt(v)
	default:
		v, err := strconv.ParseUint(content, 10, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetUint(v)
	}
	return nil
}

// unwrapPrimitive extracts the value of a {"type":...,"value":...} wrapper
// as text.
func unwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	value, ok := wrappedValue(data)
	if !ok {
		return "", errNotWrapped
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// unwrapSchemaValues rewrites values models sometimes send in schema shape,
//
//	{"city": {"type": "string", "value": "Beijing"}}
//
// into plain data:
//
//	{"city": "Beijing"}
func unwrapSchemaValues(content string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	raw, err := json.Marshal(unwrap(data))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := wrappedValue(v); ok {
			return unwrap(value)
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = unwrap(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = unwrap(val)
		}
		return out
	default:
		return data
	}
}

func wrappedValue(data map[string]any) (any, bool) {
	if len(data) != 2 {
		return nil, false
	}
	if _, hasType := data["type"]; !hasType {
		return nil, false
	}
	value, hasValue := data["value"]
	return value, hasValue
}
