// Package jsonschema generates the JSON Schema objects that describe tool
// arguments to a completion provider.
//
// [GenerateJSONSchema] derives a [Schema] from a Go type at compile time
// without needing a runtime value. Struct tags drive the output: the json tag
// names the property and the jsonschema tag adds descriptions, enum values and
// required markers.
package jsonschema
