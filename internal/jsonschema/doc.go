// Package jsonschema derives JSON Schema documents from Go types for use as
// tool parameter and result declarations.
//
// The generator targets the subset of JSON Schema accepted by Gemini function
// declarations: objects, arrays and primitives, with descriptions, enums and
// required lists. Nested structs are inlined and no "$defs" or "$ref" entries
// are produced, so recursive types are rejected rather than referenced.
//
// Struct tags drive the output:
//
//	type Input struct {
//	    A  *float64 `json:"a"  jsonschema:"description=The first number,required"`
//	    Op string   `json:"op" jsonschema:"enum=add,enum=subtract"`
//	}
//
// A field is required when it is not a pointer and its json tag lacks
// omitempty, or when its jsonschema tag says "required".
package jsonschema
