// Package model implements bufti models: named record schemas with indexed,
// typed fields, and the recursive encoder and decoder that define the wire
// format.
//
// # Models and Registries
//
// A Model is built by registering it in a Registry:
//
//	reg := model.NewRegistry()
//	reg.MustRegister("Other", model.Field(0, "aa", schema.Float64))
//	mine := reg.MustRegister("Mine",
//	    model.Field(0, "a", schema.String),
//	    model.Field(1, "b", schema.ListOf(schema.Int32)),
//	    model.Field(2, "c", schema.MapOf(schema.String, schema.Bool)),
//	    model.Field(3, "d", schema.ModelOf("Other")),
//	)
//
// Model names are unique per registry. A field of type model:<name> is
// resolved in the same registry each time a value is encoded or decoded, so
// a model may reference models registered after it, itself, or each other.
// Freeze ends the build phase; later registrations fail.
//
// # Wire Format
//
// A record is a sequence of entries, one per field present:
//
//	[1 byte index][payload]
//
// Payloads are big-endian and fixed-width for numbers and bool. A string is
// a 4-byte byte length followed by UTF-8 bytes. Lists and maps carry a
// 4-byte element count followed by the elements (map entries as key then
// value). A nested model is a 2-byte byte length followed by the nested
// record, so a nested record is at most 65535 bytes.
//
// The buffer carries no schema, no magic number and no checksum. Decoding
// stops when the buffer ends at an entry boundary.
//
// # Values
//
// Decoded records are map[string]any. Each value has the Go type
// schema.GoType returns for its field: int8 through int64, float32,
// float64, bool, string, []T for lists, map[K]V for maps and map[string]any
// for nested models. Encode accepts these types and any Go value of the same
// shape: any integer type within range, either float type, any slice or
// array, any map, and any string-keyed map or struct for nested models.
//
// Fields are optional unless declared with RequiredField. A record without
// a required field fails to encode with ErrDictFormat and to decode with
// ErrBufferFormat.
//
// # Structs
//
// EncodeStruct and DecodeInto bind records to Go structs. A struct field
// maps to the label in its bufti tag, or to its Go name when untagged:
//
//	type Other struct {
//	    AA float64 `bufti:"aa"`
//	}
//
//	data, err := other.EncodeStruct(Other{AA: 1.5})
//	var out Other
//	err = other.DecodeInto(data, &out)
package model
