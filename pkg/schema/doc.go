// Package schema defines the type descriptors of bufti fields.
//
// A descriptor is one of four shapes:
//
//	Primitive  int8 int16 int32 int64 float32 float64 bool string
//	List       list:<T>
//	Map        map:<K>:<V>
//	ModelRef   model:<name>
//
// Types form a closed union; code that dispatches on a Type uses a type
// switch over Primitive, List, Map and ModelRef. The textual form is what
// String returns and what Parse accepts, so schemas can be written in files.
//
// A ModelRef names another model and is resolved when a value is encoded or
// decoded, which makes forward, self and mutual references legal.
package schema
