package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMalformed indicates a descriptor that cannot be parsed or is not a
// valid composition.
var ErrMalformed = errors.New("malformed type descriptor")

// Type is a field type descriptor.
type Type interface {
	// String returns the textual descriptor, e.g. "map:string:list:int32".
	String() string

	sealed()
}

// Primitive is a fixed-width or length-prefixed scalar type.
type Primitive uint8

const (
	Int8 Primitive = iota + 1
	Int16
	Int32
	Int64
	Float32
	Float64
	Bool
	String
)

var primitiveNames = []string{
	"", "int8", "int16", "int32", "int64", "float32", "float64", "bool", "string",
}

// String returns the primitive name.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) && p != 0 {
		return primitiveNames[p]
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// Size returns the encoded width in bytes, or 0 for String which is
// length-prefixed.
func (p Primitive) Size() int {
	switch p {
	case Int8, Bool:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// List is a homogeneous sequence of Elem.
type List struct {
	Elem Type
}

// String returns "list:<elem>".
func (l List) String() string {
	return "list:" + describe(l.Elem)
}

// Map is an unordered mapping from Key to Value.
type Map struct {
	Key   Type
	Value Type
}

// String returns "map:<key>:<value>".
func (m Map) String() string {
	return "map:" + describe(m.Key) + ":" + describe(m.Value)
}

// ModelRef refers to a model by name.
type ModelRef struct {
	Name string
}

// String returns "model:<name>".
func (m ModelRef) String() string {
	return "model:" + m.Name
}

func (Primitive) sealed() {}
func (List) sealed()      {}
func (Map) sealed()       {}
func (ModelRef) sealed()  {}

func describe(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// ListOf returns a list descriptor.
func ListOf(elem Type) List {
	return List{Elem: elem}
}

// MapOf returns a map descriptor.
func MapOf(key, value Type) Map {
	return Map{Key: key, Value: value}
}

// ModelOf returns a model reference descriptor.
func ModelOf(name string) ModelRef {
	return ModelRef{Name: name}
}

// Primitives returns the eight primitive types in declaration order.
func Primitives() []Primitive {
	return []Primitive{Int8, Int16, Int32, Int64, Float32, Float64, Bool, String}
}

// Validate checks that t is a well-formed composition: every nested type is
// present, map keys are primitive and model references are named.
func Validate(t Type) error {
	switch v := t.(type) {
	case Primitive:
		if v < Int8 || v > String {
			return fmt.Errorf("%w: unknown primitive %d", ErrMalformed, uint8(v))
		}
		return nil
	case List:
		if v.Elem == nil {
			return fmt.Errorf("%w: list without element type", ErrMalformed)
		}
		return Validate(v.Elem)
	case Map:
		if v.Key == nil || v.Value == nil {
			return fmt.Errorf("%w: map without key or value type", ErrMalformed)
		}
		if _, ok := v.Key.(Primitive); !ok {
			return fmt.Errorf("%w: map key must be primitive, got %s", ErrMalformed, v.Key)
		}
		if err := Validate(v.Key); err != nil {
			return err
		}
		return Validate(v.Value)
	case ModelRef:
		if v.Name == "" {
			return fmt.Errorf("%w: empty model name", ErrMalformed)
		}
		return nil
	case nil:
		return fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrMalformed, t)
	}
}

// Parse parses a textual descriptor.
//
// Primitive names match exactly. Otherwise the list:, map: and model:
// prefixes select the composite form. For maps the key is the text up to the
// first colon after "map:" and the value is everything after it, so a nested
// map or list value keeps its own colons.
func Parse(desc string) (Type, error) {
	for _, p := range Primitives() {
		if desc == p.String() {
			return p, nil
		}
	}

	switch {
	case strings.HasPrefix(desc, "list:"):
		elem, err := Parse(strings.TrimPrefix(desc, "list:"))
		if err != nil {
			return nil, fmt.Errorf("list element of %q: %w", desc, err)
		}
		return List{Elem: elem}, nil

	case strings.HasPrefix(desc, "map:"):
		keyDesc, valueDesc, found := strings.Cut(strings.TrimPrefix(desc, "map:"), ":")
		if !found {
			return nil, fmt.Errorf("%w: %q: expected map:<key>:<value>", ErrMalformed, desc)
		}
		key, err := Parse(keyDesc)
		if err != nil {
			return nil, fmt.Errorf("map key of %q: %w", desc, err)
		}
		value, err := Parse(valueDesc)
		if err != nil {
			return nil, fmt.Errorf("map value of %q: %w", desc, err)
		}
		m := Map{Key: key, Value: value}
		if err := Validate(m); err != nil {
			return nil, err
		}
		return m, nil

	case strings.HasPrefix(desc, "model:"):
		name := strings.TrimPrefix(desc, "model:")
		if name == "" {
			return nil, fmt.Errorf("%w: %q: empty model name", ErrMalformed, desc)
		}
		return ModelRef{Name: name}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, desc)
}

// MustParse is like Parse but panics on error.
func MustParse(desc string) Type {
	t, err := Parse(desc)
	if err != nil {
		panic(err)
	}
	return t
}

// Record is the decoded form of a model value.
type Record = map[string]any

var recordType = reflect.TypeOf(Record(nil))

// GoType returns the Go type a decoded value of t has: the matching numeric,
// bool or string type for primitives, a slice for lists, a map for maps and
// Record for model references.
func GoType(t Type) reflect.Type {
	switch v := t.(type) {
	case Primitive:
		switch v {
		case Int8:
			return reflect.TypeOf(int8(0))
		case Int16:
			return reflect.TypeOf(int16(0))
		case Int32:
			return reflect.TypeOf(int32(0))
		case Int64:
			return reflect.TypeOf(int64(0))
		case Float32:
			return reflect.TypeOf(float32(0))
		case Float64:
			return reflect.TypeOf(float64(0))
		case Bool:
			return reflect.TypeOf(false)
		case String:
			return reflect.TypeOf("")
		}
	case List:
		return reflect.SliceOf(GoType(v.Elem))
	case Map:
		return reflect.MapOf(GoType(v.Key), GoType(v.Value))
	case ModelRef:
		return recordType
	}
	return reflect.TypeOf((*any)(nil)).Elem()
}
