package model

import (
	"fmt"

	"github.com/bufti-format/bufti-go/pkg/schema"
)

// Index bounds of a field.
const (
	MinIndex = 0
	MaxIndex = 255
)

// FieldDef declares one field of a model.
type FieldDef struct {
	// Index is the wire tag, 0 to 255.
	Index int

	// Label is the record key, unique and non-empty within a model.
	Label string

	// Type is the field's type descriptor.
	Type schema.Type

	// Required fields must be present in every encoded and decoded record.
	Required bool
}

// Field returns a field definition.
// Index bounds and label rules are checked when the model is registered.
func Field(index int, label string, t schema.Type) FieldDef {
	return FieldDef{Index: index, Label: label, Type: t}
}

// RequiredField returns a field definition that every record must carry.
func RequiredField(index int, label string, t schema.Type) FieldDef {
	return FieldDef{Index: index, Label: label, Type: t, Required: true}
}

// FieldOf returns a field definition with a textual type descriptor.
func FieldOf(index int, label, desc string) (FieldDef, error) {
	t, err := schema.Parse(desc)
	if err != nil {
		return FieldDef{}, fmt.Errorf("%w: field %q: %w", ErrModel, label, err)
	}
	return Field(index, label, t), nil
}

// String returns "index:label:type", with a trailing "!" for required
// fields.
func (f FieldDef) String() string {
	typ := "<nil>"
	if f.Type != nil {
		typ = f.Type.String()
	}
	s := fmt.Sprintf("%d:%s:%s", f.Index, f.Label, typ)
	if f.Required {
		s += "!"
	}
	return s
}
