package model

import (
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// Model is a named record schema. A Model is immutable once registered and
// safe for concurrent use.
type Model struct {
	name     string
	registry *Registry
	schema   map[byte]FieldDef
	labels   map[string]byte
	order    []byte // indices, ascending
	required []byte // required indices, ascending
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Registry returns the registry the model belongs to. Model references in
// its fields resolve against this registry.
func (m *Model) Registry() *Registry {
	return m.registry
}

// Fields returns the field definitions in ascending index order.
func (m *Model) Fields() []FieldDef {
	fields := make([]FieldDef, 0, len(m.order))
	for _, index := range m.order {
		fields = append(fields, m.schema[index])
	}
	return fields
}

// Field returns the field with the given label.
func (m *Model) Field(label string) (FieldDef, bool) {
	index, ok := m.labels[label]
	if !ok {
		return FieldDef{}, false
	}
	return m.schema[index], true
}

// FieldByIndex returns the field with the given wire index.
func (m *Model) FieldByIndex(index byte) (FieldDef, bool) {
	f, ok := m.schema[index]
	return f, ok
}

// Type returns the descriptor that refers to this model.
func (m *Model) Type() schema.ModelRef {
	return schema.ModelOf(m.name)
}

// missingRequired returns the label of the first required field for which
// has reports false.
func (m *Model) missingRequired(has func(label string) bool) (string, bool) {
	for _, index := range m.required {
		label := m.schema[index].Label
		if !has(label) {
			return label, true
		}
	}
	return "", false
}
