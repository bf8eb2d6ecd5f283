package inspect

import (
	"strconv"

	"github.com/bufti-format/bufti-go/pkg/model"
)

// ResolveField resolves a field of m by label, or by decimal or hex (0x
// prefix) index when no label matches.
func ResolveField(m *model.Model, name string) (model.FieldDef, bool) {
	if f, ok := m.Field(name); ok {
		return f, true
	}
	n, err := strconv.ParseUint(name, 0, 8)
	if err != nil {
		return model.FieldDef{}, false
	}
	return m.FieldByIndex(byte(n))
}

// FieldLabel returns the label of the field with the given index, or ""
// when m declares no such index.
func FieldLabel(m *model.Model, index byte) string {
	if f, ok := m.FieldByIndex(index); ok {
		return f.Label
	}
	return ""
}
