package inspect

import (
	"errors"
	"fmt"

	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// ErrModelNotFound is returned when a model name is not registered.
var ErrModelNotFound = errors.New("model not found")

// Inspector provides inspection over the models of a registry.
type Inspector struct {
	registry *model.Registry
}

// NewInspector creates a new Inspector for the given registry.
func NewInspector(registry *model.Registry) *Inspector {
	return &Inspector{registry: registry}
}

// Registry returns the underlying registry.
func (i *Inspector) Registry() *model.Registry {
	return i.registry
}

// ModelInfo represents a model and the models its fields reference.
type ModelInfo struct {
	Name   string
	Fields []FieldInfo
}

// FieldInfo represents one field for display.
type FieldInfo struct {
	Index int
	Label string
	Type  string

	// Required mirrors model.FieldDef.Required.
	Required bool

	// Nested is the expanded model the field type references, if any.
	Nested *ModelInfo

	// Recursive marks a reference back to a model already being expanded.
	Recursive bool

	// Unresolved marks a reference to a model that is not registered.
	Unresolved bool
}

// InspectModel returns the field tree of the named model. Referenced
// models are expanded once per branch; cycles are marked Recursive.
func (i *Inspector) InspectModel(name string) (*ModelInfo, error) {
	m, err := i.registry.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return i.inspectModel(m, map[string]bool{}), nil
}

func (i *Inspector) inspectModel(m *model.Model, expanding map[string]bool) *ModelInfo {
	expanding[m.Name()] = true
	defer delete(expanding, m.Name())

	info := &ModelInfo{Name: m.Name()}
	for _, f := range m.Fields() {
		fi := FieldInfo{Index: f.Index, Label: f.Label, Type: f.Type.String(), Required: f.Required}
		if ref, ok := referencedModel(f.Type); ok {
			switch nested, err := i.registry.Lookup(ref); {
			case err != nil:
				fi.Unresolved = true
			case expanding[ref]:
				fi.Recursive = true
			default:
				fi.Nested = i.inspectModel(nested, expanding)
			}
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}

// referencedModel returns the model a type carries, looking through list
// elements and map values.
func referencedModel(t schema.Type) (string, bool) {
	switch v := t.(type) {
	case schema.ModelRef:
		return v.Name, true
	case schema.List:
		return referencedModel(v.Elem)
	case schema.Map:
		return referencedModel(v.Value)
	default:
		return "", false
	}
}

// ReadValue decodes data with the named model and returns the value at path.
// A nil path returns the whole record.
func (i *Inspector) ReadValue(name string, data []byte, path *Path) (any, error) {
	m, err := i.registry.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	record, err := m.Decode(data)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return record, nil
	}
	v, _, err := Resolve(m, record, path)
	return v, err
}

// FormatModel formats a model tree for display.
func (i *Inspector) FormatModel(info *ModelInfo, formatter *Formatter) string {
	if formatter == nil {
		formatter = NewFormatter()
	}
	return formatter.Indent(0, info.Name) + "\n" + i.formatFields(info.Fields, formatter, 1)
}

func (i *Inspector) formatFields(fields []FieldInfo, f *Formatter, depth int) string {
	var result string
	for _, fi := range fields {
		line := fmt.Sprintf("[%d] %s: %s", fi.Index, fi.Label, fi.Type)
		if fi.Required {
			line += " required"
		}
		switch {
		case fi.Recursive:
			line += " (recursive)"
		case fi.Unresolved:
			line += " (unresolved)"
		}
		result += f.Indent(depth, line) + "\n"
		if fi.Nested != nil {
			result += i.formatFields(fi.Nested.Fields, f, depth+1)
		}
	}
	return result
}
