package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// Registry is a catalog of models keyed by name.
//
// Models are added during a build phase and never removed. Freeze ends the
// build phase. All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
	frozen bool
	logger log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]*Model),
	}
}

// SetLogger configures codec event tracing for all models of this registry.
// Pass nil to disable tracing.
func (r *Registry) SetLogger(logger log.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

func (r *Registry) eventLogger() log.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}

// Register validates the fields, builds a model and adds it under name.
//
// It fails with ErrModel if the registry is frozen, the name is empty or
// taken, or a field has an index outside 0..255, an empty label, a
// duplicate index, a duplicate label or a malformed type. Nothing is added
// on failure.
func (r *Registry) Register(name string, fields ...FieldDef) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty model name", ErrModel)
	}

	m := &Model{
		name:     name,
		registry: r,
		schema:   make(map[byte]FieldDef, len(fields)),
		labels:   make(map[string]byte, len(fields)),
	}

	for _, f := range fields {
		if f.Index < MinIndex || f.Index > MaxIndex {
			return nil, fmt.Errorf("%w: index not between %d and %d in model %s in field %q, instead %d",
				ErrModel, MinIndex, MaxIndex, name, f.Label, f.Index)
		}
		if f.Label == "" {
			return nil, fmt.Errorf("%w: empty label in model %s", ErrModel, name)
		}
		index := byte(f.Index)
		if _, dup := m.schema[index]; dup {
			return nil, fmt.Errorf("%w: duplicate index %d in model %s", ErrModel, f.Index, name)
		}
		if _, dup := m.labels[f.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q in model %s", ErrModel, f.Label, name)
		}
		if err := schema.Validate(f.Type); err != nil {
			return nil, fmt.Errorf("%w: field %q in model %s: %w", ErrModel, f.Label, name, err)
		}

		m.schema[index] = f
		m.labels[f.Label] = index
		m.order = append(m.order, index)
	}
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	for _, index := range m.order {
		if m.schema[index].Required {
			m.required = append(m.required, index)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return nil, fmt.Errorf("%w: registry is frozen, cannot register %s", ErrModel, name)
	}
	if _, dup := r.models[name]; dup {
		return nil, fmt.Errorf("%w: duplicate model %s", ErrModel, name)
	}
	r.models[name] = m
	return m, nil
}

// MustRegister is like Register but panics on error.
// Intended for package-level model declarations.
func (r *Registry) MustRegister(name string, fields ...FieldDef) *Model {
	m, err := r.Register(name, fields...)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: no model %s registered", ErrModel, name)
	}
	return m, nil
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Freeze ends the build phase. Subsequent Register calls fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Unresolved returns the model references of all registered models that
// name no registered model, as "Model.label -> name" strings in sorted
// order. References resolve lazily, so this is a build-phase check, not a
// registration requirement.
func (r *Registry) Unresolved() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, m := range r.models {
		for _, index := range m.order {
			f := m.schema[index]
			for _, ref := range modelRefs(f.Type) {
				if _, ok := r.models[ref]; !ok {
					out = append(out, fmt.Sprintf("%s.%s -> %s", m.name, f.Label, ref))
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

func modelRefs(t schema.Type) []string {
	switch v := t.(type) {
	case schema.List:
		return modelRefs(v.Elem)
	case schema.Map:
		return append(modelRefs(v.Key), modelRefs(v.Value)...)
	case schema.ModelRef:
		return []string{v.Name}
	default:
		return nil
	}
}
