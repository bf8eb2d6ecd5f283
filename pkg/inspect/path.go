package inspect

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid numeric value in path")
	ErrNotFound      = errors.New("path not found")
)

// Path is a parsed path into a decoded record.
//
// Segments are separated by "/". At record level a segment names a field
// by label or by numeric index; inside a list it is an element position;
// inside a map it is a key in its printed form.
type Path struct {
	Segments []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path.
//
// Supported forms:
//   - "label" - a top-level field
//   - "3" - a top-level field by index
//   - "d/aa" - a field of a nested model
//   - "b/0" - a list element
//   - "c/k" - a map value
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	return &Path{Segments: strings.Split(input, "/"), Raw: input}, nil
}

// String returns the path as a string.
func (p *Path) String() string {
	return strings.Join(p.Segments, "/")
}

// Resolve walks path through a record decoded with m and returns the value
// it names together with its type.
func Resolve(m *model.Model, record map[string]any, path *Path) (any, schema.Type, error) {
	var (
		current any         = record
		typ     schema.Type = m.Type()
	)

	for i, seg := range path.Segments {
		at := strings.Join(path.Segments[:i+1], "/")
		switch t := typ.(type) {
		case schema.ModelRef:
			nested, err := m.Registry().Lookup(t.Name)
			if err != nil {
				return nil, nil, err
			}
			f, ok := ResolveField(nested, seg)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s: no field %q in model %s", ErrNotFound, at, seg, t.Name)
			}
			rec, _ := current.(map[string]any)
			v, ok := rec[f.Label]
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s: field %s not set", ErrNotFound, at, f.Label)
			}
			current, typ = v, f.Type

		case schema.List:
			n, err := parseIndex(seg)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", at, err)
			}
			rv := reflect.ValueOf(current)
			if rv.Kind() != reflect.Slice || n >= rv.Len() {
				return nil, nil, fmt.Errorf("%w: %s: index %d out of range", ErrNotFound, at, n)
			}
			current, typ = rv.Index(n).Interface(), t.Elem

		case schema.Map:
			v, ok := mapLookup(current, seg)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s: no key %q", ErrNotFound, at, seg)
			}
			current, typ = v, t.Value

		default:
			return nil, nil, fmt.Errorf("%w: %s: %s has no children", ErrInvalidPath, at, typ)
		}
	}

	return current, typ, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return n, nil
}

// mapLookup finds the value whose key prints as key.
func mapLookup(m any, key string) (any, bool) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	iter := rv.MapRange()
	for iter.Next() {
		if fmt.Sprint(iter.Key().Interface()) == key {
			return iter.Value().Interface(), true
		}
	}
	return nil, false
}
