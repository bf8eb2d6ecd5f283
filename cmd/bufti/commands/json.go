// Package commands implements the bufti CLI commands.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// RecordFromJSON parses a JSON object into a record for m. Numbers are
// converted to the declared field types; map keys are parsed from their
// JSON string form. Labels m does not declare are kept so Encode reports
// them.
func RecordFromJSON(m *model.Model, data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing JSON input: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parsing JSON input: expected an object")
	}
	return recordFromJSON(m, raw)
}

func recordFromJSON(m *model.Model, raw map[string]any) (map[string]any, error) {
	record := make(map[string]any, len(raw))
	for label, v := range raw {
		f, ok := m.Field(label)
		if !ok {
			record[label] = v
			continue
		}
		val, err := valueFromJSON(m.Registry(), f.Type, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", label, err)
		}
		record[label] = val
	}
	return record, nil
}

func valueFromJSON(reg *model.Registry, t schema.Type, v any) (any, error) {
	switch t := t.(type) {
	case schema.Primitive:
		return primitiveFromJSON(t, v)

	case schema.List:
		items, ok := v.([]any)
		if !ok {
			return nil, jsonMismatch(t, v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			val, err := valueFromJSON(reg, t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = val
		}
		return out, nil

	case schema.Map:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, jsonMismatch(t, v)
		}
		key, _ := t.Key.(schema.Primitive)
		out := make(map[any]any, len(obj))
		for k, item := range obj {
			kv, err := parseKey(key, k)
			if err != nil {
				return nil, err
			}
			val, err := valueFromJSON(reg, t.Value, item)
			if err != nil {
				return nil, fmt.Errorf("map value for key %q: %w", k, err)
			}
			out[kv] = val
		}
		return out, nil

	case schema.ModelRef:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, jsonMismatch(t, v)
		}
		nested, err := reg.Lookup(t.Name)
		if err != nil {
			return nil, err
		}
		return recordFromJSON(nested, obj)

	default:
		return nil, jsonMismatch(t, v)
	}
}

func primitiveFromJSON(t schema.Primitive, v any) (any, error) {
	switch t {
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		n, ok := v.(json.Number)
		if !ok {
			return nil, jsonMismatch(t, v)
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a %s", model.ErrDictFormat, n, t)
		}
		return i, nil
	case schema.Float32, schema.Float64:
		switch n := v.(type) {
		case json.Number:
			return n.Float64()
		case string:
			// NaN and infinities have no JSON number form.
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, jsonMismatch(t, v)
			}
			return f, nil
		}
		return nil, jsonMismatch(t, v)
	case schema.Bool:
		if _, ok := v.(bool); !ok {
			return nil, jsonMismatch(t, v)
		}
		return v, nil
	case schema.String:
		if _, ok := v.(string); !ok {
			return nil, jsonMismatch(t, v)
		}
		return v, nil
	default:
		return nil, jsonMismatch(t, v)
	}
}

func parseKey(t schema.Primitive, k string) (any, error) {
	switch t {
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		i, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: map key %q is not a %s", model.ErrDictFormat, k, t)
		}
		return i, nil
	case schema.Float32, schema.Float64:
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: map key %q is not a %s", model.ErrDictFormat, k, t)
		}
		return f, nil
	case schema.Bool:
		b, err := strconv.ParseBool(k)
		if err != nil {
			return nil, fmt.Errorf("%w: map key %q is not a bool", model.ErrDictFormat, k)
		}
		return b, nil
	default:
		return k, nil
	}
}

func jsonMismatch(t schema.Type, v any) error {
	return fmt.Errorf("%w: JSON %s cannot be a %s", model.ErrDictFormat, jsonKind(v), t)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ToJSON converts a decoded value into a form encoding/json accepts: map
// keys become strings and non-finite floats become "NaN", "+Inf" or "-Inf".
func ToJSON(v any) any {
	switch x := v.(type) {
	case float32:
		return floatJSON(float64(x), 32)
	case float64:
		return floatJSON(x, 64)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = ToJSON(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = ToJSON(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

func floatJSON(f float64, bits int) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, bits))
}

// MarshalRecord renders a decoded record as indented JSON.
func MarshalRecord(record map[string]any) ([]byte, error) {
	return json.MarshalIndent(ToJSON(record), "", "  ")
}
