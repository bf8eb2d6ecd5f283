package model

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/bufti-format/bufti-go/pkg/buffer"
	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// MaxNestedSize is the largest encoded size of a nested model value.
const MaxNestedSize = math.MaxUint16

// Encode encodes a record. Entries are written in ascending field index
// order; any order decodes to the same record.
func (m *Model) Encode(values map[string]any) ([]byte, error) {
	start := time.Now()
	w := buffer.NewWriter()
	err := m.encodeRecord(w, values)
	m.trace(log.OpEncode, start, w.Len(), len(values), false, err)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// AppendField appends one entry for label to w. Records may be built entry
// by entry in any order; a label appended twice decodes to the last value.
func (m *Model) AppendField(w *buffer.Writer, label string, value any) error {
	index, ok := m.labels[label]
	if !ok {
		return fmt.Errorf("%w: label %q not found in model %s", ErrDictFormat, label, m.name)
	}
	return m.appendIndexed(w, index, value)
}

func (m *Model) appendIndexed(w *buffer.Writer, index byte, value any) error {
	f := m.schema[index]
	mark := w.Len()
	w.WriteUint8(index)
	if err := m.encodeValue(w, f.Type, value); err != nil {
		w.Truncate(mark)
		return fmt.Errorf("field %q of model %s: %w", f.Label, m.name, err)
	}
	return nil
}

func (m *Model) encodeRecord(w *buffer.Writer, values map[string]any) error {
	indices := make([]byte, 0, len(values))
	for label := range values {
		index, ok := m.labels[label]
		if !ok {
			return fmt.Errorf("%w: label %q not found in model %s", ErrDictFormat, label, m.name)
		}
		indices = append(indices, index)
	}
	if label, missing := m.missingRequired(func(l string) bool { _, ok := values[l]; return ok }); missing {
		return fmt.Errorf("%w: required field %q missing for model %s", ErrDictFormat, label, m.name)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	for _, index := range indices {
		if err := m.appendIndexed(w, index, values[m.schema[index].Label]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) encodeValue(w *buffer.Writer, t schema.Type, value any) error {
	switch t := t.(type) {
	case schema.Primitive:
		return encodePrimitive(w, t, value)

	case schema.List:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return mismatch(t, value)
		}
		if err := writeCount(w, rv.Len()); err != nil {
			return err
		}
		for i := 0; i < rv.Len(); i++ {
			if err := m.encodeValue(w, t.Elem, rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil

	case schema.Map:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Map {
			return mismatch(t, value)
		}
		if err := writeCount(w, rv.Len()); err != nil {
			return err
		}
		iter := rv.MapRange()
		for iter.Next() {
			if err := m.encodeValue(w, t.Key, iter.Key().Interface()); err != nil {
				return fmt.Errorf("map key %v: %w", iter.Key(), err)
			}
			if err := m.encodeValue(w, t.Value, iter.Value().Interface()); err != nil {
				return fmt.Errorf("map value for key %v: %w", iter.Key(), err)
			}
		}
		return nil

	case schema.ModelRef:
		nested, err := m.registry.Lookup(t.Name)
		if err != nil {
			return err
		}
		record, ok := nested.asRecord(value)
		if !ok {
			return mismatch(t, value)
		}
		sub := buffer.NewWriter()
		if err := nested.encodeRecord(sub, record); err != nil {
			return err
		}
		if sub.Len() > MaxNestedSize {
			return fmt.Errorf("%w: nested model %s encodes to %d bytes, limit %d",
				ErrDictFormat, t.Name, sub.Len(), MaxNestedSize)
		}
		w.WriteUint16(uint16(sub.Len()))
		w.WriteBytes(sub.Bytes())
		return nil

	default:
		return fmt.Errorf("%w: unsupported type %v", ErrModel, t)
	}
}

func encodePrimitive(w *buffer.Writer, t schema.Primitive, value any) error {
	switch t {
	case schema.Int8:
		v, err := toInt(t, value, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		w.WriteInt8(int8(v))
	case schema.Int16:
		v, err := toInt(t, value, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		w.WriteInt16(int16(v))
	case schema.Int32:
		v, err := toInt(t, value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		w.WriteInt32(int32(v))
	case schema.Int64:
		v, err := toInt(t, value, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		w.WriteInt64(v)
	case schema.Float32:
		v, err := toFloat(t, value)
		if err != nil {
			return err
		}
		w.WriteFloat32(float32(v))
	case schema.Float64:
		v, err := toFloat(t, value)
		if err != nil {
			return err
		}
		w.WriteFloat64(v)
	case schema.Bool:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Bool {
			return mismatch(t, value)
		}
		w.WriteBool(rv.Bool())
	case schema.String:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.String {
			return mismatch(t, value)
		}
		s := rv.String()
		// The prefix counts UTF-8 bytes, not characters.
		if err := writeCount(w, len(s)); err != nil {
			return err
		}
		w.WriteString(s)
	default:
		return fmt.Errorf("%w: unsupported primitive %v", ErrModel, t)
	}
	return nil
}

func writeCount(w *buffer.Writer, n int) error {
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: length %d exceeds 4-byte count", ErrDictFormat, n)
	}
	w.WriteUint32(uint32(n))
	return nil
}
