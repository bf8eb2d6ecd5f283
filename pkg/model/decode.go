package model

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/bufti-format/bufti-go/pkg/buffer"
	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

// Decode decodes a record.
//
// Entries are read until the buffer ends at an entry boundary. An index the
// model does not declare fails with ErrBufferFormat; a buffer that ends
// inside a value fails with ErrUnexpectedEndOfBuffer. A repeated index
// overwrites the earlier value. A record without one of the model's required
// fields fails with ErrBufferFormat. No partial record is returned on
// failure.
func (m *Model) Decode(data []byte) (map[string]any, error) {
	start := time.Now()
	record, err := m.decodeRecord(buffer.NewReader(data), len(data))
	m.trace(log.OpDecode, start, len(data), len(record), false, err)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// decodeRecord reads at most limit entries. Every entry takes at least one
// byte, so the byte length of the buffer bounds the entry count; the loop
// normally ends earlier at the clean end of the buffer.
func (m *Model) decodeRecord(r *buffer.Reader, limit int) (map[string]any, error) {
	record := make(map[string]any)
	for i := 0; i < limit; i++ {
		label, value, ok, err := m.NextField(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		record[label] = value
	}
	if label, missing := m.missingRequired(func(l string) bool { _, ok := record[l]; return ok }); missing {
		return nil, fmt.Errorf("%w: required field %q missing in model %s", ErrBufferFormat, label, m.name)
	}
	return record, nil
}

// NextField reads one entry from r. ok is false when r is exhausted at an
// entry boundary.
func (m *Model) NextField(r *buffer.Reader) (label string, value any, ok bool, err error) {
	index, ok, err := r.NextIndex()
	if err != nil || !ok {
		return "", nil, false, err
	}

	f, exists := m.schema[index]
	if !exists {
		return "", nil, false, fmt.Errorf("%w: index not found (%d) in model %s", ErrBufferFormat, index, m.name)
	}

	v, err := m.decodeValue(r, f.Type)
	if err != nil {
		return "", nil, false, fmt.Errorf("field %q of model %s: %w", f.Label, m.name, err)
	}
	return f.Label, v.Interface(), true, nil
}

func (m *Model) decodeValue(r *buffer.Reader, t schema.Type) (reflect.Value, error) {
	switch t := t.(type) {
	case schema.Primitive:
		v, err := decodePrimitive(r, t)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case schema.List:
		n, err := r.ReadUint32()
		if err != nil {
			return reflect.Value{}, err
		}
		list := reflect.MakeSlice(schema.GoType(t), 0, capHint(n, r))
		for i := uint32(0); i < n; i++ {
			elem, err := m.decodeValue(r, t.Elem)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			list = reflect.Append(list, elem)
		}
		return list, nil

	case schema.Map:
		n, err := r.ReadUint32()
		if err != nil {
			return reflect.Value{}, err
		}
		mv := reflect.MakeMapWithSize(schema.GoType(t), capHint(n, r))
		for i := uint32(0); i < n; i++ {
			key, err := m.decodeValue(r, t.Key)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map key %d: %w", i, err)
			}
			val, err := m.decodeValue(r, t.Value)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map value %d: %w", i, err)
			}
			mv.SetMapIndex(key, val)
		}
		return mv, nil

	case schema.ModelRef:
		nested, err := m.registry.Lookup(t.Name)
		if err != nil {
			return reflect.Value{}, err
		}
		size, err := r.ReadUint16()
		if err != nil {
			return reflect.Value{}, err
		}
		sub, err := r.ReadPayload(int(size))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("nested model %s: %w", t.Name, err)
		}
		record, err := nested.decodeRecord(buffer.NewReader(sub), len(sub))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(record), nil

	default:
		return reflect.Value{}, fmt.Errorf("%w: unsupported type %v", ErrModel, t)
	}
}

func decodePrimitive(r *buffer.Reader, t schema.Primitive) (any, error) {
	switch t {
	case schema.Int8:
		return r.ReadInt8()
	case schema.Int16:
		return r.ReadInt16()
	case schema.Int32:
		return r.ReadInt32()
	case schema.Int64:
		return r.ReadInt64()
	case schema.Float32:
		return r.ReadFloat32()
	case schema.Float64:
		return r.ReadFloat64()
	case schema.Bool:
		return r.ReadBool()
	case schema.String:
		n, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		s, err := r.ReadString(int(n))
		if errors.Is(err, buffer.ErrInvalidUTF8) {
			return nil, fmt.Errorf("%w: %w", ErrBufferFormat, err)
		}
		return s, err
	default:
		return nil, fmt.Errorf("%w: unsupported primitive %v", ErrModel, t)
	}
}

// capHint bounds a wire count by the bytes left, since every element takes
// at least one byte.
func capHint(n uint32, r *buffer.Reader) int {
	if rem := r.Remaining(); int64(n) > int64(rem) {
		return rem
	}
	return int(n)
}
