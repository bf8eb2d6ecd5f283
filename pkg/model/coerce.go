package model

import (
	"fmt"
	"math"
	"reflect"

	"github.com/bufti-format/bufti-go/pkg/schema"
)

func mismatch(t schema.Type, value any) error {
	return fmt.Errorf("%w: cannot encode %T as %s", ErrDictFormat, value, t)
}

// toInt converts any Go integer to int64 and checks it against [lo, hi].
func toInt(t schema.Primitive, value any, lo, hi int64) (int64, error) {
	rv := reflect.ValueOf(value)
	var v int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: value %d out of range for %s", ErrDictFormat, u, t)
		}
		v = int64(u)
	default:
		return 0, mismatch(t, value)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: value %d out of range for %s", ErrDictFormat, v, t)
	}
	return v, nil
}

// toFloat accepts either Go float type.
func toFloat(t schema.Primitive, value any) (float64, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, mismatch(t, value)
	}
}

// asRecord accepts map[string]any, any map with string keys, or a struct
// (or pointer to one) whose fields m declares.
func (m *Model) asRecord(value any) (map[string]any, bool) {
	if rec, ok := value.(map[string]any); ok {
		return rec, true
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch {
	case rv.Kind() == reflect.Struct:
		return m.structRecord(rv), true
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		rec := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			rec[iter.Key().String()] = iter.Value().Interface()
		}
		return rec, true
	default:
		return nil, false
	}
}
