package model

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrBind indicates a Go value that cannot be bound to a model: a
// destination that is not a pointer to a struct, or a decoded value that
// does not fit its struct field.
var ErrBind = errors.New("cannot bind value")

// TagName is the struct tag key naming the field label. Untagged exported
// fields use the Go field name; a tag of "-" skips the field.
const TagName = "bufti"

// structFields maps labels to struct field indices, per struct type.
var structFields sync.Map // reflect.Type -> map[string]int

func labelsOf(t reflect.Type) map[string]int {
	if cached, ok := structFields.Load(t); ok {
		return cached.(map[string]int)
	}
	labels := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		label := sf.Name
		if tag := sf.Tag.Get(TagName); tag == "-" {
			continue
		} else if tag != "" {
			label = tag
		}
		labels[label] = i
	}
	cached, _ := structFields.LoadOrStore(t, labels)
	return cached.(map[string]int)
}

// EncodeStruct encodes a struct or a pointer to one. Fields are matched to
// model labels by their bufti tag, else by name; struct fields the model
// does not declare are ignored, and nil pointer or interface fields are
// left out of the record.
func (m *Model) EncodeStruct(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: cannot encode %T as model %s", ErrDictFormat, v, m.name)
	}
	return m.Encode(m.structRecord(rv))
}

// structRecord collects the fields of rv that m declares.
func (m *Model) structRecord(rv reflect.Value) map[string]any {
	record := make(map[string]any)
	for label, i := range labelsOf(rv.Type()) {
		if _, ok := m.labels[label]; !ok {
			continue
		}
		fv := rv.Field(i)
		for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
			if fv.IsNil() {
				break
			}
			fv = fv.Elem()
		}
		if (fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface) && fv.IsNil() {
			continue
		}
		record[label] = fv.Interface()
	}
	return record
}

// DecodeInto decodes data and stores the record in the struct dest points
// to. Record labels without a matching struct field are dropped.
func (m *Model) DecodeInto(data []byte, dest any) error {
	rv, err := bindTarget(dest)
	if err != nil {
		return err
	}
	record, err := m.Decode(data)
	if err != nil {
		return err
	}
	return bindRecord(record, rv)
}

// Bind stores a decoded record in the struct dest points to, converting
// values to the field types: integers and floats to any type of the same
// kind that holds them, lists to slices, maps to maps and nested records to
// structs. Pointer fields are allocated as needed.
func Bind(record map[string]any, dest any) error {
	rv, err := bindTarget(dest)
	if err != nil {
		return err
	}
	return bindRecord(record, rv)
}

func bindTarget(dest any) (reflect.Value, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: destination must be a non-nil struct pointer, got %T", ErrBind, dest)
	}
	return rv.Elem(), nil
}

func bindRecord(record map[string]any, dst reflect.Value) error {
	t := dst.Type()
	for label, i := range labelsOf(t) {
		v, ok := record[label]
		if !ok {
			continue
		}
		if err := bindValue(dst.Field(i), reflect.ValueOf(v)); err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), t.Field(i).Name, err)
		}
	}
	return nil
}

func bindValue(dst, src reflect.Value) error {
	if !src.IsValid() {
		return nil
	}
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch dst.Kind() {
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return bindValue(dst.Elem(), src)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !isInt(src.Kind()) || dst.OverflowInt(src.Int()) {
			return bindMismatch(dst, src)
		}
		dst.SetInt(src.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !isInt(src.Kind()) || src.Int() < 0 || dst.OverflowUint(uint64(src.Int())) {
			return bindMismatch(dst, src)
		}
		dst.SetUint(uint64(src.Int()))

	case reflect.Float32, reflect.Float64:
		if src.Kind() != reflect.Float32 && src.Kind() != reflect.Float64 {
			return bindMismatch(dst, src)
		}
		dst.SetFloat(src.Float())

	case reflect.Bool, reflect.String:
		if src.Kind() != dst.Kind() {
			return bindMismatch(dst, src)
		}
		dst.Set(src.Convert(dst.Type()))

	case reflect.Slice:
		if src.Kind() != reflect.Slice {
			return bindMismatch(dst, src)
		}
		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := bindValue(out.Index(i), src.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		dst.Set(out)

	case reflect.Map:
		if src.Kind() != reflect.Map {
			return bindMismatch(dst, src)
		}
		out := reflect.MakeMapWithSize(dst.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			k := reflect.New(dst.Type().Key()).Elem()
			if err := bindValue(k, iter.Key()); err != nil {
				return fmt.Errorf("map key %v: %w", iter.Key(), err)
			}
			v := reflect.New(dst.Type().Elem()).Elem()
			if err := bindValue(v, iter.Value()); err != nil {
				return fmt.Errorf("map value for key %v: %w", iter.Key(), err)
			}
			out.SetMapIndex(k, v)
		}
		dst.Set(out)

	case reflect.Struct:
		record, ok := src.Interface().(map[string]any)
		if !ok {
			return bindMismatch(dst, src)
		}
		return bindRecord(record, dst)

	default:
		return bindMismatch(dst, src)
	}
	return nil
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func bindMismatch(dst, src reflect.Value) error {
	return fmt.Errorf("%w: cannot store %s in %s", ErrBind, src.Type(), dst.Type())
}
