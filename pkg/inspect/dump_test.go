package inspect

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

func encodeMine(t *testing.T, reg *model.Registry, versioned bool) []byte {
	t.Helper()
	mine, _ := reg.Lookup("Mine")
	values := map[string]any{
		"a": "hi",
		"b": []int32{1, 2},
		"d": map[string]any{"aa": 1.5},
	}
	encode := mine.Encode
	if versioned {
		encode = mine.EncodeVersioned
	}
	data, err := encode(values)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return data
}

func TestDump(t *testing.T) {
	reg := newTestRegistry(t)
	mine, _ := reg.Lookup("Mine")
	data := encodeMine(t, reg, false)

	entries, err := Dump(mine, data)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	want := []Entry{
		{Offset: 0, Index: 0, Label: "a", Type: schema.String, Size: 7, Value: "hi"},
		{Offset: 7, Index: 1, Label: "b", Type: schema.ListOf(schema.Int32), Size: 13, Value: []int32{1, 2}},
		{Offset: 20, Index: 3, Label: "d", Type: schema.ModelOf("Other"), Size: 12, Value: map[string]any{"aa": 1.5}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Dump = %+v\nwant %+v", entries, want)
	}
}

func TestDumpVersioned(t *testing.T) {
	reg := newTestRegistry(t)
	mine, _ := reg.Lookup("Mine")
	data := encodeMine(t, reg, true)

	entries, err := DumpVersioned(mine, data)
	if err != nil {
		t.Fatalf("DumpVersioned failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, off := range []int{1, 8, 21} {
		if entries[i].Offset != off {
			t.Errorf("entries[%d].Offset = %d, want %d", i, entries[i].Offset, off)
		}
	}

	_, err = DumpVersioned(mine, []byte{0x7F})
	if !errors.Is(err, model.ErrVersion) {
		t.Errorf("wrong version error = %v, want ErrVersion", err)
	}
}

func TestDumpTruncated(t *testing.T) {
	reg := newTestRegistry(t)
	mine, _ := reg.Lookup("Mine")
	data := encodeMine(t, reg, false)

	entries, err := Dump(mine, data[:25])
	if !errors.Is(err, model.ErrUnexpectedEndOfBuffer) {
		t.Fatalf("error = %v, want ErrUnexpectedEndOfBuffer", err)
	}
	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want the 2 entries before the cut", len(entries))
	}
}

func TestDumpUnknownIndex(t *testing.T) {
	reg := newTestRegistry(t)
	mine, _ := reg.Lookup("Mine")

	entries, err := Dump(mine, []byte{0x00, 0, 0, 0, 0, 0x2A})
	if !errors.Is(err, model.ErrBufferFormat) {
		t.Fatalf("error = %v, want ErrBufferFormat", err)
	}
	if len(entries) != 1 || entries[0].Value != "" {
		t.Errorf("entries = %+v, want one empty string entry", entries)
	}
}

func TestDumpEmpty(t *testing.T) {
	reg := newTestRegistry(t)
	mine, _ := reg.Lookup("Mine")

	entries, err := Dump(mine, nil)
	if err != nil || len(entries) != 0 {
		t.Errorf("Dump(nil) = %v, %v; want no entries", entries, err)
	}
}
