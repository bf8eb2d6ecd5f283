package inspect

import (
	"fmt"

	"github.com/bufti-format/bufti-go/pkg/buffer"
	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
	"github.com/bufti-format/bufti-go/pkg/version"
)

// Entry is one top-level entry of an encoded record.
type Entry struct {
	// Offset is the position of the index byte in the input.
	Offset int

	Index int
	Label string
	Type  schema.Type

	// Size is the entry length in bytes, index byte included.
	Size int

	Value any
}

// Dump walks the top-level entries of a record encoded with m.
// On a fatal error it returns the entries read so far along with the error.
func Dump(m *model.Model, data []byte) ([]Entry, error) {
	r := buffer.NewReader(data)
	return dump(m, r, len(data))
}

// DumpVersioned is Dump for payloads written by EncodeVersioned. Offsets
// count the version prefix.
func DumpVersioned(m *model.Model, data []byte) ([]Entry, error) {
	r := buffer.NewReader(data)
	major, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: missing version prefix: %w", model.ErrVersion, err)
	}
	if err := version.Check(major); err != nil {
		return nil, err
	}
	return dump(m, r, r.Remaining())
}

func dump(m *model.Model, r *buffer.Reader, limit int) ([]Entry, error) {
	var entries []Entry
	for i := 0; i < limit; i++ {
		offset := r.Offset()
		label, value, ok, err := m.NextField(r)
		if err != nil {
			return entries, fmt.Errorf("entry at offset %d: %w", offset, err)
		}
		if !ok {
			break
		}
		f, _ := m.Field(label)
		entries = append(entries, Entry{
			Offset: offset,
			Index:  f.Index,
			Label:  label,
			Type:   f.Type,
			Size:   r.Offset() - offset,
			Value:  value,
		})
	}
	return entries, nil
}
