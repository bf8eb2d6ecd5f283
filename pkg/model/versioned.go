package model

import (
	"fmt"
	"time"

	"github.com/bufti-format/bufti-go/pkg/buffer"
	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/version"
)

// EncodeVersioned encodes a record behind a one-byte major version prefix:
//
//	[1 byte version.Major][record]
func (m *Model) EncodeVersioned(values map[string]any) ([]byte, error) {
	start := time.Now()
	w := buffer.NewWriter()
	w.WriteUint8(version.Major)
	err := m.encodeRecord(w, values)
	m.trace(log.OpEncode, start, w.Len(), len(values), true, err)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeVersioned decodes a payload written by EncodeVersioned. A missing
// or different major version fails with ErrVersion.
func (m *Model) DecodeVersioned(data []byte) (map[string]any, error) {
	start := time.Now()
	record, err := m.decodeVersioned(data)
	m.trace(log.OpDecode, start, len(data), len(record), true, err)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (m *Model) decodeVersioned(data []byte) (map[string]any, error) {
	r := buffer.NewReader(data)
	major, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: missing version prefix: %w", ErrVersion, err)
	}
	if err := version.Check(major); err != nil {
		return nil, err
	}
	return m.decodeRecord(r, r.Remaining())
}
