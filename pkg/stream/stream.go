package stream

import (
	"fmt"
	"io"

	"github.com/bufti-format/bufti-go/pkg/model"
)

// Writer encodes records of one model and writes each as a frame.
type Writer struct {
	model     *model.Model
	frames    *FrameWriter
	versioned bool
}

// NewWriter creates a record writer for m. When versioned is set every
// record carries the format version prefix.
func NewWriter(w io.Writer, m *model.Model, versioned bool) *Writer {
	return &Writer{model: m, frames: NewFrameWriter(w), versioned: versioned}
}

// SetMaxRecordSize updates the maximum encoded record size.
func (sw *Writer) SetMaxRecordSize(size uint32) {
	sw.frames.SetMaxRecordSize(size)
}

// Write encodes record and writes it as one frame. Nothing is written
// when encoding fails.
func (sw *Writer) Write(record map[string]any) error {
	encode := sw.model.Encode
	if sw.versioned {
		encode = sw.model.EncodeVersioned
	}
	data, err := encode(record)
	if err != nil {
		return err
	}
	return sw.frames.WriteFrame(data)
}

// Reader reads frames and decodes each as a record of one model.
type Reader struct {
	model     *model.Model
	frames    *FrameReader
	versioned bool
	count     int
}

// NewReader creates a record reader for m.
func NewReader(r io.Reader, m *model.Model, versioned bool) *Reader {
	return &Reader{model: m, frames: NewFrameReader(r), versioned: versioned}
}

// SetMaxRecordSize updates the maximum encoded record size.
func (sr *Reader) SetMaxRecordSize(size uint32) {
	sr.frames.SetMaxRecordSize(size)
}

// Next returns the next record. Returns io.EOF at the end of the stream.
func (sr *Reader) Next() (map[string]any, error) {
	data, err := sr.frames.ReadFrame()
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("record %d: %w", sr.count, err)
	}

	decode := sr.model.Decode
	if sr.versioned {
		decode = sr.model.DecodeVersioned
	}
	record, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", sr.count, err)
	}
	sr.count++
	return record, nil
}

// Count returns the number of records decoded so far.
func (sr *Reader) Count() int {
	return sr.count
}

// ReadAll decodes every remaining record.
func (sr *Reader) ReadAll() ([]map[string]any, error) {
	var records []map[string]any
	for {
		record, err := sr.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}
