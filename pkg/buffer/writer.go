package buffer

import (
	"encoding/binary"
	"math"
)

// Writer appends fixed-width big-endian values to a byte slice.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the bytes written so far. The slice aliases the Writer's
// storage until the next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset discards all written bytes but keeps the allocated capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// WriteString appends the UTF-8 bytes of s without a length prefix.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends v as 2 big-endian bytes.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends v as 4 big-endian bytes.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteUint64 appends v as 8 big-endian bytes.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// WriteInt8 appends v as a single two's-complement byte.
func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v))
}

// WriteInt16 appends v as 2 big-endian bytes.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteInt32 appends v as 4 big-endian bytes.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteInt64 appends v as 8 big-endian bytes.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteFloat32 appends the IEEE-754 bits of v as 4 big-endian bytes.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends the IEEE-754 bits of v as 8 big-endian bytes.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteBool appends 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

// Truncate discards all but the first n written bytes.
// It panics if n is negative or greater than Len.
func (w *Writer) Truncate(n int) {
	w.buf = w.buf[:n]
}
