package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// Reader errors.
var (
	// ErrEndOfBuffer indicates the cursor is exactly at the end of the
	// buffer and a non-empty read was requested.
	ErrEndOfBuffer = errors.New("end of buffer")

	// ErrUnexpectedEndOfBuffer indicates a read would run past the end of
	// the buffer.
	ErrUnexpectedEndOfBuffer = errors.New("unexpected end of buffer")

	// ErrInvalidUTF8 indicates string bytes that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 string")
)

// Reader reads fixed-width big-endian values from a byte slice.
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a Reader positioned at the start of data.
// The Reader does not copy data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Offset returns the cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// ReadBytes returns the next n bytes and advances the cursor.
//
// If the cursor is at the end of the buffer and n > 0 it returns
// ErrEndOfBuffer. If fewer than n bytes remain it returns an error wrapping
// ErrUnexpectedEndOfBuffer. The returned slice aliases the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	if r.off == len(r.buf) && n > 0 {
		return nil, ErrEndOfBuffer
	}
	if r.off+n > len(r.buf) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrUnexpectedEndOfBuffer, n, r.off, len(r.buf)-r.off)
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

// NextIndex reads a field index tag.
//
// It separates the three outcomes of reading at a field boundary: a tag was
// read (ok is true), the buffer ended cleanly (ok is false and err is nil),
// or the read failed (err is non-nil).
func (r *Reader) NextIndex() (index byte, ok bool, err error) {
	p, err := r.ReadBytes(1)
	if errors.Is(err, ErrEndOfBuffer) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return p[0], true, nil
}

// payload reads n bytes that belong to a value already in progress. Running
// out of data here is always a truncation, so a clean end is promoted to
// ErrUnexpectedEndOfBuffer.
func (r *Reader) payload(n int) ([]byte, error) {
	p, err := r.ReadBytes(n)
	if errors.Is(err, ErrEndOfBuffer) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have 0",
			ErrUnexpectedEndOfBuffer, n, r.off)
	}
	return p, err
}

// ReadPayload returns the next n bytes of a value in progress.
// Unlike ReadBytes it never returns ErrEndOfBuffer.
func (r *Reader) ReadPayload(n int) ([]byte, error) {
	return r.payload(n)
}

// ReadString reads n bytes of UTF-8 and returns them as a string. The
// cursor advances past the bytes even when they are not valid UTF-8.
func (r *Reader) ReadString(n int) (string, error) {
	p, err := r.payload(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", fmt.Errorf("%w: %d bytes at offset %d", ErrInvalidUTF8, n, r.Offset()-n)
	}
	return string(p), nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	p, err := r.payload(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadUint16 reads 2 big-endian bytes.
func (r *Reader) ReadUint16() (uint16, error) {
	p, err := r.payload(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

// ReadUint32 reads 4 big-endian bytes.
func (r *Reader) ReadUint32() (uint32, error) {
	p, err := r.payload(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

// ReadUint64 reads 8 big-endian bytes.
func (r *Reader) ReadUint64() (uint64, error) {
	p, err := r.payload(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

// ReadInt8 reads a single two's-complement byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads 2 big-endian bytes as a signed integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads 4 big-endian bytes as a signed integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads 8 big-endian bytes as a signed integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads 4 big-endian bytes as an IEEE-754 float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads 8 big-endian bytes as an IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBool reads a single byte; any non-zero value is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}
