package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the frame length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxRecordSize is the default maximum encoded record size (1 MB).
	DefaultMaxRecordSize = 1 << 20
)

// Framing errors.
var (
	// ErrRecordTooLarge indicates a record that exceeds the maximum size.
	ErrRecordTooLarge = errors.New("record too large")

	// ErrFrameTruncated indicates a stream that ends inside a frame.
	ErrFrameTruncated = errors.New("frame truncated")
)

// FrameWriter writes length-prefixed frames to an underlying writer.
// An empty frame is valid: it carries a record with no fields.
type FrameWriter struct {
	w       io.Writer
	maxSize uint32
	mu      sync.Mutex
}

// NewFrameWriter creates a frame writer with DefaultMaxRecordSize.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w, maxSize: DefaultMaxRecordSize}
}

// SetMaxRecordSize updates the maximum frame payload size.
func (fw *FrameWriter) SetMaxRecordSize(size uint32) {
	fw.mu.Lock()
	fw.maxSize = size
	fw.mu.Unlock()
}

// WriteFrame writes one length-prefixed frame.
// Thread-safe: frames from concurrent callers never interleave.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if uint64(len(data)) > uint64(fw.maxSize) {
		return fmt.Errorf("%w: %d > %d", ErrRecordTooLarge, len(data), fw.maxSize)
	}

	frame := make([]byte, LengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[LengthPrefixSize:], data)

	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// FrameReader reads length-prefixed frames from an underlying reader.
type FrameReader struct {
	r         io.Reader
	maxSize   uint32
	lengthBuf [LengthPrefixSize]byte
}

// NewFrameReader creates a frame reader with DefaultMaxRecordSize.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, maxSize: DefaultMaxRecordSize}
}

// SetMaxRecordSize updates the maximum frame payload size.
func (fr *FrameReader) SetMaxRecordSize(size uint32) {
	fr.maxSize = size
}

// ReadFrame reads one frame and returns its payload.
// Returns io.EOF when the stream ends cleanly between frames.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(fr.lengthBuf[:])
	if length > fr.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrRecordTooLarge, length, fr.maxSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return payload, nil
}

// FrameSize returns the total frame size including the length prefix.
func FrameSize(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}
