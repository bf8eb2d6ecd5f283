package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// StreamLogger appends CBOR-encoded codec events to an io.Writer. Each
// event goes out in a single Write call, so concurrent codec calls never
// produce interleaved records.
type StreamLogger struct {
	mu      sync.Mutex
	w       io.Writer
	dropped atomic.Int64
}

// NewStreamLogger creates a logger writing events to w.
func NewStreamLogger(w io.Writer) *StreamLogger {
	return &StreamLogger{w: w}
}

// Log encodes and writes event. Failures are counted, never returned:
// tracing must not fail the codec call.
func (l *StreamLogger) Log(event Event) {
	data, err := EncodeEvent(event)
	if err != nil {
		l.dropped.Add(1)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		l.dropped.Add(1)
		return
	}
	if _, err := l.w.Write(data); err != nil {
		l.dropped.Add(1)
	}
}

// Dropped returns the number of events that could not be written.
func (l *StreamLogger) Dropped() int64 {
	return l.dropped.Load()
}

// detach stops further writes and returns the previous writer.
func (l *StreamLogger) detach() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.w
	l.w = nil
	return w
}

// FileLogger is a StreamLogger that owns a trace file opened for append.
type FileLogger struct {
	*StreamLogger
}

// NewFileLogger opens path for appending, creating it with mode 0644 if
// needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{StreamLogger: NewStreamLogger(f)}, nil
}

// Close closes the trace file. Later Log calls count as dropped. Close may
// be called more than once.
func (l *FileLogger) Close() error {
	if f, ok := l.detach().(*os.File); ok {
		return f.Close()
	}
	return nil
}

var (
	_ Logger = (*StreamLogger)(nil)
	_ Logger = (*FileLogger)(nil)
)
