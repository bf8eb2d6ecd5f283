package log

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestFileLoggerAppendsAndReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	for i, op := range []Operation{OpEncode, OpDecode} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), Operation: op, Model: "M", Size: i})
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var ops []Operation
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		ops = append(ops, event.Operation)
	}

	if len(ops) != 2 || ops[0] != OpEncode || ops[1] != OpDecode {
		t.Errorf("events: got %v, want [ENCODE DECODE]", ops)
	}
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "test.blog"))
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	logger.Log(Event{Model: "ignored"})
	if got := logger.Dropped(); got != 1 {
		t.Errorf("Dropped after close: got %d, want 1", got)
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(Event{Timestamp: time.Now(), Model: "M", Size: n*100 + j})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		count++
	}
	if count != 200 {
		t.Errorf("event count: got %d, want 200", count)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamLoggerCountsWriteFailures(t *testing.T) {
	logger := NewStreamLogger(failingWriter{})
	logger.Log(Event{Model: "M"})
	logger.Log(Event{Model: "M"})

	if got := logger.Dropped(); got != 2 {
		t.Errorf("Dropped: got %d, want 2", got)
	}
}

func TestStreamLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf)
	logger.Log(Event{Operation: OpEncode, Model: "A", Size: 3})
	logger.Log(Event{Operation: OpDecode, Model: "B", Size: 9})

	reader := NewStreamReader(&buf, Filter{Model: "B"})
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if event.Model != "B" || event.Size != 9 {
		t.Errorf("event: got %+v", event)
	}
	if reader.Skipped() != 1 {
		t.Errorf("Skipped: got %d, want 1", reader.Skipped())
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestStreamReaderTruncatedTrace(t *testing.T) {
	var buf bytes.Buffer
	NewStreamLogger(&buf).Log(Event{Operation: OpEncode, Model: "Reading"})

	data := buf.Bytes()
	reader := NewStreamReader(bytes.NewReader(data[:len(data)-3]), Filter{})
	_, err := reader.Next()
	if err == nil || err == io.EOF {
		t.Errorf("expected decode error for a cut event, got %v", err)
	}
}
