package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering log events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// Operation filters by codec direction.
	Operation *Operation

	// Model filters by exact model name.
	Model string

	// ErrorsOnly keeps only failed calls.
	ErrorsOnly bool

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.Operation != nil && event.Operation != *f.Operation {
		return false
	}
	if f.Model != "" && event.Model != f.Model {
		return false
	}
	if f.ErrorsOnly && event.Error == nil {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader iterates over the events of a trace, skipping those the filter
// rejects. Traces are decoded one event at a time, so large files are never
// loaded whole.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
	skipped int
}

// NewReader opens a trace file and reads every event in it.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file and reads the events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader reads the events matching filter from src.
func NewStreamReader(src io.Reader, filter Filter) *Reader {
	return &Reader{decoder: newEventDecoder(src), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the trace.
// A trace cut inside an event yields io.ErrUnexpectedEOF.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
		r.skipped++
	}
}

// Skipped returns the number of events the filter has rejected so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the trace file, if the reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
