package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/bufti-format/bufti-go/pkg/log"
)

// FilterOptions selects the events kept by RunFilter.
type FilterOptions struct {
	Output     string
	Model      string
	Operation  string
	ErrorsOnly bool
	TimeStart  string // RFC 3339
	TimeEnd    string // RFC 3339, exclusive
}

func (o FilterOptions) toFilter() (log.Filter, error) {
	filter := log.Filter{Model: o.Model, ErrorsOnly: o.ErrorsOnly}

	bounds := []struct {
		flag  string
		value string
		dst   **time.Time
	}{
		{"time-start", o.TimeStart, &filter.TimeStart},
		{"time-end", o.TimeEnd, &filter.TimeEnd},
	}
	for _, b := range bounds {
		if b.value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, b.value)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid %s: %w", b.flag, err)
		}
		*b.dst = &t
	}

	if o.Operation != "" {
		op, err := parseOperation(o.Operation)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Operation = &op
	}
	return filter, nil
}

// RunFilter copies the events of a trace that match opts into a new trace
// file.
func RunFilter(path string, opts FilterOptions, stdout io.Writer) error {
	filter, err := opts.toFilter()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	kept := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		out.Log(event)
		kept++
	}
	if n := out.Dropped(); n > 0 {
		return fmt.Errorf("failed to write %d of %d events to %s", n, kept, opts.Output)
	}

	fmt.Fprintf(stdout, "Filtered %d events to %s (%d skipped)\n", kept, opts.Output, reader.Skipped())
	return nil
}
