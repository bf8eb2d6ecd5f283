package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bufti-format/bufti-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByOperation map[log.Operation]int
	ErrorsByKind      map[log.ErrorKind]int
	Models            map[string]*ModelStats
	Versioned         int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ModelStats holds statistics for a single model.
type ModelStats struct {
	Encodes       int
	Decodes       int
	Errors        int
	Bytes         int
	TotalDuration time.Duration
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByOperation: make(map[log.Operation]int),
		ErrorsByKind:      make(map[log.ErrorKind]int),
		Models:            make(map[string]*ModelStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByOperation[event.Operation]++
		if event.Versioned {
			stats.Versioned++
		}

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track model stats
		ms, ok := stats.Models[event.Model]
		if !ok {
			ms = &ModelStats{}
			stats.Models[event.Model] = ms
		}
		switch event.Operation {
		case log.OpEncode:
			ms.Encodes++
		case log.OpDecode:
			ms.Decodes++
		}
		ms.Bytes += event.Size
		ms.TotalDuration += event.Duration

		// Count errors
		if event.Error != nil {
			stats.Errors++
			stats.ErrorsByKind[event.Error.Kind]++
			ms.Errors++
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== bufti Codec Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	if stats.Versioned > 0 {
		fmt.Fprintf(w, "Versioned:    %d\n", stats.Versioned)
	}
	fmt.Fprintln(w)

	// Events by operation
	fmt.Fprintln(w, "Events by Operation:")
	for _, op := range []log.Operation{log.OpEncode, log.OpDecode} {
		if count := stats.EventsByOperation[op]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Models
	fmt.Fprintf(w, "Models: %d\n", len(stats.Models))
	if len(stats.Models) > 0 {
		names := make([]string, 0, len(stats.Models))
		for name := range stats.Models {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "")
		for _, name := range names {
			ms := stats.Models[name]
			calls := ms.Encodes + ms.Decodes
			fmt.Fprintf(w, "  %s: %d encodes, %d decodes, %d bytes\n", name, ms.Encodes, ms.Decodes, ms.Bytes)
			if calls > 0 && ms.TotalDuration > 0 {
				fmt.Fprintf(w, "           Avg duration: %s\n", formatDuration(ms.TotalDuration/time.Duration(calls)))
			}
			if ms.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", ms.Errors)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
		for _, kind := range []log.ErrorKind{
			log.ErrorKindModel, log.ErrorKindDictFormat, log.ErrorKindBufferFormat,
			log.ErrorKindTruncated, log.ErrorKindVersion, log.ErrorKindOther,
		} {
			if count := stats.ErrorsByKind[kind]; count > 0 {
				fmt.Fprintf(w, "  %-14s %d\n", kind.String()+":", count)
			}
		}
	}
}
