package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bufti-format/bufti-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Operation  *log.Operation
	Model      string
	ErrorsOnly bool
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [call:id] OPERATION Model
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	callID := shortenCallID(event.CallID)

	fmt.Fprintf(w, "%s [call:%s] %-6s %s\n", ts, callID, event.Operation.String(), event.Model)

	fmt.Fprintf(w, "  Size: %d bytes  Fields: %d\n", event.Size, event.Fields)
	if event.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
	}
	if event.Versioned {
		fmt.Fprintln(w, "  Versioned: yes")
	}
	if event.Error != nil {
		fmt.Fprintf(w, "  Error: %s: %s\n", event.Error.Kind.String(), event.Error.Message)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenCallID returns the first 8 characters of the call ID.
func shortenCallID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseOperationFlag parses an operation string from command-line flag (case-insensitive).
func ParseOperationFlag(s string) (log.Operation, error) {
	return parseOperation(s)
}

// parseOperation parses an operation string (case-insensitive).
func parseOperation(s string) (log.Operation, error) {
	switch strings.ToLower(s) {
	case "encode":
		return log.OpEncode, nil
	case "decode":
		return log.OpDecode, nil
	default:
		return 0, fmt.Errorf("invalid operation: %s (must be encode or decode)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		Operation:  filter.Operation,
		Model:      filter.Model,
		ErrorsOnly: filter.ErrorsOnly,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
