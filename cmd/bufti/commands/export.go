package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bufti-format/bufti-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string, stdout io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	return withOutput(output, stdout, func(w io.Writer) error {
		switch format {
		case "jsonl":
			return exportJSONL(reader, w)
		case "csv":
			return exportCSV(reader, w)
		default:
			return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
		}
	})
}

// jsonEvent is the JSONL shape of an event.
type jsonEvent struct {
	Timestamp  string `json:"timestamp"`
	CallID     string `json:"call_id"`
	Operation  string `json:"operation"`
	Model      string `json:"model"`
	Size       int    `json:"size"`
	Fields     int    `json:"fields"`
	DurationUS int64  `json:"duration_us,omitempty"`
	Versioned  bool   `json:"versioned,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		je := jsonEvent{
			Timestamp:  event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			CallID:     event.CallID,
			Operation:  event.Operation.String(),
			Model:      event.Model,
			Size:       event.Size,
			Fields:     event.Fields,
			DurationUS: event.Duration.Microseconds(),
			Versioned:  event.Versioned,
		}
		if event.Error != nil {
			je.ErrorKind = event.Error.Kind.String()
			je.Error = event.Error.Message
		}
		if err := encoder.Encode(je); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)

	// Write header
	header := []string{"timestamp", "call_id", "operation", "model", "size", "fields", "duration_us", "versioned", "error_kind", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		errKind, errMsg := "", ""
		if event.Error != nil {
			errKind = event.Error.Kind.String()
			errMsg = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.CallID,
			event.Operation.String(),
			event.Model,
			strconv.Itoa(event.Size),
			strconv.Itoa(event.Fields),
			strconv.FormatInt(event.Duration.Microseconds(), 10),
			strconv.FormatBool(event.Versioned),
			errKind,
			errMsg,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
