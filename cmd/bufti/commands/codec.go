package commands

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bufti-format/bufti-go/pkg/catalog"
	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/model"
)

// CodecOptions holds the flags shared by encode, decode and inspect.
type CodecOptions struct {
	// Schema is the catalog file defining the models.
	Schema string

	// Model is the name of the model to use.
	Model string

	// Versioned selects the framing with a version prefix.
	Versioned bool

	// Raw selects raw bytes instead of hex text for the binary side.
	Raw bool

	// Output is the output file (default: stdout).
	Output string

	// Trace appends CBOR codec events to this file.
	Trace string

	// Logger receives codec events through a SlogAdapter when set.
	Logger *slog.Logger
}

// session is a loaded registry with tracing attached.
type session struct {
	registry *model.Registry
	model    *model.Model
	closers  []io.Closer
}

func openSession(opts CodecOptions) (*session, error) {
	if opts.Schema == "" {
		return nil, fmt.Errorf("schema file (-schema) required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("model name (-model) required")
	}

	reg, err := catalog.Build(opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	m, err := reg.Lookup(opts.Model)
	if err != nil {
		return nil, err
	}

	s := &session{registry: reg, model: m}

	var loggers []log.Logger
	if opts.Trace != "" {
		fl, err := log.NewFileLogger(opts.Trace)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		loggers = append(loggers, fl)
		s.closers = append(s.closers, fl)
	}
	if opts.Logger != nil {
		loggers = append(loggers, log.NewSlogAdapter(opts.Logger))
	}
	if len(loggers) > 0 {
		reg.SetLogger(log.NewMultiLogger(loggers...))
	}
	return s, nil
}

func (s *session) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// withOutput calls fn with the output file, or with stdout when path is empty.
func withOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readBinary reads a payload as raw bytes or as hex text. Whitespace in hex
// input is ignored.
func readBinary(in io.Reader, raw bool) ([]byte, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if raw {
		return data, nil
	}
	return ParseHex(string(data))
}

// ParseHex decodes hex text, ignoring whitespace and an optional 0x prefix.
func ParseHex(s string) ([]byte, error) {
	clean := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, []byte(s))
	clean = bytes.TrimPrefix(clean, []byte("0x"))
	data := make([]byte, hex.DecodedLen(len(clean)))
	if _, err := hex.Decode(data, clean); err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// RunEncode reads a JSON object and writes its encoding.
func RunEncode(opts CodecOptions, in io.Reader, stdout io.Writer) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	input, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	record, err := RecordFromJSON(s.model, input)
	if err != nil {
		return err
	}

	encode := s.model.Encode
	if opts.Versioned {
		encode = s.model.EncodeVersioned
	}
	data, err := encode(record)
	if err != nil {
		return err
	}

	return withOutput(opts.Output, stdout, func(w io.Writer) error {
		if opts.Raw {
			_, err := w.Write(data)
			return err
		}
		_, err := fmt.Fprintln(w, hex.EncodeToString(data))
		return err
	})
}

// RunDecode reads an encoded payload and writes it as JSON.
func RunDecode(opts CodecOptions, in io.Reader, stdout io.Writer) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := readBinary(in, opts.Raw)
	if err != nil {
		return err
	}

	decode := s.model.Decode
	if opts.Versioned {
		decode = s.model.DecodeVersioned
	}
	record, err := decode(data)
	if err != nil {
		return err
	}

	out, err := MarshalRecord(record)
	if err != nil {
		return fmt.Errorf("failed to render JSON: %w", err)
	}
	return withOutput(opts.Output, stdout, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n", out)
		return err
	})
}
