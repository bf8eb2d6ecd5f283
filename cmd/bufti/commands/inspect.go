package commands

import (
	"fmt"
	"io"

	"github.com/bufti-format/bufti-go/pkg/inspect"
)

// InspectOptions adds the inspect-only flags to CodecOptions.
type InspectOptions struct {
	CodecOptions

	// Path selects one value of the decoded record instead of the table.
	Path string

	// Describe prints the model tree and reads no input.
	Describe bool
}

// RunInspect prints the entries of an encoded payload, one per line with
// offset, size, index, label, type and value.
func RunInspect(opts InspectOptions, in io.Reader, stdout io.Writer) error {
	s, err := openSession(opts.CodecOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	inspector := inspect.NewInspector(s.registry)
	formatter := inspect.NewFormatter()

	if opts.Describe {
		info, err := inspector.InspectModel(opts.Model)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(stdout, inspector.FormatModel(info, formatter))
		return err
	}

	data, err := readBinary(in, opts.Raw)
	if err != nil {
		return err
	}

	if opts.Path != "" {
		path, err := inspect.ParsePath(opts.Path)
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
		v, _, err := inspect.Resolve(s.model, record, path)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, formatter.FormatValue(v))
		return err
	}

	dump := inspect.Dump
	if opts.Versioned {
		dump = inspect.DumpVersioned
	}
	entries, dumpErr := dump(s.model, data)

	fmt.Fprintf(stdout, "%s: %d bytes, %d entries\n", opts.Model, len(data), len(entries))
	if err := formatter.FormatEntries(stdout, entries); err != nil {
		return err
	}
	return dumpErr
}
