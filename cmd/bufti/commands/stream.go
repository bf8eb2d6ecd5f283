package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bufti-format/bufti-go/pkg/stream"
)

// RunEncodeStream reads a sequence of JSON objects and writes one
// length-prefixed frame per record. Frames are always raw bytes.
func RunEncodeStream(opts CodecOptions, in io.Reader, stdout io.Writer) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	return withOutput(opts.Output, stdout, func(w io.Writer) error {
		sw := stream.NewWriter(w, s.model, opts.Versioned)
		dec := json.NewDecoder(in)
		for n := 0; ; n++ {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("record %d: invalid JSON: %w", n, err)
			}
			record, err := RecordFromJSON(s.model, raw)
			if err != nil {
				return fmt.Errorf("record %d: %w", n, err)
			}
			if err := sw.Write(record); err != nil {
				return fmt.Errorf("record %d: %w", n, err)
			}
		}
	})
}

// RunDecodeStream reads length-prefixed frames and writes one compact JSON
// object per line.
func RunDecodeStream(opts CodecOptions, in io.Reader, stdout io.Writer) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	return withOutput(opts.Output, stdout, func(w io.Writer) error {
		sr := stream.NewReader(in, s.model, opts.Versioned)
		enc := json.NewEncoder(w)
		for {
			record, err := sr.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := enc.Encode(ToJSON(record)); err != nil {
				return fmt.Errorf("failed to render JSON: %w", err)
			}
		}
	})
}
