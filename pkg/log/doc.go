// Package log provides structured codec event tracing for bufti.
//
// Every top-level Encode or Decode call on a model can emit one Event that
// records the model, the operation, the payload size, the number of
// top-level fields and the error class when the call failed. This is
// separate from operational logging (slog): the event trace is a
// machine-readable record of codec activity.
//
// # Basic Usage
//
//	reg := model.NewRegistry()
//
//	// For development: log to console via slog
//	reg.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For analysis: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/app/codec.blog")
//	reg.SetLogger(fl)
//
//	// Both: use MultiLogger
//	reg.SetLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	))
//
// # File Format
//
// Log files are a concatenation of CBOR-encoded events with integer keys,
// conventionally with a .blog extension. StreamLogger writes the same format
// to any io.Writer and NewStreamReader reads it back. The "bufti log"
// command views trace files.
package log
