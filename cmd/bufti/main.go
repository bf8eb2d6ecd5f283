// Command bufti encodes, decodes and inspects bufti records.
//
// Models are defined in a YAML or TOML catalog file passed with -schema.
//
// Usage:
//
//	bufti <command> [flags] [input]
//
// Commands:
//
//	encode         Encode a JSON object to hex (or raw bytes)
//	decode         Decode hex (or raw bytes) to JSON
//	encode-stream  Encode JSON objects to length-prefixed frames
//	decode-stream  Decode length-prefixed frames to JSON lines
//	inspect        Show the entries of an encoded record
//	shell          Start an interactive shell
//	log            View and analyze codec trace files
//	version        Print the format version
//
// Examples:
//
//	# Encode a record
//	echo '{"a":"hi","b":[1,2]}' | bufti encode -schema models.yaml -model Mine
//
//	# Decode it again, tracing the call
//	bufti decode -schema models.yaml -model Mine -trace codec.blog payload.hex
//
//	# Show entries with offsets
//	bufti inspect -schema models.yaml -model Mine payload.hex
//
//	# Show failed calls from a trace
//	bufti log view -errors codec.blog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bufti-format/bufti-go/cmd/bufti/commands"
	"github.com/bufti-format/bufti-go/cmd/bufti/interactive"
	"github.com/bufti-format/bufti-go/pkg/catalog"
	"github.com/bufti-format/bufti-go/pkg/version"
)

const usage = `bufti - Schema-driven binary serialization tool

Usage:
  bufti <command> [flags] [input]

Commands:
  encode         Encode a JSON object to hex (or raw bytes)
  decode         Decode hex (or raw bytes) to JSON
  encode-stream  Encode JSON objects to length-prefixed frames
  decode-stream  Decode length-prefixed frames to JSON lines
  inspect        Show the entries of an encoded record
  shell          Start an interactive shell
  log            View and analyze codec trace files
  version        Print the format version

Use "bufti <command> -help" for more information about a command.
`

const logUsage = `bufti log - View and analyze codec trace files

Usage:
  bufti log <command> [flags] <file.blog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "encode":
		runCodec("encode", "Encode a JSON object to hex (or raw bytes)", args, commands.RunEncode)
	case "decode":
		runCodec("decode", "Decode hex (or raw bytes) to JSON", args, commands.RunDecode)
	case "encode-stream":
		runCodec("encode-stream", "Encode JSON objects to length-prefixed frames", args, commands.RunEncodeStream)
	case "decode-stream":
		runCodec("decode-stream", "Decode length-prefixed frames to JSON lines", args, commands.RunDecodeStream)
	case "inspect":
		runInspect(args)
	case "shell":
		runShell(args)
	case "log":
		runLog(args)
	case "version":
		v := version.Supported()
		fmt.Printf("bufti format %s (major %d, minor %d)\n", v, v.Major, v.Minor)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// codecFlags registers the flags shared by encode, decode and inspect.
func codecFlags(fs *flag.FlagSet, opts *commands.CodecOptions, verbose *bool) {
	fs.StringVar(&opts.Schema, "schema", "", "Model catalog file (.yaml, .yml, .toml)")
	fs.StringVar(&opts.Model, "model", "", "Model name")
	fs.BoolVar(&opts.Versioned, "versioned", false, "Use the version-prefixed framing")
	fs.BoolVar(&opts.Raw, "raw", false, "Binary side is raw bytes instead of hex text")
	fs.StringVar(&opts.Trace, "trace", "", "Append codec events to this trace file")
	fs.BoolVar(verbose, "v", false, "Log codec events to stderr")
}

func applyVerbose(opts *commands.CodecOptions, verbose bool) {
	if verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// openInput returns the named file, or stdin when no file is given.
func openInput(fs *flag.FlagSet) io.ReadCloser {
	if fs.NArg() < 1 || fs.Arg(0) == "-" {
		return io.NopCloser(os.Stdin)
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	return f
}

func runCodec(name, desc string, args []string, run func(commands.CodecOptions, io.Reader, io.Writer) error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti %s - %s

Usage:
  bufti %s -schema FILE -model NAME [flags] [input]

Reads stdin when no input file is given.

Flags:
`, name, desc, name)
		fs.PrintDefaults()
	}

	var opts commands.CodecOptions
	var verbose bool
	codecFlags(fs, &opts, &verbose)
	fs.StringVar(&opts.Output, "o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	applyVerbose(&opts, verbose)

	in := openInput(fs)
	defer in.Close()

	if err := run(opts, in, os.Stdout); err != nil {
		fatal(err)
	}
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti inspect - Show the entries of an encoded record

Usage:
  bufti inspect -schema FILE -model NAME [flags] [input]

Flags:
`)
		fs.PrintDefaults()
	}

	var opts commands.InspectOptions
	var verbose bool
	codecFlags(fs, &opts.CodecOptions, &verbose)
	fs.StringVar(&opts.Path, "path", "", "Print only the value at this path (e.g. d/aa)")
	fs.BoolVar(&opts.Describe, "describe", false, "Print the model field tree instead")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	applyVerbose(&opts.CodecOptions, verbose)

	var in io.ReadCloser = io.NopCloser(os.Stdin)
	if !opts.Describe {
		in = openInput(fs)
	}
	defer in.Close()

	if err := commands.RunInspect(opts, in, os.Stdout); err != nil {
		fatal(err)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti shell - Start an interactive shell

Usage:
  bufti shell -schema FILE [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	schema := fs.String("schema", "", "Model catalog file (.yaml, .yml, .toml)")
	use := fs.String("model", "", "Model to select at start")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *schema == "" {
		fmt.Fprintln(os.Stderr, "Error: schema file (-schema) required")
		fs.Usage()
		os.Exit(1)
	}

	reg, err := catalog.Build(*schema)
	if err != nil {
		fatal(err)
	}

	sh, err := interactive.New(reg)
	if err != nil {
		fatal(err)
	}
	if *use != "" {
		sh.Execute("use " + *use)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	sh.Run(ctx)
}

func runLog(args []string) {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, logUsage)
		os.Exit(1)
	}

	switch args[0] {
	case "view":
		runLogView(args[1:])
	case "export":
		runLogExport(args[1:])
	case "filter":
		runLogFilter(args[1:])
	case "stats":
		runLogStats(args[1:])
	case "-h", "-help", "--help", "help":
		fmt.Print(logUsage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown log command: %s\n", args[0])
		fmt.Fprint(os.Stderr, logUsage)
		os.Exit(1)
	}
}

func requireLogPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runLogView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti log view - View trace file in human-readable format

Usage:
  bufti log view [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}

	op := fs.String("op", "", "Filter by operation (encode, decode)")
	modelName := fs.String("model", "", "Filter by model name")
	errorsOnly := fs.Bool("errors", false, "Show only failed calls")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogPath(fs)

	filter := commands.ViewFilter{Model: *modelName, ErrorsOnly: *errorsOnly}
	if *op != "" {
		o, err := commands.ParseOperationFlag(*op)
		if err != nil {
			fatal(err)
		}
		filter.Operation = &o
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runLogExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti log export - Export trace file to JSONL or CSV format

Usage:
  bufti log export [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogPath(fs)

	if err := commands.RunExport(path, *format, *output, os.Stdout); err != nil {
		fatal(err)
	}
}

func runLogFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti log filter - Filter trace file and write to new file

Usage:
  bufti log filter [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	modelName := fs.String("model", "", "Filter by model name")
	op := fs.String("op", "", "Filter by operation (encode, decode)")
	errorsOnly := fs.Bool("errors", false, "Keep only failed calls")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogPath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:     *output,
		Model:      *modelName,
		Operation:  *op,
		ErrorsOnly: *errorsOnly,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
	}

	if err := commands.RunFilter(path, opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runLogStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bufti log stats - Show statistics about the trace file

Usage:
  bufti log stats <file.blog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
