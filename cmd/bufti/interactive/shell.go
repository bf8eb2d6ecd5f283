// Package interactive provides the interactive command-line interface
// for bufti.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/bufti-format/bufti-go/cmd/bufti/commands"
	"github.com/bufti-format/bufti-go/pkg/inspect"
	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/chzyer/readline"
)

// Shell handles interactive mode for bufti.
type Shell struct {
	registry  *model.Registry
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer

	// Session state
	current   *model.Model
	versioned bool
	last      []byte
}

// New creates a new interactive shell over the models of reg.
func New(reg *model.Registry) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bufti> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(reg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(reg, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(reg *model.Registry, out io.Writer) *Shell {
	return &Shell{
		registry:  reg,
		inspector: inspect.NewInspector(reg),
		formatter: inspect.NewFormatter(),
		out:       out,
	}
}

func completer(reg *model.Registry) *readline.PrefixCompleter {
	models := func(string) []string { return reg.Names() }
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("models"),
		readline.PcItem("use", readline.PcItemDynamic(models)),
		readline.PcItem("describe", readline.PcItemDynamic(models)),
		readline.PcItem("encode"),
		readline.PcItem("decode"),
		readline.PcItem("dump"),
		readline.PcItem("get"),
		readline.PcItem("versioned", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the interactive command loop. It returns when the user quits,
// input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if quit := s.Execute(line); quit {
			return
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(input[len(parts[0]):])

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "models", "m":
		s.cmdModels()

	case "use", "u":
		s.cmdUse(args)

	case "describe", "desc":
		s.cmdDescribe(args)

	case "encode", "e":
		s.cmdEncode(rest)

	case "decode", "d":
		s.cmdDecode(rest)

	case "dump":
		s.cmdDump(rest)

	case "get", "g":
		s.cmdGet(args)

	case "versioned", "v":
		s.cmdVersioned(args)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
bufti Commands:
  Models:
    models             - List registered models
    use <model>        - Select the model for encode/decode
    describe [model]   - Show the field tree of a model

  Codec:
    encode <json>      - Encode a JSON object, print hex
    decode [hex]       - Decode hex (default: last encoding), print JSON
    dump [hex]         - Show entries with offsets and sizes
    get <path> [hex]   - Read one value, e.g. d/aa or b/0
    versioned on|off   - Toggle the version prefix

  General:
    help               - Show this help
    quit               - Exit shell`)
}

func (s *Shell) cmdModels() {
	names := s.registry.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "No models registered")
		return
	}
	for _, name := range names {
		m, err := s.registry.Lookup(name)
		if err != nil {
			continue
		}
		marker := " "
		if s.current != nil && s.current.Name() == name {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s (%d fields)\n", marker, name, len(m.Fields()))
	}
}

func (s *Shell) cmdUse(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: use <model>")
		return
	}
	m, err := s.registry.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.current = m
	s.last = nil
	if s.rl != nil {
		s.rl.SetPrompt(fmt.Sprintf("bufti:%s> ", m.Name()))
	}
	fmt.Fprintf(s.out, "Using model %s\n", m.Name())
}

func (s *Shell) cmdDescribe(args []string) {
	var name string
	switch {
	case len(args) > 0:
		name = args[0]
	case s.current != nil:
		name = s.current.Name()
	default:
		fmt.Fprintln(s.out, "Usage: describe <model> (or select one with 'use')")
		return
	}
	info, err := s.inspector.InspectModel(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, s.inspector.FormatModel(info, s.formatter))
}

func (s *Shell) requireModel() bool {
	if s.current == nil {
		fmt.Fprintln(s.out, "No model selected (use 'use <model>')")
		return false
	}
	return true
}

func (s *Shell) cmdEncode(input string) {
	if !s.requireModel() {
		return
	}
	if input == "" {
		fmt.Fprintln(s.out, "Usage: encode <json>")
		return
	}
	record, err := commands.RecordFromJSON(s.current, []byte(input))
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	encode := s.current.Encode
	if s.versioned {
		encode = s.current.EncodeVersioned
	}
	data, err := encode(record)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.last = data
	fmt.Fprintf(s.out, "%s (%d bytes)\n", hex.EncodeToString(data), len(data))
}

// payload returns the hex argument, or the last encoding when input is empty.
func (s *Shell) payload(input string) ([]byte, bool) {
	if input == "" {
		if s.last == nil {
			fmt.Fprintln(s.out, "Nothing encoded yet; pass hex input")
			return nil, false
		}
		return s.last, true
	}
	data, err := commands.ParseHex(input)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return nil, false
	}
	return data, true
}

func (s *Shell) decode(data []byte) (map[string]any, error) {
	if s.versioned {
		return s.current.DecodeVersioned(data)
	}
	return s.current.Decode(data)
}

func (s *Shell) cmdDecode(input string) {
	if !s.requireModel() {
		return
	}
	data, ok := s.payload(input)
	if !ok {
		return
	}
	record, err := s.decode(data)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	out, err := commands.MarshalRecord(record)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s\n", out)
}

func (s *Shell) cmdDump(input string) {
	if !s.requireModel() {
		return
	}
	data, ok := s.payload(input)
	if !ok {
		return
	}
	dump := inspect.Dump
	if s.versioned {
		dump = inspect.DumpVersioned
	}
	entries, err := dump(s.current, data)
	if werr := s.formatter.FormatEntries(s.out, entries); werr != nil {
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) cmdGet(args []string) {
	if !s.requireModel() {
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: get <path> [hex]")
		return
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	data, ok := s.payload(strings.Join(args[1:], ""))
	if !ok {
		return
	}
	record, err := s.decode(data)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	v, t, err := inspect.Resolve(s.current, record, path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s (%s)\n", path, s.formatter.FormatValue(v), t)
}

func (s *Shell) cmdVersioned(args []string) {
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on":
			s.versioned = true
		case "off":
			s.versioned = false
		default:
			fmt.Fprintln(s.out, "Usage: versioned on|off")
			return
		}
	}
	state := "off"
	if s.versioned {
		state = "on"
	}
	fmt.Fprintf(s.out, "Versioned framing: %s\n", state)
}
