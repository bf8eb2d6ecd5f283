package interactive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	reg := model.NewRegistry()
	reg.MustRegister("Other", model.Field(0, "aa", schema.Float64))
	reg.MustRegister("Mine",
		model.Field(0, "a", schema.String),
		model.Field(1, "b", schema.ListOf(schema.Int32)),
		model.Field(3, "d", schema.ModelOf("Other")),
	)
	reg.Freeze()

	var out bytes.Buffer
	return newShell(reg, &out), &out
}

func run(t *testing.T, s *Shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	if s.Execute(line) {
		t.Fatalf("Execute(%q) requested exit", line)
	}
	return out.String()
}

func TestShellModels(t *testing.T) {
	s, out := newTestShell(t)

	got := run(t, s, out, "models")
	if !strings.Contains(got, "  Mine (3 fields)") || !strings.Contains(got, "  Other (1 fields)") {
		t.Errorf("models output = %q", got)
	}

	run(t, s, out, "use Mine")
	if got := run(t, s, out, "models"); !strings.Contains(got, "* Mine") {
		t.Errorf("selected model not marked: %q", got)
	}

	if got := run(t, s, out, "use Nope"); !strings.Contains(got, "Error:") {
		t.Errorf("use Nope = %q, want error", got)
	}
}

func TestShellRequiresModel(t *testing.T) {
	s, out := newTestShell(t)

	for _, line := range []string{`encode {"a":"x"}`, "decode", "dump", "get a"} {
		if got := run(t, s, out, line); !strings.Contains(got, "No model selected") {
			t.Errorf("%s without model = %q", line, got)
		}
	}
}

func TestShellEncodeDecode(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, out, "use Mine")

	got := run(t, s, out, `encode {"a": "hi", "d": {"aa": 1.5}}`)
	want := "00000000026869030009003ff8000000000000 (19 bytes)\n"
	if got != want {
		t.Fatalf("encode = %q, want %q", got, want)
	}

	got = run(t, s, out, "decode")
	if !strings.Contains(got, `"a": "hi"`) || !strings.Contains(got, `"aa": 1.5`) {
		t.Errorf("decode of last encoding = %q", got)
	}

	got = run(t, s, out, "decode 00 00000001 41")
	if !strings.Contains(got, `"a": "A"`) {
		t.Errorf("decode of hex argument = %q", got)
	}

	got = run(t, s, out, "decode 2a")
	if !strings.Contains(got, "Error:") || !strings.Contains(got, "index not found (42)") {
		t.Errorf("decode of unknown index = %q", got)
	}

	got = run(t, s, out, `encode {"b": ["x"]}`)
	if !strings.Contains(got, "Error:") {
		t.Errorf("encode mismatch = %q, want error", got)
	}
}

func TestShellDumpAndGet(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, out, "use Mine")

	if got := run(t, s, out, "dump"); !strings.Contains(got, "Nothing encoded yet") {
		t.Errorf("dump before encode = %q", got)
	}

	run(t, s, out, `encode {"a": "hi", "b": [4, 5]}`)

	got := run(t, s, out, "dump")
	if !strings.Contains(got, "@7") || !strings.Contains(got, "[4, 5]") {
		t.Errorf("dump = %q", got)
	}

	got = run(t, s, out, "get b/1")
	if got != "b/1 = 5 (int32)\n" {
		t.Errorf("get b/1 = %q", got)
	}

	got = run(t, s, out, "get b/9")
	if !strings.Contains(got, "path not found") {
		t.Errorf("get b/9 = %q", got)
	}
}

func TestShellVersioned(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, out, "use Mine")

	if got := run(t, s, out, "versioned on"); got != "Versioned framing: on\n" {
		t.Errorf("versioned on = %q", got)
	}

	got := run(t, s, out, `encode {"a": ""}`)
	if !strings.HasPrefix(got, "000000000000 ") {
		t.Errorf("versioned encode = %q", got)
	}

	got = run(t, s, out, "decode 01")
	if !strings.Contains(got, "incompatible") && !strings.Contains(got, "version") {
		t.Errorf("decode with wrong version = %q", got)
	}

	run(t, s, out, "versioned off")
	if got := run(t, s, out, "versioned"); got != "Versioned framing: off\n" {
		t.Errorf("versioned = %q", got)
	}
	if got := run(t, s, out, "versioned maybe"); !strings.Contains(got, "Usage") {
		t.Errorf("versioned maybe = %q", got)
	}
}

func TestShellDescribe(t *testing.T) {
	s, out := newTestShell(t)

	if got := run(t, s, out, "describe"); !strings.Contains(got, "Usage") {
		t.Errorf("describe without model = %q", got)
	}

	got := run(t, s, out, "describe Mine")
	if !strings.Contains(got, "[3] d: model:Other") || !strings.Contains(got, "[0] aa: float64") {
		t.Errorf("describe Mine = %q", got)
	}
}

func TestShellMisc(t *testing.T) {
	s, out := newTestShell(t)

	if got := run(t, s, out, "help"); !strings.Contains(got, "bufti Commands") {
		t.Errorf("help = %q", got)
	}
	if got := run(t, s, out, "frobnicate"); !strings.Contains(got, "Unknown command: frobnicate") {
		t.Errorf("unknown command = %q", got)
	}
	if got := run(t, s, out, "   "); got != "" {
		t.Errorf("blank line = %q", got)
	}
	if !s.Execute("quit") {
		t.Error("quit did not request exit")
	}
}
