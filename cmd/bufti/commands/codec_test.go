package commands

import (
	"bytes"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
models:
  - name: Other
    fields:
      - { index: 0, label: aa, type: float64 }
  - name: Mine
    fields:
      - { index: 0, label: a, type: string }
      - { index: 1, label: b, type: "list:int32" }
      - { index: 2, label: c, type: "map:string:bool" }
      - { index: 3, label: d, type: "model:Other" }
      - { index: 4, label: e, type: "map:int16:float32" }
`

// mineHex is {"a":"hi","b":[1,2],"c":{"k":true},"d":{"aa":1.5}}.
const mineHex = "00000000026869" +
	"01000000020000000100000002" +
	"0200000001000000016b01" +
	"030009003ff8000000000000"

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0o644))
	return path
}

func codecOpts(t *testing.T) CodecOptions {
	return CodecOptions{Schema: writeSchema(t), Model: "Mine"}
}

func TestRunEncode(t *testing.T) {
	var out bytes.Buffer
	input := `{"a":"hi","b":[1,2],"c":{"k":true},"d":{"aa":1.5}}`

	require.NoError(t, RunEncode(codecOpts(t), strings.NewReader(input), &out))
	assert.Equal(t, mineHex+"\n", out.String())
}

func TestRunEncodeRawToFile(t *testing.T) {
	opts := codecOpts(t)
	opts.Raw = true
	opts.Versioned = true
	opts.Output = filepath.Join(t.TempDir(), "out.bin")

	require.NoError(t, RunEncode(opts, strings.NewReader(`{"d":{"aa":1.5}}`), nil))

	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x03, 0x00, 0x09, 0x00, 0x3F, 0xF8, 0, 0, 0, 0, 0, 0}, data)
}

func TestRunEncodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown label", `{"zzz":1}`},
		{"out of range", `{"b":[3000000000]}`},
		{"fractional int", `{"b":[1.5]}`},
		{"string for list", `{"b":"x"}`},
		{"bad map key", `{"e":{"x":1.0}}`},
		{"null value", `{"a":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunEncode(codecOpts(t), strings.NewReader(tt.input), &bytes.Buffer{})
			assert.ErrorIs(t, err, model.ErrDictFormat)
		})
	}

	err := RunEncode(codecOpts(t), strings.NewReader(`[1,2]`), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunDecode(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunDecode(codecOpts(t), strings.NewReader(mineHex+"\n"), &out))

	assert.JSONEq(t, `{"a":"hi","b":[1,2],"c":{"k":true},"d":{"aa":1.5}}`, out.String())
}

func TestRunDecodeErrors(t *testing.T) {
	err := RunDecode(codecOpts(t), strings.NewReader(mineHex[:20]), &bytes.Buffer{})
	assert.ErrorIs(t, err, model.ErrUnexpectedEndOfBuffer)

	err = RunDecode(codecOpts(t), strings.NewReader("zz"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid hex")

	opts := codecOpts(t)
	opts.Versioned = true
	err = RunDecode(opts, strings.NewReader("07"+mineHex), &bytes.Buffer{})
	assert.ErrorIs(t, err, model.ErrVersion)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	opts := codecOpts(t)
	input := `{"a":"日本","b":[],"c":{},"e":{"-3":0.5,"7":2}}`

	var encoded bytes.Buffer
	require.NoError(t, RunEncode(opts, strings.NewReader(input), &encoded))

	var decoded bytes.Buffer
	require.NoError(t, RunDecode(opts, &encoded, &decoded))
	assert.JSONEq(t, input, decoded.String())
}

func TestSessionOptions(t *testing.T) {
	_, err := openSession(CodecOptions{Model: "Mine"})
	assert.ErrorContains(t, err, "-schema")

	_, err = openSession(CodecOptions{Schema: writeSchema(t)})
	assert.ErrorContains(t, err, "-model")

	_, err = openSession(CodecOptions{Schema: writeSchema(t), Model: "Nope"})
	assert.ErrorIs(t, err, model.ErrModel)

	_, err = openSession(CodecOptions{Schema: "models.ini", Model: "Mine"})
	assert.Error(t, err)
}

func TestTracing(t *testing.T) {
	opts := codecOpts(t)
	opts.Trace = filepath.Join(t.TempDir(), "trace.blog")
	var slogOut bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&slogOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.NoError(t, RunDecode(opts, strings.NewReader(mineHex), &bytes.Buffer{}))
	require.Error(t, RunDecode(opts, strings.NewReader("2a"), &bytes.Buffer{}))

	reader, err := log.NewReader(opts.Trace)
	require.NoError(t, err)
	defer reader.Close()

	first, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, log.OpDecode, first.Operation)
	assert.Equal(t, "Mine", first.Model)
	assert.Equal(t, 4, first.Fields)

	second, err := reader.Next()
	require.NoError(t, err)
	require.NotNil(t, second.Error)
	assert.Equal(t, log.ErrorKindBufferFormat, second.Error.Kind)

	assert.Contains(t, slogOut.String(), "level=DEBUG msg=codec")
	assert.Contains(t, slogOut.String(), "level=WARN msg=codec")
}

func TestRunInspect(t *testing.T) {
	var out bytes.Buffer
	opts := InspectOptions{CodecOptions: codecOpts(t)}
	require.NoError(t, RunInspect(opts, strings.NewReader(mineHex), &out))

	output := out.String()
	assert.Contains(t, output, "Mine: 43 bytes, 4 entries")
	assert.Contains(t, output, "map:string:bool")
	assert.Contains(t, output, `{"k": true}`)
	assert.Contains(t, output, "@31")
}

func TestRunInspectTruncated(t *testing.T) {
	var out bytes.Buffer
	opts := InspectOptions{CodecOptions: codecOpts(t)}
	err := RunInspect(opts, strings.NewReader(mineHex[:50]), &out)

	assert.ErrorIs(t, err, model.ErrUnexpectedEndOfBuffer)
	assert.Contains(t, out.String(), "2 entries", "entries before the cut are still shown")
}

func TestRunInspectPath(t *testing.T) {
	var out bytes.Buffer
	opts := InspectOptions{CodecOptions: codecOpts(t), Path: "d/aa"}
	require.NoError(t, RunInspect(opts, strings.NewReader(mineHex), &out))
	assert.Equal(t, "1.5\n", out.String())

	out.Reset()
	opts.Versioned = true
	opts.Path = "b/1"
	require.NoError(t, RunInspect(opts, strings.NewReader("00"+mineHex), &out))
	assert.Equal(t, "2\n", out.String())
}

func TestRunInspectDescribe(t *testing.T) {
	var out bytes.Buffer
	opts := InspectOptions{CodecOptions: codecOpts(t), Describe: true}
	require.NoError(t, RunInspect(opts, nil, &out))
	assert.Contains(t, out.String(), "[3] d: model:Other\n    [0] aa: float64")
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"0aff", []byte{0x0a, 0xff}},
		{"0x0AFF", []byte{0x0a, 0xff}},
		{" 0a ff\n", []byte{0x0a, 0xff}},
		{"", []byte{}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseHex("abc")
	assert.True(t, errors.Is(err, hex.ErrLength))
}
