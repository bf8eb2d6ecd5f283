package commands

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/bufti-format/bufti-go/pkg/model"
	"github.com/bufti-format/bufti-go/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRegistry(t *testing.T) *model.Model {
	t.Helper()
	reg := model.NewRegistry()
	reg.MustRegister("Point",
		model.Field(0, "x", schema.Float32),
		model.Field(1, "y", schema.Float32),
	)
	return reg.MustRegister("Shape",
		model.Field(0, "name", schema.String),
		model.Field(1, "points", schema.ListOf(schema.ModelOf("Point"))),
		model.Field(2, "flags", schema.MapOf(schema.Bool, schema.Int8)),
		model.Field(3, "weight", schema.Float64),
	)
}

func TestRecordFromJSONRoundTrip(t *testing.T) {
	shape := jsonRegistry(t)

	input := `{"name":"tri","points":[{"x":0,"y":1.5},{"x":-2}],"flags":{"true":1,"false":-1},"weight":"NaN"}`
	record, err := RecordFromJSON(shape, []byte(input))
	require.NoError(t, err)

	data, err := shape.Encode(record)
	require.NoError(t, err)
	decoded, err := shape.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{
		{"x": float32(0), "y": float32(1.5)},
		{"x": float32(-2)},
	}, decoded["points"])
	assert.Equal(t, map[bool]int8{true: 1, false: -1}, decoded["flags"])
	assert.True(t, math.IsNaN(decoded["weight"].(float64)))

	out, err := MarshalRecord(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestRecordFromJSONKeepsUnknownLabels(t *testing.T) {
	shape := jsonRegistry(t)

	record, err := RecordFromJSON(shape, []byte(`{"colour":"red"}`))
	require.NoError(t, err)
	assert.Equal(t, "red", record["colour"])

	_, err = shape.Encode(record)
	assert.ErrorIs(t, err, model.ErrDictFormat)
}

func TestRecordFromJSONErrors(t *testing.T) {
	shape := jsonRegistry(t)

	tests := []struct {
		name  string
		input string
	}{
		{"number for string", `{"name":1}`},
		{"object for list", `{"points":{}}`},
		{"list for model", `{"points":[[1]]}`},
		{"bad bool key", `{"flags":{"yes":1}}`},
		{"bool for float", `{"weight":true}`},
		{"bad float string", `{"weight":"heavy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecordFromJSON(shape, []byte(tt.input))
			assert.ErrorIs(t, err, model.ErrDictFormat)
		})
	}

	_, err := RecordFromJSON(shape, []byte(`null`))
	assert.Error(t, err)
	_, err = RecordFromJSON(shape, []byte(`{`))
	assert.Error(t, err)
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int keyed map", map[int16]string{-1: "a"}, `{"-1":"a"}`},
		{"float32 shortest form", float32(0.1), `0.1`},
		{"infinities", []float64{math.Inf(1), math.Inf(-1)}, `["+Inf","-Inf"]`},
		{"nested record", map[string]any{"p": []map[string]any{{"x": int8(1)}}}, `{"p":[{"x":1}]}`},
		{"int8 list", []int8{1, -2}, `[1,-2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(ToJSON(tt.in))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}
