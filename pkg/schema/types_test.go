package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		desc string
		want Type
	}{
		{"int8", Int8},
		{"int16", Int16},
		{"int32", Int32},
		{"int64", Int64},
		{"float32", Float32},
		{"float64", Float64},
		{"bool", Bool},
		{"string", String},
		{"list:int32", ListOf(Int32)},
		{"list:list:string", ListOf(ListOf(String))},
		{"map:string:bool", MapOf(String, Bool)},
		{"map:string:map:int32:bool", MapOf(String, MapOf(Int32, Bool))},
		{"map:int64:list:model:Other", MapOf(Int64, ListOf(ModelOf("Other")))},
		{"model:Other", ModelOf("Other")},
		{"list:model:Tree", ListOf(ModelOf("Tree"))},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := Parse(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.desc, got.String(), "String must round-trip the descriptor")
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"int",
		"uint8",
		"list:",
		"map:string",
		"map:string:",
		"map:list:int32:bool",
		"map:model:X:bool",
		"model:",
		"List:int32",
	}

	for _, desc := range tests {
		t.Run(desc, func(t *testing.T) {
			_, err := Parse(desc)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	desc := "map:string:map:string:list:float64"
	a, err := Parse(desc)
	require.NoError(t, err)
	b, err := Parse(desc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(MapOf(String, ListOf(ModelOf("X")))))
	assert.ErrorIs(t, Validate(nil), ErrMalformed)
	assert.ErrorIs(t, Validate(ListOf(nil)), ErrMalformed)
	assert.ErrorIs(t, Validate(MapOf(ListOf(Int8), Bool)), ErrMalformed)
	assert.ErrorIs(t, Validate(MapOf(String, nil)), ErrMalformed)
	assert.ErrorIs(t, Validate(ModelOf("")), ErrMalformed)
	assert.ErrorIs(t, Validate(Primitive(0)), ErrMalformed)
	assert.ErrorIs(t, Validate(Primitive(42)), ErrMalformed)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.Equal(t, Int64, MustParse("int64"))
}

func TestPrimitiveSize(t *testing.T) {
	assert.Equal(t, 1, Int8.Size())
	assert.Equal(t, 1, Bool.Size())
	assert.Equal(t, 2, Int16.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 0, String.Size())
}

func TestGoType(t *testing.T) {
	tests := []struct {
		typ  Type
		want reflect.Type
	}{
		{Int8, reflect.TypeOf(int8(0))},
		{Float32, reflect.TypeOf(float32(0))},
		{String, reflect.TypeOf("")},
		{ListOf(Int32), reflect.TypeOf([]int32(nil))},
		{MapOf(String, Bool), reflect.TypeOf(map[string]bool(nil))},
		{ListOf(ListOf(Int64)), reflect.TypeOf([][]int64(nil))},
		{ModelOf("X"), reflect.TypeOf(map[string]any(nil))},
		{MapOf(Int16, ModelOf("X")), reflect.TypeOf(map[int16]map[string]any(nil))},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, GoType(tt.typ))
		})
	}
}
