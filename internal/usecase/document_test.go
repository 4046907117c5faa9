package usecase

import (
	"math"
	"testing"

	"github.com/labellens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument_PreservesMemberOrder(t *testing.T) {
	got, err := DecodeDocument([]byte(`{"Sodium": "571.3 mg", "Energy": "457.7 kcal", "Added Sugars": "0.0 g"}`))
	require.NoError(t, err)

	obj, ok := got.(domain.Object)
	require.True(t, ok, "expected domain.Object, got %T", got)

	keys := make([]string, 0, len(obj))
	for _, m := range obj {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"Sodium", "Energy", "Added Sugars"}, keys)
}

func TestDecodeDocument_Values(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"string", `"Salt"`, "Salt"},
		{"number", `22.20`, 22.2},
		{"integer", `3`, 3.0},
		{"true", `true`, true},
		{"null", `null`, nil},
		{"empty object", `{}`, domain.Object{}},
		{"empty array", `[]`, []any{}},
		{
			"nested",
			`{"Nutrients": {"Energy": 457.7}, "Ingredients": ["Salt", ["a", 1]]}`,
			domain.Object{
				{Key: "Nutrients", Value: domain.Object{{Key: "Energy", Value: 457.7}}},
				{Key: "Ingredients", Value: []any{"Salt", []any{"a", 1.0}}},
			},
		},
		{
			"duplicate key keeps first position and last value",
			`{"a": 1, "b": 2, "a": 3}`,
			domain.Object{{Key: "a", Value: 3.0}, {Key: "b", Value: 2.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDocument([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDocument_OverflowBecomesInfinity(t *testing.T) {
	got, err := DecodeDocument([]byte(`[1e999, -1e999]`))
	require.NoError(t, err)

	arr := got.([]any)
	require.Len(t, arr, 2)
	assert.True(t, math.IsInf(arr[0].(float64), 1))
	assert.True(t, math.IsInf(arr[1].(float64), -1))
}

func TestDecodeDocument_NonFiniteLiterals(t *testing.T) {
	got, err := DecodeDocument([]byte(`{"Energy": NaN, "Fat": Infinity, "Fibre": -Infinity, "Note": "NaN Infinity"}`))
	require.NoError(t, err)

	obj := got.(domain.Object)
	require.Equal(t, 4, obj.Len())

	energy, _ := obj.Get("Energy")
	assert.True(t, math.IsNaN(energy.(float64)))
	fat, _ := obj.Get("Fat")
	assert.True(t, math.IsInf(fat.(float64), 1))
	fibre, _ := obj.Get("Fibre")
	assert.True(t, math.IsInf(fibre.(float64), -1))
	note, _ := obj.Get("Note")
	assert.Equal(t, "NaN Infinity", note, "literals inside strings stay text")
}

func TestQuoteNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no literals", `{"a": 1}`, `{"a": 1}`},
		{"NaN value", `[NaN]`, `["\u0000NaN\u0000"]`},
		{"negative infinity", `[1,-Infinity]`, `[1,"\u0000-Inf\u0000"]`},
		{"inside string", `["NaN"]`, `["NaN"]`},
		{"escaped quote in string", `["a\"NaN", NaN]`, `["a\"NaN", "\u0000NaN\u0000"]`},
		{"part of a word", `[NaNa]`, `[NaNa]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(quoteNonFinite([]byte(tt.input))))
		})
	}
}

func TestDecodeDocument_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"plain text", `not json`},
		{"trailing data", `{"a": 1} extra`},
		{"two values", `{} {}`},
		{"missing value", `{"a": }`},
		{"unterminated object", `{"a": 1`},
		{"unterminated array", `["a", "b"`},
		{"NaN as key", `{NaN: 1}`},
		{"lowercase nan", `{"a": nan}`},
		{"plus Infinity", `{"a": +Infinity}`},
		{"NaN prefix of a word", `{"a": NaNx}`},
		{"code fence left in", "```json\n{}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}
