package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tableName string

func TestResolve(t *testing.T) {
	data := Data{"a": "x", "n": nil, "num": 3}

	tests := []struct {
		expr    string
		present bool
		text    string
	}{
		{"'literal'", true, "literal"},
		{"''doubled''", true, "doubled"},
		{"it's", true, "it's"},
		{"''", true, ""},
		{"a", true, "x"},
		{"num", true, "3"},
		{"n", false, ""},
		{"missing", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v := Resolve(tt.expr, data)
			assert.Equal(t, tt.present, v.Present())
			text, _ := v.Text()
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestEqual(t *testing.T) {
	lit := func(s string) Value { return Value{v: s, present: true} }
	val := func(v any) Value { return Value{v: v, present: true} }

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"no values", NoValue, NoValue, true},
		{"one missing", NoValue, lit(""), false},
		{"other missing", lit("x"), NoValue, false},
		{"same string", lit("x"), lit("x"), true},
		{"case sensitive", lit("x"), lit("X"), false},
		{"numeric", lit("10"), lit("10.0"), true},
		{"numeric int", val(10), lit("1e1"), true},
		{"numeric differs", lit("10"), lit("11"), false},
		{"number and word", lit("10"), lit("ten"), false},
		{"lists never equal", val([]any{"a"}), val([]any{"a"}), false},
		{"maps never equal", val(map[string]any{"a": "b"}), val(map[string]any{"a": "b"}), false},
		{"list and empty string", val([]any{}), lit(""), false},
		{"named string type", val(tableName("posts")), lit("posts"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqual_SameListKey(t *testing.T) {
	data := Data{"columns": []any{map[string]any{"name": "id"}}}

	assert.False(t, Equal(Resolve("columns", data), Resolve("columns", data)))
	assert.Equal(t, "ne", Render("[[ if: columns == columns ]]eq[[ endif ]][[ if: columns != columns ]]ne[[ endif ]]", data))
}

func TestParseNumber(t *testing.T) {
	accept := map[string]float64{
		"0":      0,
		"12":     12,
		" 12 ":   12,
		"-3.5":   -3.5,
		"+4":     4,
		".5":     0.5,
		"5.":     5,
		"1e3":    1000,
		"2.5E-1": 0.25,
	}
	for in, want := range accept {
		got, ok := parseNumber(in)
		assert.True(t, ok, "parseNumber(%q)", in)
		assert.InDelta(t, want, got, 1e-9, "parseNumber(%q)", in)
	}

	for _, in := range []string{"", "abc", "0x10", "Inf", "NaN", "1_000", "1e", "--1", "1.2.3"} {
		_, ok := parseNumber(in)
		assert.False(t, ok, "parseNumber(%q) should not be numeric", in)
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "<no value>", NoValue.String())
	assert.Equal(t, "x", Resolve("'x'", nil).String())
	assert.Equal(t, "[a]", Value{v: []string{"a"}, present: true}.String())
}
