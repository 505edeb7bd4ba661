package template

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Data is the key/value context a template renders against. A value is a
// scalar (string, number, bool, or any type whose underlying kind is one of
// those) or a list of rows, where each row is a map from field name to
// scalar or a bare scalar.
//
// Data is never modified by rendering.
type Data map[string]any

// Value is the result of resolving an expression: a value, or "no value".
type Value struct {
	v       any
	present bool
}

// NoValue is the resolution of a key that is not in the context.
var NoValue = Value{}

// Present reports whether the value exists.
func (v Value) Present() bool { return v.present }

// Text returns the value as text. ok is false for "no value" and for
// values that are not scalar.
func (v Value) Text() (string, bool) {
	if !v.present {
		return "", false
	}
	return scalarText(v.v)
}

func (v Value) String() string {
	if !v.present {
		return "<no value>"
	}
	if s, ok := scalarText(v.v); ok {
		return s
	}
	return fmt.Sprintf("%v", v.v)
}

// Resolve resolves an if operand. An expression containing a single quote
// is a literal: every leading and trailing quote is trimmed and the rest is
// returned verbatim. Anything else is a context key. Present keys holding
// nil resolve to "no value".
func Resolve(expr string, data Data) Value {
	if strings.Contains(expr, "'") {
		return Value{v: strings.Trim(expr, "'"), present: true}
	}
	v, ok := data[expr]
	if !ok || v == nil {
		return NoValue
	}
	return Value{v: v, present: true}
}

// Equal compares two resolved values. Two "no value"s are equal and "no
// value" never equals a present value. Values that both read as decimal
// numbers compare numerically, so "1" equals "1.0"; all other scalars
// compare as exact strings. Non-scalar values are never equal.
func Equal(a, b Value) bool {
	if !a.present || !b.present {
		return a.present == b.present
	}
	at, aok := a.Text()
	bt, bok := b.Text()
	if !aok || !bok {
		return false
	}
	if an, ok := parseNumber(at); ok {
		if bn, ok := parseNumber(bt); ok {
			return an == bn
		}
	}
	return at == bt
}

var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber accepts plain decimal notation with optional surrounding
// whitespace, an optional sign, and an optional exponent.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// text returns the substitution text for key. Present nil values render as
// empty text; lists are not substitutable.
func (d Data) text(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	if v == nil {
		return "", true
	}
	return scalarText(v)
}

// list returns the value under key when it is list-shaped.
func (d Data) list(key string) ([]any, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, false
	}
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, r := range l {
			out[i] = r
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false // []byte is text, not a list
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// withElement returns a copy of d extended with one list element: map rows
// contribute "i.<field>" keys, anything else is bound to "i". Element keys
// take precedence over outer keys.
func (d Data) withElement(elem any) Data {
	merged := make(Data, len(d)+4)
	for k, v := range d {
		merged[k] = v
	}
	if fields, ok := rowFields(elem); ok {
		for k, v := range fields {
			merged["i."+k] = v
		}
		return merged
	}
	merged["i"] = elem
	return merged
}

func rowFields(elem any) (map[string]any, bool) {
	switch r := elem.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return r, true
	case Data:
		return r, true
	case map[string]string:
		out := make(map[string]any, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out, true
	}

	rv := reflect.ValueOf(elem)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func scalarText(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case []byte:
		return string(s), true
	case bool:
		return strconv.FormatBool(s), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}
