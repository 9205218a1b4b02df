package table

import (
	"math"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a missing value (NA).
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindArray represents an array value.
	KindArray
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindArray:
		return "Array"
	default:
		return "Invalid"
	}
}

// Value is a small typed cell value.
//
// No reflection and no fmt-based stringification: Key and Format are the only
// ways a value is turned into a string, and both are stable.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	s    unique.Handle[string]
	B    bool
	A    []Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value. NaN is stored as Null.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Null()
	}
	return Value{Kind: KindFloat, F64: v}
}

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Array returns an array Value.
func Array(v []Value) Value { return Value{Kind: KindArray, A: v} }

// Strings converts a string slice into values.
func Strings(vs ...string) []Value {
	out := make([]Value, len(vs))
	for i, s := range vs {
		out[i] = String(s)
	}
	return out
}

// Ints converts an int64 slice into values.
func Ints(vs ...int64) []Value {
	out := make([]Value, len(vs))
	for i, n := range vs {
		out[i] = Int(n)
	}
	return out
}

// Floats converts a float64 slice into values.
func Floats(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, f := range vs {
		out[i] = Float(f)
	}
	return out
}

// Bools converts a bool slice into values.
func Bools(vs ...bool) []Value {
	out := make([]Value, len(vs))
	for i, b := range vs {
		out[i] = Bool(b)
	}
	return out
}

// Guess converts a string produced by a string verb into the most specific
// value it represents: Int, Float, Bool, Null ("NA" or empty) or String.
func Guess(s string) Value {
	switch s {
	case "", "NA":
		return Null()
	case "TRUE", "true":
		return Bool(true)
	case "FALSE", "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return String(s)
}
