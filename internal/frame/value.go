package frame

import (
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindInt
	KindFloat
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "missing"
	}
}

// Value is a single tagged cell. The zero value is the missing marker.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// MissingValue returns the missing marker
func MissingValue() Value {
	return Value{kind: KindMissing}
}

// StringValue returns a Value holding the given string
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// IntValue returns a Value holding the given integer
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue returns a Value holding the given float
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Kind returns the variant tag of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the value is the missing marker
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float64 returns the numeric view of the value. Int values are widened to
// float64; string and missing values report false.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Int64 returns the integer held by the value, if any
func (v Value) Int64() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// String returns the canonical text form of the value: the raw string for
// string values, minimal round-trip formatting for numbers, and the empty
// string for the missing marker.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return ""
	}
}
