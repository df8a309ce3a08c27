// Package value defines the runtime values of the loxi language.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a runtime value. The set of implementations is closed:
// Nil, Bool, Number and String.
//
// A Go nil Value is not a language value. Environments use it to mark a
// variable that is declared but has not been assigned yet.
type Value interface {
	Kind() Kind
	aValue()
}

// Nil is the language's nil.
type Nil struct{}

// Bool is a boolean value.
type Bool bool

// Number is a double-precision number. All numbers are floats.
type Number float64

// String is a string value.
type String string

func (Nil) Kind() Kind    { return KindNil }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }

func (Nil) aValue()    {}
func (Bool) aValue()   {}
func (Number) aValue() {}
func (String) aValue() {}

func (Nil) String() string      { return "nil" }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }
func (n Number) String() string { return formatNumber(float64(n)) }
func (s String) String() string { return string(s) }

// Truthy reports whether v counts as true in a condition.
// nil is false, booleans are themselves, zero is false and every
// other value is true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	default:
		return true
	}
}

// Equal reports whether a and b are equal. Values of different kinds are
// never equal; nil equals only nil.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return a == b
}

// Stringify renders v the way print shows it.
func Stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprint(v)
}

// formatNumber drops the fractional part of whole numbers so that 3.0
// prints as 3 while 3.5 stays 3.5.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
