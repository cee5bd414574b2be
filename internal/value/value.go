// Package value implements the BASIC value domain: a tagged union of a
// number or a string (spec.md §3). All arithmetic is double precision;
// there is no separate integer type.
package value

import "fmt"

// MaxStringLen bounds a string value's length; concatenation and
// assignment silently truncate to this size minus one character
// (spec.md §3).
const MaxStringLen = 255

// Kind distinguishes the two cases of Value.
type Kind int

const (
	Number Kind = iota
	String
)

// Value is a CBM BASIC runtime value: either a float64 or a string.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Num constructs a numeric value.
func Num(n float64) Value { return Value{kind: Number, num: n} }

// Str constructs a string value, truncated to MaxStringLen-1 characters.
func Str(s string) Value {
	if len(s) >= MaxStringLen {
		s = s[:MaxStringLen-1]
	}
	return Value{kind: String, str: s}
}

// Bool returns the CBM boolean encoding of cond: -1.0 for true, 0.0 for
// false (spec.md §4.3).
func Bool(cond bool) Value {
	if cond {
		return Num(-1)
	}
	return Num(0)
}

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.kind == String }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == Number }

// Kind reports v's tag.
func (v Value) Kind() Kind { return v.kind }

// NumUnchecked returns the numeric payload without checking the tag.
// Callers that need the coercion error should use AsNumber instead.
func (v Value) NumUnchecked() float64 { return v.num }

// StrUnchecked returns the string payload without checking the tag.
func (v Value) StrUnchecked() string { return v.str }

// AsNumber returns v's numeric payload, or an error if v is a string
// (spec.md §4.2, "Numeric value required").
func (v Value) AsNumber() (float64, error) {
	if v.kind != Number {
		return 0, fmt.Errorf("Numeric value required")
	}
	return v.num, nil
}

// AsString returns v's string payload, or an error if v is a number
// (spec.md §4.2, "String value required").
func (v Value) AsString() (string, error) {
	if v.kind != String {
		return "", fmt.Errorf("String value required")
	}
	return v.str, nil
}

// Truthy reports whether v is true under BASIC's IF semantics: any
// non-zero numeric value or any non-empty string (spec.md §4.5).
func (v Value) Truthy() bool {
	if v.kind == String {
		return v.str != ""
	}
	return v.num != 0
}

// Zero returns the zero value for kind: Number(0) or an empty string.
func Zero(k Kind) Value {
	if k == String {
		return Str("")
	}
	return Num(0)
}

// String renders v the way PRINT does: a string prints verbatim, a number
// prints via Go's shortest round-trippable decimal form (spec.md §9's
// "plain behavior" resolution of the PRINT spacing Open Question).
func (v Value) String() string {
	if v.kind == String {
		return v.str
	}
	return FormatNumber(v.num)
}
