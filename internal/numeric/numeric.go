// Package numeric normalizes the loosely-typed grade and weight inputs the
// diary accepts. Text fields may use a decimal comma or decimal point, be
// empty, or hold garbage; every consumer goes through Parse so there is a
// single place deciding what counts as a number.
package numeric

import (
	"strconv"
	"strings"
)

// Kind classifies a parsed value.
type Kind int

const (
	// Absent means the field was empty or missing.
	Absent Kind = iota
	// Number means the field parsed as a finite decimal.
	Number
	// Malformed means the field held text that is not a number.
	Malformed
)

// Value is the result of normalizing one numeric input field.
type Value struct {
	Kind  Kind
	Float float64
}

// Parse normalizes a raw text field. A decimal comma is accepted and treated
// as a decimal point before parsing.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{Kind: Absent}
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{Kind: Malformed}
	}
	return Value{Kind: Number, Float: f}
}

// Normalize re-renders a raw field in canonical one-decimal form when it
// parses as a number. Absent and malformed inputs are returned unchanged so
// callers never lose what the user typed.
func Normalize(raw string) string {
	v := Parse(raw)
	if v.Kind != Number {
		return strings.TrimSpace(raw)
	}
	return Format(v.Float)
}

// Format renders a number with exactly one decimal place, the storage and
// display convention for grades and weights.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
