package response

import (
	"strconv"
	"strings"

	"github.com/udisondev/sfstate/internal/wire"
)

// ListSeparator separates integers inside a list value.
const ListSeparator = "/"

// Value is the raw text of one response field. It is interpreted lazily as a
// scalar, an integer list or a string list by whichever decoder owns the field.
type Value struct {
	raw string
}

// NewValue wraps raw field text.
func NewValue(raw string) Value {
	return Value{raw: raw}
}

// String returns the raw text.
func (v Value) String() string {
	return v.raw
}

// Int parses the value as a single integer.
func (v Value) Int(label string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v.raw), 10, 64)
	if err != nil {
		return 0, wire.NewParsingError(label, v.raw)
	}
	return n, nil
}

// Ints parses a "/"-separated integer list. Empty tokens (a trailing
// separator is common) are skipped; any other bad token fails the whole list.
func (v Value) Ints(label string) (wire.Ints, error) {
	parts := strings.Split(v.raw, ListSeparator)
	out := make(wire.Ints, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, wire.NewParsingError(label, p)
		}
		out = append(out, n)
	}
	return out, nil
}

// Strings splits the value on sep, dropping empty entries.
func (v Value) Strings(sep string) []string {
	parts := strings.Split(v.raw, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
