package wire

import (
	"fmt"
	"log/slog"
)

// Integer is the set of numeric types positional values are narrowed into.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Ints is a flat positional integer array as sent by the server. The meaning
// of every index is fixed by convention only, so all access goes through the
// bounds-checked helpers below.
type Ints []int64

// Get returns the element at idx or a ParsingError if the array is too short.
// Use it only for values whose absence makes the whole record meaningless.
func (d Ints) Get(idx int, label string) (int64, error) {
	if idx < 0 || idx >= len(d) {
		return 0, &ParsingError{
			Label: label,
			Value: fmt.Sprintf("index %d out of range (len=%d)", idx, len(d)),
		}
	}
	return d[idx], nil
}

// At returns the element at idx. Out of range yields false and a warning.
func (d Ints) At(idx int, label string) (int64, bool) {
	if idx < 0 || idx >= len(d) {
		slog.Warn("positional value missing", "field", label, "index", idx, "len", len(d))
		return 0, false
	}
	return d[idx], true
}

// Skip returns the window starting at off. An offset past the end of the
// array is a hard failure; an offset equal to the length yields an empty window.
func (d Ints) Skip(off int, label string) (Ints, error) {
	if off < 0 || off > len(d) {
		return nil, &ParsingError{
			Label: label,
			Value: fmt.Sprintf("offset %d out of range (len=%d)", off, len(d)),
		}
	}
	return d[off:], nil
}

// Chunks splits d into consecutive windows of exactly size elements. A
// trailing remainder is dropped.
func (d Ints) Chunks(size int) []Ints {
	if size <= 0 {
		return nil
	}
	out := make([]Ints, 0, len(d)/size)
	for i := 0; i+size <= len(d); i += size {
		out = append(out, d[i:i+size])
	}
	return out
}

// Narrow converts v into T. Values that do not fit yield def and a warning.
func Narrow[T Integer](v int64, label string, def T) T {
	t := T(v)
	if int64(t) != v || (t < 0) != (v < 0) {
		slog.Warn("value does not fit", "field", label, "value", v)
		return def
	}
	return t
}

// Soft reads idx and narrows it into T, falling back to def (with a logged
// warning) when the index is missing or the value does not fit.
func Soft[T Integer](d Ints, idx int, label string, def T) T {
	v, ok := d.At(idx, label)
	if !ok {
		return def
	}
	return Narrow(v, label, def)
}

// SoftMap is Soft with a transformation applied to the raw value before
// narrowing. Used for bit-packed fields.
func SoftMap[T Integer](d Ints, idx int, label string, def T, fn func(int64) int64) T {
	v, ok := d.At(idx, label)
	if !ok {
		return def
	}
	return Narrow(fn(v), label, def)
}

// Enum maps a raw code through parse. Unrecognized codes are logged and
// resolve to unknown; this never fails.
func Enum[T any](v int64, label string, parse func(int64) (T, bool), unknown T) T {
	e, ok := parse(v)
	if !ok {
		slog.Warn("unknown enum code", "field", label, "value", v)
		return unknown
	}
	return e
}

// EnumAt is Enum over the element at idx. A missing element also yields unknown.
func EnumAt[T any](d Ints, idx int, label string, parse func(int64) (T, bool), unknown T) T {
	v, ok := d.At(idx, label)
	if !ok {
		return unknown
	}
	return Enum(v, label, parse, unknown)
}
