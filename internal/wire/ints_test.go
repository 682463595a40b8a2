package wire

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInts_Get(t *testing.T) {
	t.Parallel()

	d := Ints{10, 20, 30}

	v, err := d.Get(2, "third")
	require.NoError(t, err)
	assert.Equal(t, int64(30), v)

	_, err = d.Get(3, "fourth")
	require.Error(t, err)
	var perr *ParsingError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "fourth", perr.Label)

	_, err = d.Get(-1, "negative")
	require.Error(t, err)
}

func TestInts_Skip(t *testing.T) {
	t.Parallel()

	d := Ints{1, 2, 3, 4}

	w, err := d.Skip(1, "window")
	require.NoError(t, err)
	assert.Equal(t, Ints{2, 3, 4}, w)

	w, err = d.Skip(4, "end")
	require.NoError(t, err)
	assert.Empty(t, w)

	_, err = d.Skip(5, "past end")
	require.Error(t, err)
}

func TestInts_Chunks(t *testing.T) {
	t.Parallel()

	d := Ints{1, 2, 3, 4, 5, 6, 7}
	chunks := d.Chunks(3)
	require.Len(t, chunks, 2)
	assert.Equal(t, Ints{1, 2, 3}, chunks[0])
	assert.Equal(t, Ints{4, 5, 6}, chunks[1])

	assert.Nil(t, d.Chunks(0))
}

func TestNarrow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    int64
		want any
		got  func(int64) any
	}{
		{"uint8 fits", 200, uint8(200), func(v int64) any { return Narrow[uint8](v, "u8", 7) }},
		{"uint8 overflow", 256, uint8(7), func(v int64) any { return Narrow[uint8](v, "u8", 7) }},
		{"uint8 negative", -1, uint8(7), func(v int64) any { return Narrow[uint8](v, "u8", 7) }},
		{"uint64 negative", -5, uint64(1), func(v int64) any { return Narrow[uint64](v, "u64", 1) }},
		{"uint64 max int", math.MaxInt64, uint64(math.MaxInt64), func(v int64) any { return Narrow[uint64](v, "u64", 1) }},
		{"int16 negative fits", -300, int16(-300), func(v int64) any { return Narrow[int16](v, "i16", 0) }},
		{"int16 overflow", 40000, int16(0), func(v int64) any { return Narrow[int16](v, "i16", 0) }},
		{"uint32 overflow", 1 << 33, uint32(9), func(v int64) any { return Narrow[uint32](v, "u32", 9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got(tt.v))
		})
	}
}

func TestSoft(t *testing.T) {
	t.Parallel()

	d := Ints{5, -1, 70000}

	assert.Equal(t, uint16(5), Soft[uint16](d, 0, "a", 0))
	assert.Equal(t, uint16(3), Soft[uint16](d, 1, "negative", 3))
	assert.Equal(t, uint16(3), Soft[uint16](d, 2, "overflow", 3))
	assert.Equal(t, uint16(3), Soft[uint16](d, 3, "missing", 3))
}

func TestSoftMap(t *testing.T) {
	t.Parallel()

	d := Ints{(7 << 16) | 42}

	assert.Equal(t, uint16(42), SoftMap[uint16](d, 0, "low", 0, func(v int64) int64 { return v & 0xFFFF }))
	assert.Equal(t, uint16(7), SoftMap[uint16](d, 0, "high", 0, func(v int64) int64 { return v >> 16 }))
	assert.Equal(t, uint16(1), SoftMap[uint16](d, 1, "missing", 1, func(v int64) int64 { return v }))
}

type color int

const (
	red color = iota
	green
	colorUnknown color = 99
)

func parseColor(v int64) (color, bool) {
	switch v {
	case 0:
		return red, true
	case 1:
		return green, true
	}
	return colorUnknown, false
}

func TestEnum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, green, Enum(1, "color", parseColor, colorUnknown))
	assert.Equal(t, colorUnknown, Enum(5, "color", parseColor, colorUnknown))

	d := Ints{0}
	assert.Equal(t, red, EnumAt(d, 0, "color", parseColor, colorUnknown))
	assert.Equal(t, colorUnknown, EnumAt(d, 1, "color", parseColor, colorUnknown))
}

func TestParsingError_Message(t *testing.T) {
	t.Parallel()

	err := NewParsingError("shop item", 42)
	assert.Equal(t, `parsing shop item: bad value "42"`, err.Error())
}

func TestUnescapeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a:b/c\nd", UnescapeText("a$cb$sc$bd"))
	assert.Equal(t, "plain", UnescapeText("plain"))
}
