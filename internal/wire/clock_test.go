package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServerTime_ConvertSentinels(t *testing.T) {
	t.Parallel()

	st := NewServerTime(3600, time.UTC)
	for _, raw := range []int64{0, -1, 11} {
		assert.True(t, st.Convert(raw, "sentinel").IsZero(), "raw=%d", raw)
	}
}

func TestServerTime_ConvertImplausible(t *testing.T) {
	t.Parallel()

	st := NewServerTime(0, time.UTC)
	for _, raw := range []int64{12, 999_999_999, 3_000_000_001, -5} {
		assert.True(t, st.Convert(raw, "implausible").IsZero(), "raw=%d", raw)
	}
}

func TestServerTime_ConvertAppliesOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset int64
		raw    int64
	}{
		{0, 1_700_000_000},
		{3600, 1_700_000_000},
		{-7200, 1_000_000_000},
		{120, 3_000_000_000},
	}
	for _, tt := range tests {
		st := NewServerTime(tt.offset, time.UTC)
		got := st.Convert(tt.raw, "ts")
		assert.Equal(t, tt.raw-tt.offset, got.Unix())
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestServerTime_ConvertAt(t *testing.T) {
	t.Parallel()

	st := NewServerTime(10, time.UTC)
	d := Ints{0, 1_700_000_010}

	assert.True(t, st.ConvertAt(d, 0, "unset").IsZero())
	assert.Equal(t, int64(1_700_000_000), st.ConvertAt(d, 1, "set").Unix())
	assert.True(t, st.ConvertAt(d, 2, "missing").IsZero())
}

func TestOffsetFrom(t *testing.T) {
	t.Parallel()

	received := time.Unix(1_700_000_000, 0)
	assert.Equal(t, int64(90), OffsetFrom(1_700_000_090, received))
	assert.Equal(t, int64(-30), OffsetFrom(1_699_999_970, received))
}

func TestServerTime_Current(t *testing.T) {
	t.Parallel()

	st := NewServerTime(3600, nil)
	diff := st.Current().Sub(time.Now())
	assert.InDelta(t, time.Hour.Seconds(), diff.Seconds(), 5)
}
