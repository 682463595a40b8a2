package wire

import (
	"log/slog"
	"time"
)

// Plausibility window for raw server epochs (roughly 2001..2065).
const (
	MinPlausibleEpoch = 1_000_000_000
	MaxPlausibleEpoch = 3_000_000_000
)

// sentinelUnset: 0 and -1 mean "no value"; 11 shows up in potion and item
// expiry fields with the same meaning.
var sentinelUnset = [...]int64{0, -1, 11}

// ServerTime converts raw server epochs into local timestamps. It carries
// the signed offset (seconds) the server clock is ahead of the local one.
type ServerTime struct {
	offset int64
	loc    *time.Location
}

// NewServerTime returns a clock with the given offset. A nil location means
// time.Local.
func NewServerTime(offset int64, loc *time.Location) ServerTime {
	if loc == nil {
		loc = time.Local
	}
	return ServerTime{offset: offset, loc: loc}
}

// OffsetFrom computes server_epoch - local_received_epoch.
func OffsetFrom(serverEpoch int64, receivedAt time.Time) int64 {
	return serverEpoch - receivedAt.Unix()
}

// Offset returns the signed seconds the server is ahead of the local clock.
func (s ServerTime) Offset() int64 {
	return s.offset
}

func (s ServerTime) location() *time.Location {
	if s.loc == nil {
		return time.Local
	}
	return s.loc
}

// Convert turns a raw server epoch into a local timestamp. Sentinels and
// implausible values return the zero time; the latter are logged.
func (s ServerTime) Convert(raw int64, label string) time.Time {
	for _, v := range sentinelUnset {
		if raw == v {
			return time.Time{}
		}
	}
	if raw < MinPlausibleEpoch || raw > MaxPlausibleEpoch {
		slog.Warn("implausible timestamp", "field", label, "value", raw)
		return time.Time{}
	}
	return time.Unix(raw-s.offset, 0).In(s.location())
}

// ConvertAt reads idx and converts it. A missing index yields the zero time.
func (s ServerTime) ConvertAt(d Ints, idx int, label string) time.Time {
	v, ok := d.At(idx, label)
	if !ok {
		return time.Time{}
	}
	return s.Convert(v, label)
}

// Current is the server's wall clock right now, derived from the local clock.
func (s ServerTime) Current() time.Time {
	return time.Now().In(s.location()).Add(time.Duration(s.offset) * time.Second)
}
