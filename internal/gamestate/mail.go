package gamestate

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// Mail is the inbox and the combat log.
type Mail struct {
	Inbox         []InboxEntry     `json:"inbox,omitempty"`
	InboxCapacity uint16           `json:"inbox_capacity"`
	OpenMessage   *string          `json:"open_message,omitempty"`
	CombatLog     []CombatLogEntry `json:"combat_log,omitempty"`
}

// InboxEntry is one message header.
type InboxEntry struct {
	ID       int64     `json:"id"`
	Read     bool      `json:"read"`
	From     string    `json:"from"`
	Title    string    `json:"title"`
	Received time.Time `json:"received"`
}

// parseInboxEntry decodes "id,status,from,title,date". The title may
// itself contain commas.
func parseInboxEntry(raw string, st wire.ServerTime) (InboxEntry, bool) {
	id, rest, ok1 := strings.Cut(raw, ",")
	status, rest, ok2 := strings.Cut(rest, ",")
	from, rest, ok3 := strings.Cut(rest, ",")
	sep := strings.LastIndexByte(rest, ',')
	if !ok1 || !ok2 || !ok3 || sep < 0 {
		slog.Warn("bad inbox entry", "field", "messagelist", "value", raw)
		return InboxEntry{}, false
	}
	msgID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		slog.Warn("bad inbox id", "field", "messagelist", "value", id)
		return InboxEntry{}, false
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(rest[sep+1:]), 10, 64)
	if err != nil {
		slog.Warn("bad inbox date", "field", "messagelist", "value", rest[sep+1:])
		ts = 0
	}
	return InboxEntry{
		ID:       msgID,
		Read:     strings.TrimSpace(status) == "1",
		From:     from,
		Title:    wire.UnescapeText(rest[:sep]),
		Received: st.Convert(ts, "inbox date"),
	}, true
}

func parseInbox(raw string, st wire.ServerTime) []InboxEntry {
	var out []InboxEntry
	for _, msg := range strings.Split(raw, ";") {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		if e, ok := parseInboxEntry(msg, st); ok {
			out = append(out, e)
		}
	}
	return out
}

// CombatLogType is the kind of a logged fight.
type CombatLogType uint8

const (
	LogPlayerFight CombatLogType = 0
	LogGuildFight  CombatLogType = 1
	LogGuildRaid   CombatLogType = 5
	LogDungeon     CombatLogType = 6
	LogTower       CombatLogType = 7

	LogUnknown CombatLogType = 255
)

// CombatLogTypeFromCode maps the fight kind column.
func CombatLogTypeFromCode(code int64) (CombatLogType, bool) {
	switch code {
	case 0, 1, 5, 6, 7:
		return CombatLogType(code), true
	}
	return LogUnknown, false
}

// CombatLogEntry is one logged fight.
type CombatLogEntry struct {
	MessageID  int64         `json:"message_id"`
	PlayerName string        `json:"player_name"`
	Won        bool          `json:"won"`
	Type       CombatLogType `json:"type"`
	Time       time.Time     `json:"time"`
}

const combatLogFields = 6

// parseCombatLogEntry decodes "id,name,won,type,_,time".
func parseCombatLogEntry(parts []string, st wire.ServerTime) (CombatLogEntry, bool) {
	if len(parts) < combatLogFields {
		return CombatLogEntry{}, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return CombatLogEntry{}, false
	}
	typ, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		return CombatLogEntry{}, false
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(parts[5]), 10, 64)
	if err != nil {
		return CombatLogEntry{}, false
	}
	return CombatLogEntry{
		MessageID:  id,
		PlayerName: parts[1],
		Won:        parts[2] == "1",
		Type:       wire.Enum(typ, "combat log type", CombatLogTypeFromCode, LogUnknown),
		Time:       st.Convert(ts, "combat log time"),
	}, true
}

// appendCombatLog appends the entries of combatloglist. Blank entries are
// skipped quietly.
func (m *Mail) appendCombatLog(raw string, st wire.ServerTime) {
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.Split(entry, ",")
		if e, ok := parseCombatLogEntry(parts, st); ok {
			m.CombatLog = append(m.CombatLog, e)
			continue
		}
		if strings.TrimSpace(entry) != "" {
			slog.Warn("bad combat log entry", "field", "combatloglist", "value", entry)
		}
	}
}

// parseRelations decodes friendlist: "id,name,guild,level,relation" with
// relation -1 (ignored) or 1 (friend).
func parseRelations(raw string) []RelationEntry {
	var out []RelationEntry
	for _, entry := range strings.Split(strings.TrimRight(raw, ";"), ";") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ",", 5)
		if len(parts) < 5 {
			slog.Warn("bad friendlist entry", "field", "friendlist", "value", entry)
			continue
		}
		id, err1 := strconv.ParseUint(parts[0], 10, 32)
		level, err2 := strconv.ParseUint(parts[3], 10, 16)
		rel, relOK := Ignored, true
		switch parts[4] {
		case "-1":
		case "1":
			rel = Friend
		default:
			relOK = false
		}
		if err1 != nil || err2 != nil || !relOK {
			slog.Warn("bad friendlist entry", "field", "friendlist", "value", entry)
			continue
		}
		out = append(out, RelationEntry{
			ID:           uint32(id),
			Name:         parts[1],
			Guild:        parts[2],
			Level:        uint16(level),
			Relationship: rel,
		})
	}
	return out
}
