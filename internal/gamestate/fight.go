package gamestate

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/sfstate/internal/response"
	"github.com/udisondev/sfstate/internal/wire"
)

// ArenaEnemySlots is the number of offered arena opponents.
const ArenaEnemySlots = 3

// Arena is the player-versus-player arena.
type Arena struct {
	EnemyIDs      [ArenaEnemySlots]uint32 `json:"enemy_ids"`
	NextFreeFight time.Time               `json:"next_free_fight"`
	FightsForXP   uint8                   `json:"fights_for_xp"`
}

// Fight is the result of the last fight of any kind. Guild and dungeon
// fights consist of several single fights.
type Fight struct {
	Fights  []SingleFight `json:"fights"`
	Groups  string        `json:"groups,omitempty"`
	Version uint32        `json:"version"`

	HasWon         bool   `json:"has_won"`
	SilverChange   int64  `json:"silver_change"`
	XPChange       uint64 `json:"xp_change"`
	MushroomChange uint8  `json:"mushroom_change"`
	HonorChange    int64  `json:"honor_change"`
	RankPre        uint32 `json:"rank_pre"`
	RankPost       uint32 `json:"rank_post"`
}

// fight returns the 1-based single fight n, growing the list as needed.
func (f *Fight) fight(n int) *SingleFight {
	if n < 1 {
		n = 1
	}
	if len(f.Fights) < n {
		f.Fights = append(f.Fights, make([]SingleFight, n-len(f.Fights))...)
	}
	return &f.Fights[n-1]
}

// updateResult decodes fightresult.
func (f *Fight) updateResult(d wire.Ints) error {
	won, err := d.Get(0, "fight result")
	if err != nil {
		return err
	}
	f.HasWon = won == 1
	f.SilverChange = wire.Soft[int64](d, 2, "fight silver change", 0)
	f.XPChange = wire.Soft[uint64](d, 3, "fight xp change", 0)
	f.MushroomChange = wire.Soft[uint8](d, 4, "fight mushroom change", 0)
	f.HonorChange = wire.Soft[int64](d, 5, "fight honor change", 0)
	f.RankPre = wire.Soft[uint32](d, 7, "fight rank before", 0)
	f.RankPost = wire.Soft[uint32](d, 8, "fight rank after", 0)
	return nil
}

// SingleFight is one duel inside a fight.
type SingleFight struct {
	WinnerID int64         `json:"winner_id"`
	Type     int64         `json:"type"`
	FighterA *Fighter      `json:"fighter_a,omitempty"`
	FighterB *Fighter      `json:"fighter_b,omitempty"`
	Actions  []FightAction `json:"actions,omitempty"`
}

// Fighter is one side of a duel as listed in the fight header.
type Fighter struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Level      uint16     `json:"level"`
	Life       uint64     `json:"life"`
	Attributes Attributes `json:"attributes"`
	Class      Class      `json:"class"`
}

// fighterBlockSize: id, name, level, life, five attributes, class.
const fighterBlockSize = 10

// FightAction is one round: who acted, the damage dealt and the action code.
type FightAction struct {
	Acting int64 `json:"acting"`
	Damage int64 `json:"damage"`
	Kind   int64 `json:"kind"`
}

// updateFighters decodes a fightheader value: the fight type followed by two
// fighter blocks.
func (s *SingleFight) updateFighters(raw string) {
	parts := strings.Split(raw, response.ListSeparator)
	if len(parts) < 1+2*fighterBlockSize {
		slog.Warn("fight header too short", "field", "fightheader", "value", len(parts))
		return
	}
	s.Type, _ = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	s.FighterA = parseFighter(parts[1 : 1+fighterBlockSize])
	s.FighterB = parseFighter(parts[1+fighterBlockSize : 1+2*fighterBlockSize])
}

func parseFighter(parts []string) *Fighter {
	num := func(i int, label string) int64 {
		n, err := strconv.ParseInt(strings.TrimSpace(parts[i]), 10, 64)
		if err != nil {
			slog.Warn("bad fighter value", "field", label, "value", parts[i])
			return 0
		}
		return n
	}
	f := &Fighter{
		ID:    num(0, "fighter id"),
		Name:  wire.UnescapeText(parts[1]),
		Level: wire.Narrow[uint16](num(2, "fighter level"), "fighter level", 0),
		Life:  wire.Narrow[uint64](num(3, "fighter life"), "fighter life", 0),
		Class: ClassUnknown,
	}
	for i := range f.Attributes {
		f.Attributes[i] = wire.Narrow[uint32](num(4+i, "fighter attribute"), "fighter attribute", 0)
	}
	if cls := num(9, "fighter class"); cls > 0 {
		f.Class = wire.Enum(cls-1, "fighter class", ClassFromCode, ClassUnknown)
	}
	return f
}

// updateRounds decodes a fight<N> value as triples.
func (s *SingleFight) updateRounds(v response.Value) error {
	d, err := v.Ints("fight rounds")
	if err != nil {
		return err
	}
	chunks := d.Chunks(3)
	s.Actions = make([]FightAction, 0, len(chunks))
	for _, c := range chunks {
		s.Actions = append(s.Actions, FightAction{Acting: c[0], Damage: c[1], Kind: c[2]})
	}
	return nil
}
