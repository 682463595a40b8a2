package gamestate

import (
	"log/slog"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// Blacksmith holds the dismantle resources.
type Blacksmith struct {
	Metal          uint64    `json:"metal"`
	Arcane         uint64    `json:"arcane"`
	DismantleLeft  uint8     `json:"dismantle_left"`
	LastDismantled time.Time `json:"last_dismantled"`
}

// updateSmith decodes smith: dismantles left and the last dismantle time.
func (b *Blacksmith) updateSmith(d wire.Ints, st wire.ServerTime) {
	b.DismantleLeft = wire.Soft[uint8](d, 0, "dismantles left", 0)
	b.LastDismantled = st.ConvertAt(d, 1, "last dismantled")
}

// Enchantment is a witch enchantment, indexed by the equipment slot it
// applies to.
type Enchantment uint8

const (
	EnchantHat Enchantment = iota
	EnchantBreastPlate
	EnchantGloves
	EnchantFootWear
	EnchantWeapon
	EnchantAmulet
	EnchantRing
	EnchantTalisman
	EnchantShield

	enchantmentCount = 9
)

// Witch is the witch cauldron.
type Witch struct {
	ItemsInCauldron uint16                 `json:"items_in_cauldron"`
	ItemsNeeded     uint16                 `json:"items_needed"`
	RequiredItem    *ItemType              `json:"required_item,omitempty"`
	BubblingUntil   time.Time              `json:"bubbling_until"`
	Enchantments    [enchantmentCount]bool `json:"enchantments"`
}

// Witch array layout.
const (
	witchInCauldron   = 1
	witchNeeded       = 2
	witchRequiredItem = 3
	witchFinish       = 4
	witchEnchantments = 6
)

// update decodes the witch array.
func (w *Witch) update(d wire.Ints, st wire.ServerTime) {
	w.ItemsInCauldron = wire.Soft[uint16](d, witchInCauldron, "witch cauldron", 0)
	w.ItemsNeeded = wire.Soft[uint16](d, witchNeeded, "witch needed", 0)
	w.RequiredItem = nil
	if code := wire.Soft[int64](d, witchRequiredItem, "witch required item", 0); code > 0 {
		t := wire.Enum(code, "witch required item", ItemTypeFromCode, ItemUnknown)
		w.RequiredItem = &t
	}
	w.BubblingUntil = st.ConvertAt(d, witchFinish, "witch finish")
	for i := range w.Enchantments {
		w.Enchantments[i] = wire.Soft[int64](d, witchEnchantments+i, "witch enchantment", 0) > 0
	}
}

// IdleBuildings is the number of idle game buildings.
const IdleBuildings = 10

// IdleGame is the idle clicker mini game.
type IdleGame struct {
	Money     int64                 `json:"money"`
	Runes     int64                 `json:"runes"`
	Buildings [IdleBuildings]uint32 `json:"buildings"`
	Updated   time.Time             `json:"updated"`
}

// Idle array layout.
const (
	idleMoney     = 2
	idleRunes     = 3
	idleBuildings = 5
	idleUpdated   = idleBuildings + IdleBuildings
)

// parseIdleGame decodes idle. A short array means the game is not unlocked.
func parseIdleGame(d wire.Ints, st wire.ServerTime) *IdleGame {
	if len(d) <= idleUpdated {
		return nil
	}
	g := &IdleGame{
		Money:   d[idleMoney],
		Runes:   d[idleRunes],
		Updated: st.Convert(d[idleUpdated], "idle updated"),
	}
	for i := range g.Buildings {
		g.Buildings[i] = wire.Narrow[uint32](d[idleBuildings+i], "idle building", 0)
	}
	return g
}

// HellevatorEvent is the hellevator season; Active is set while it runs.
type HellevatorEvent struct {
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	CollectTimeEnd time.Time   `json:"collect_time_end"`
	Active         *Hellevator `json:"active,omitempty"`
}

// Hellevator is the running hellevator.
type Hellevator struct {
	KeyCards     uint32    `json:"key_cards"`
	CurrentFloor uint32    `json:"current_floor"`
	Points       uint32    `json:"points"`
	MaxFloor     uint32    `json:"max_floor"`
	NextCard     time.Time `json:"next_card"`
	NextReset    time.Time `json:"next_reset"`
}

const hellevatorSaveSize = 6

// parseHellevator decodes gtsave. A short array means no running event.
func parseHellevator(d wire.Ints, st wire.ServerTime) *Hellevator {
	if len(d) < hellevatorSaveSize {
		return nil
	}
	return &Hellevator{
		KeyCards:     wire.Soft[uint32](d, 0, "hellevator key cards", 0),
		CurrentFloor: wire.Soft[uint32](d, 1, "hellevator floor", 0),
		Points:       wire.Soft[uint32](d, 2, "hellevator points", 0),
		MaxFloor:     wire.Soft[uint32](d, 3, "hellevator max floor", 0),
		NextCard:     st.Convert(d[4], "hellevator next card"),
		NextReset:    st.Convert(d[5], "hellevator next reset"),
	}
}

// updateTime decodes gttime: start, end and the end of the collect window.
func (h *HellevatorEvent) updateTime(d wire.Ints, st wire.ServerTime) {
	h.Start = st.ConvertAt(d, 0, "hellevator start")
	h.End = st.ConvertAt(d, 1, "hellevator end")
	h.CollectTimeEnd = st.ConvertAt(d, 3, "hellevator collect end")
}

// Achievement is one achievement.
type Achievement struct {
	Achieved bool  `json:"achieved"`
	Progress int64 `json:"progress"`
}

// parseAchievements decodes achievement: the first half are done flags, the
// second half the progress counters.
func parseAchievements(d wire.Ints) []Achievement {
	if len(d)%2 != 0 {
		slog.Warn("achievement list has odd size", "field", "achievement", "value", len(d))
	}
	half := len(d) / 2
	out := make([]Achievement, half)
	for i := range out {
		out[i] = Achievement{Achieved: d[i] == 1, Progress: d[half+i]}
	}
	return out
}

// Unlockable is a feature the server asks the client to unlock.
type Unlockable struct {
	MainIdent int64 `json:"main_ident"`
	SubIdent  int64 `json:"sub_ident"`
}

// parseUnlockables decodes (main, sub) pairs; zero mains are padding.
func parseUnlockables(d wire.Ints) []Unlockable {
	var out []Unlockable
	for _, c := range d.Chunks(2) {
		if c[0] == 0 {
			continue
		}
		out = append(out, Unlockable{MainIdent: c[0], SubIdent: c[1]})
	}
	return out
}
