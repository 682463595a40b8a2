package gamestate

import (
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// DungeonType selects the light or the shadow world.
type DungeonType uint8

const (
	LightDungeon DungeonType = iota
	ShadowDungeon
)

// Dungeons groups the dungeon progress of both worlds.
type Dungeons struct {
	NextFreeFight time.Time                  `json:"next_free_fight"`
	Light         []DungeonProgress          `json:"light,omitempty"`
	Shadow        []DungeonProgress          `json:"shadow,omitempty"`
	Portal        Slot[Portal]               `json:"portal"`
	Companions    *[companionCount]Companion `json:"companions,omitempty"`
}

// DungeonProgress of one dungeon. Cleared is meaningful once Unlocked.
type DungeonProgress struct {
	Unlocked   bool   `json:"unlocked"`
	Cleared    uint16 `json:"cleared"`
	EnemyLevel uint16 `json:"enemy_level"`
}

func (d *Dungeons) world(t DungeonType) *[]DungeonProgress {
	if t == ShadowDungeon {
		return &d.Shadow
	}
	return &d.Light
}

func growProgress(list *[]DungeonProgress, n int) {
	if len(*list) < n {
		*list = append(*list, make([]DungeonProgress, n-len(*list))...)
	}
}

// updateProgress decodes one cleared-floors entry per dungeon; -1 is locked.
func (d *Dungeons) updateProgress(data wire.Ints, t DungeonType) {
	list := d.world(t)
	growProgress(list, len(data))
	for i, v := range data {
		p := &(*list)[i]
		p.Unlocked = v >= 0
		p.Cleared = 0
		if v > 0 {
			p.Cleared = wire.Narrow[uint16](v, "dungeon progress", 0)
		}
	}
}

// updateLevels decodes one enemy level per dungeon.
func (d *Dungeons) updateLevels(data wire.Ints, t DungeonType) {
	list := d.world(t)
	growProgress(list, len(data))
	for i, v := range data {
		(*list)[i].EnemyLevel = wire.Narrow[uint16](v, "dungeon level", 0)
	}
}

// Portal is the single-player demon portal.
type Portal struct {
	Current        uint16 `json:"current"`
	EnemyHPPercent uint8  `json:"enemy_hp_percent"`
	LastFightDay   uint16 `json:"last_fight_day"`
	EnemyLevel     uint32 `json:"enemy_level"`
	PlayerHPBonus  uint16 `json:"player_hp_bonus"`
}

// update decodes portalprogress: floor, enemy life percent and the day of
// year of the last fight.
func (p *Portal) update(d wire.Ints) {
	p.Current = wire.Soft[uint16](d, 0, "portal progress", 0)
	p.EnemyHPPercent = wire.Soft[uint8](d, 1, "portal enemy life", 0)
	p.LastFightDay = wire.Soft[uint16](d, 2, "portal last fight day", 0)
}

// CompanionClass indexes the tower companions.
type CompanionClass uint8

const (
	CompanionWarrior CompanionClass = iota
	CompanionMage
	CompanionScout

	companionCount = 3
)

// Companion is one tower companion.
type Companion struct {
	Level      int64      `json:"level"`
	Attributes Attributes `json:"attributes"`
	Equipment  Equipment  `json:"equipment"`
}

// Tower array companion layout, relative to each companion block.
const (
	towerCompanionBase  = 3
	towerCompanionAttrs = 4
	towerCompanionEquip = 22
)

// updateCompanions decodes the companion part of owntower.
func (d *Dungeons) updateCompanions(data wire.Ints) error {
	var comps [companionCount]Companion
	for i := range comps {
		start := towerCompanionBase + i*towerUnitStride
		c := &comps[i]
		c.Level = wire.Soft[int64](data, start, "companion level", 0)
		for a := range c.Attributes {
			c.Attributes[a] = wire.Soft[uint32](data, start+towerCompanionAttrs+a, "companion attribute", 0)
		}
		w, err := data.Skip(start+towerCompanionEquip, "companion equipment")
		if err != nil {
			return err
		}
		eq, err := parseEquipment(w)
		if err != nil {
			return err
		}
		c.Equipment = eq
	}
	d.Companions = &comps
	return nil
}
