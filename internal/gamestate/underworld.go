package gamestate

import (
	"math"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// UnderworldBuildingType indexes the underworld building table. The ordinal
// is the offset from the building run in the tower array.
type UnderworldBuildingType uint8

const (
	HeartOfDarkness UnderworldBuildingType = iota
	UnderworldGate
	GoldPit
	SoulExtractor
	GoblinPit
	TortureChamber
	GladiatorTrainer
	TrollBlock
	Adventuromatic
	UnderworldKeeper

	underworldBuildingCount = 10
)

// UnderworldBuildingFromCode maps a 0-based building code.
func UnderworldBuildingFromCode(code int64) (UnderworldBuildingType, bool) {
	if code < 0 || code >= underworldBuildingCount {
		return 0, false
	}
	return UnderworldBuildingType(code), true
}

// UnderworldUnitType indexes the unit table.
type UnderworldUnitType uint8

const (
	UnitGoblin UnderworldUnitType = iota
	UnitTroll
	UnitKeeper

	underworldUnitCount = 3
)

// UnderworldResourceType indexes the production table.
type UnderworldResourceType uint8

const (
	UnderworldSouls UnderworldResourceType = iota
	UnderworldSilver
	UnderworldThirstForAdventure

	underworldResourceCount = 3
)

// Underworld is the underworld, present once unlocked.
type Underworld struct {
	Buildings  [underworldBuildingCount]UnderworldBuilding   `json:"buildings"`
	Units      [underworldUnitCount]UnderworldUnits          `json:"units"`
	Production [underworldResourceCount]UnderworldProduction `json:"production"`

	LastCollectableUpdate time.Time `json:"last_collectable_update"`
	SoulsCurrent          uint64    `json:"souls_current"`
	SoulsLimit            uint64    `json:"souls_limit"`

	UpgradeBuilding *UnderworldBuildingType `json:"upgrade_building,omitempty"`
	UpgradeFinish   time.Time               `json:"upgrade_finish"`
	UpgradeBegin    time.Time               `json:"upgrade_begin"`

	TotalLevel uint16 `json:"total_level"`
	LuredToday uint16 `json:"lured_today"`
	Honor      uint32 `json:"honor"`
}

// UnderworldBuilding is one building. Level 0 means not built.
type UnderworldBuilding struct {
	Level       uint8          `json:"level"`
	UpgradeCost UnderworldCost `json:"upgrade_cost"`
}

// UnderworldCost is the price of one build or upgrade.
type UnderworldCost struct {
	Time   time.Duration `json:"time"`
	Silver uint64        `json:"silver"`
	Souls  uint64        `json:"souls"`
}

// UnderworldUnits is one unit type.
type UnderworldUnits struct {
	UpgradedAmount uint16                `json:"upgraded_amount"`
	Count          uint16                `json:"count"`
	AtrBonus       uint32                `json:"atr_bonus"`
	Level          uint16                `json:"level"`
	UpgradePrice   UnderworldUnitUpgrade `json:"upgrade_price"`
}

// UnderworldUnitUpgrade is the price of the next unit level.
type UnderworldUnitUpgrade struct {
	NextLevel uint16 `json:"next_level"`
	Silver    uint32 `json:"silver"`
	Souls     uint32 `json:"souls"`
}

// UnderworldProduction describes one production building.
type UnderworldProduction struct {
	LastCollectable uint64 `json:"last_collectable"`
	Limit           uint64 `json:"limit"`
	PerHour         uint64 `json:"per_hour"`
}

// Tower array layout. Units repeat every towerUnitStride integers.
const (
	towerUnitBase        = 146
	towerUnitStride      = 148
	towerBuildings       = 448
	towerSoulsCollect    = 459
	towerSoulsLimit      = 460
	towerSoulsStored     = 461
	towerSoulsPerHour    = 463
	towerSilverCollect   = 464
	towerSilverLimit     = 465
	towerSilverPerHour   = 466
	towerLastCollect     = 467
	towerUpgradeBuilding = 468
	towerUpgradeFinish   = 469
	towerUpgradeBegin    = 470
	towerTotalLevel      = 471
	towerLuredToday      = 472
	towerThirstCollect   = 473
	towerThirstLimit     = 474

	underworldCostSize = 3
)

// update decodes the underworld part of the tower array.
func (u *Underworld) update(d wire.Ints, st wire.ServerTime) {
	for i := range u.Buildings {
		u.Buildings[i].Level = wire.Soft[uint8](d, towerBuildings+i, "underworld building level", 0)
	}
	for i := range u.Units {
		start := towerUnitBase + i*towerUnitStride
		un := &u.Units[i]
		un.UpgradedAmount = wire.Soft[uint16](d, start, "underworld unit upgrades", 0)
		un.Count = wire.Soft[uint16](d, start+1, "underworld unit count", 0)
		un.AtrBonus = wire.Soft[uint32](d, start+2, "underworld unit attribute bonus", 0)
		un.Level = wire.Soft[uint16](d, start+3, "underworld unit level", 0)
	}

	souls := &u.Production[UnderworldSouls]
	souls.LastCollectable = wire.Soft[uint64](d, towerSoulsCollect, "underworld souls collectable", 0)
	souls.Limit = wire.Soft[uint64](d, towerSoulsLimit, "underworld souls building limit", 0)
	souls.PerHour = wire.Soft[uint64](d, towerSoulsPerHour, "underworld souls per hour", 0)
	u.SoulsLimit = wire.Soft[uint64](d, towerSoulsStored, "underworld souls limit", 0)

	silver := &u.Production[UnderworldSilver]
	silver.LastCollectable = wire.Soft[uint64](d, towerSilverCollect, "underworld silver collectable", 0)
	silver.Limit = wire.Soft[uint64](d, towerSilverLimit, "underworld silver limit", 0)
	silver.PerHour = wire.Soft[uint64](d, towerSilverPerHour, "underworld silver per hour", 0)

	thirst := &u.Production[UnderworldThirstForAdventure]
	thirst.LastCollectable = wire.Soft[uint64](d, towerThirstCollect, "underworld thirst collectable", 0)
	thirst.Limit = wire.Soft[uint64](d, towerThirstLimit, "underworld thirst limit", 0)

	u.LastCollectableUpdate = st.ConvertAt(d, towerLastCollect, "underworld last collect")
	u.UpgradeBuilding = nil
	if code, ok := d.At(towerUpgradeBuilding, "underworld upgrade building"); ok {
		if b, ok := UnderworldBuildingFromCode(code - 1); ok {
			u.UpgradeBuilding = &b
		}
	}
	u.UpgradeFinish = st.ConvertAt(d, towerUpgradeFinish, "underworld upgrade finish")
	u.UpgradeBegin = st.ConvertAt(d, towerUpgradeBegin, "underworld upgrade begin")
	u.TotalLevel = wire.Soft[uint16](d, towerTotalLevel, "underworld total level", 0)
	u.LuredToday = wire.Soft[uint16](d, towerLuredToday, "underworld lured today", 0)
}

// updateBuildingPrices decodes underworldprice: [seconds, silver, souls] per
// building.
func (u *Underworld) updateBuildingPrices(d wire.Ints) error {
	for i := range u.Buildings {
		w, err := d.Skip(i*underworldCostSize, "underworld building price")
		if err != nil {
			return err
		}
		secs, err := w.Get(0, "underworld building price")
		if err != nil {
			return err
		}
		u.Buildings[i].UpgradeCost = UnderworldCost{
			Time:   time.Duration(secs) * time.Second,
			Silver: wire.Soft[uint64](w, 1, "underworld silver cost", math.MaxUint64),
			Souls:  wire.Soft[uint64](w, 2, "underworld souls cost", math.MaxUint64),
		}
	}
	return nil
}

// updateUnitPrices decodes underworldupgradeprice: [next level, silver,
// souls] per unit type.
func (u *Underworld) updateUnitPrices(d wire.Ints) {
	for i := range u.Units {
		u.Units[i].UpgradePrice = UnderworldUnitUpgrade{
			NextLevel: wire.Soft[uint16](d, i*underworldCostSize, "underworld unit next level", 0),
			Silver:    wire.Soft[uint32](d, i*underworldCostSize+1, "underworld unit silver", 0),
			Souls:     wire.Soft[uint32](d, i*underworldCostSize+2, "underworld unit souls", 0),
		}
	}
}
