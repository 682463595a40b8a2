package gamestate

import (
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// FortressBuildingType indexes the fortress building table. The ordinal is
// the position in the save array building run.
type FortressBuildingType uint8

const (
	BuildingFortress FortressBuildingType = iota
	BuildingLaborersQuarters
	BuildingWoodcuttersHut
	BuildingQuarry
	BuildingGemMine
	BuildingAcademy
	BuildingArcheryGuild
	BuildingBarracks
	BuildingMagesTower
	BuildingTreasury
	BuildingSmithy
	BuildingWall

	fortressBuildingCount = 12
)

// FortressBuildingFromCode maps a 0-based building code.
func FortressBuildingFromCode(code int64) (FortressBuildingType, bool) {
	if code < 0 || code >= fortressBuildingCount {
		return 0, false
	}
	return FortressBuildingType(code), true
}

// FortressResourceType indexes the resource table.
type FortressResourceType uint8

const (
	ResourceWood FortressResourceType = iota
	ResourceStone
	ResourceExperience

	fortressResourceCount = 3
)

// FortressUnitType indexes the unit table.
type FortressUnitType uint8

const (
	UnitSoldier FortressUnitType = iota
	UnitMagician
	UnitArcher

	fortressUnitCount = 3
)

// Fortress is the fortress, present once unlocked.
type Fortress struct {
	Buildings [fortressBuildingCount]FortressBuilding `json:"buildings"`
	Units     [fortressUnitCount]FortressUnit         `json:"units"`
	Resources [fortressResourceCount]FortressResource `json:"resources"`

	LastCollectableUpdated time.Time `json:"last_collectable_updated"`
	BuildingMaxLevel       uint8     `json:"building_max_level"`
	WallCombatLevel        uint16    `json:"wall_combat_level"`

	UpgradeBuilding *FortressBuildingType `json:"upgrade_building,omitempty"`
	UpgradeFinish   time.Time             `json:"upgrade_finish"`
	UpgradeBegin    time.Time             `json:"upgrade_begin"`

	Upgrades uint16 `json:"upgrades"`
	Honor    uint32 `json:"honor"`
	Rank     uint32 `json:"rank"`

	GemSearch                 GemSearch    `json:"gem_search"`
	HallOfKnightsUpgradePrice FortressCost `json:"hall_of_knights_upgrade_price"`
	OpponentRerollPrice       uint64       `json:"opponent_reroll_price"`
}

// FortressBuilding is one building and the cost of its next level.
type FortressBuilding struct {
	Level       uint16       `json:"level"`
	UpgradeCost FortressCost `json:"upgrade_cost"`
}

// FortressUnit is one unit type.
type FortressUnit struct {
	Count        uint16           `json:"count"`
	Level        uint16           `json:"level"`
	TrainingCost FortressCost     `json:"training_cost"`
	UpgradePrice FortressUnitCost `json:"upgrade_price"`
}

// FortressUnitCost is the price of the next unit level.
type FortressUnitCost struct {
	NextLevel uint16 `json:"next_level"`
	Wood      uint32 `json:"wood"`
	Stone     uint32 `json:"stone"`
}

// FortressResource is a stored resource and its production.
type FortressResource struct {
	Current    uint64             `json:"current"`
	Limit      uint64             `json:"limit"`
	Production FortressProduction `json:"production"`
}

// FortressProduction describes the building producing a resource.
type FortressProduction struct {
	LastCollectable uint64 `json:"last_collectable"`
	Limit           uint64 `json:"limit"`
	PerHour         uint64 `json:"per_hour"`
	PerHourNextLvl  uint64 `json:"per_hour_next_lvl"`
}

// FortressCost is the price of one build or upgrade.
type FortressCost struct {
	Time   time.Duration `json:"time"`
	Wood   uint64        `json:"wood"`
	Stone  uint64        `json:"stone"`
	Silver uint64        `json:"silver"`
}

// fortressCostSize: seconds, silver, wood, stone.
const fortressCostSize = 4

// ParseFortressCost decodes one 4-integer cost record.
func ParseFortressCost(d wire.Ints) (FortressCost, error) {
	secs, err := d.Get(0, "fortress cost time")
	if err != nil {
		return FortressCost{}, err
	}
	return FortressCost{
		Time:   time.Duration(wire.Narrow[int64](secs, "fortress cost time", 0)) * time.Second,
		Silver: wire.Soft[uint64](d, 1, "fortress cost silver", 0),
		Wood:   wire.Soft[uint64](d, 2, "fortress cost wood", 0),
		Stone:  wire.Soft[uint64](d, 3, "fortress cost stone", 0),
	}, nil
}

// GemSearch is the running gem mine search.
type GemSearch struct {
	Target int64     `json:"target"`
	Finish time.Time `json:"finish"`
	Begin  time.Time `json:"begin"`
}

// Save array layout of the fortress block.
const (
	saveFortressBuildings      = 524
	saveFortressUnitCounts     = 547
	saveFortressCollectable    = 562
	saveFortressProdLimit      = 565
	saveFortressStorageLimit   = 568
	saveFortressUpgradeBuild   = 571
	saveFortressUpgradeFinish  = 572
	saveFortressUpgradeBegin   = 573
	saveFortressPerHour        = 574
	saveFortressLastCollect    = 577
	saveFortressUpgrades       = 581
	saveFortressHonor          = 582
	saveFortressRank           = 583
	saveFortressGemTarget      = 594
	saveFortressGemFinish      = 595
	saveFortressGemBegin       = 596
	fortressStoredResourceRuns = 2
)

// updateFromSave decodes the fortress block of the player save array.
func (f *Fortress) updateFromSave(d wire.Ints, st wire.ServerTime) {
	for i := range f.Buildings {
		f.Buildings[i].Level = wire.Soft[uint16](d, saveFortressBuildings+i, "fortress building level", 0)
	}
	for i := range f.Units {
		f.Units[i].Count = wire.Soft[uint16](d, saveFortressUnitCounts+i, "fortress unit count", 0)
	}
	for i := range f.Resources {
		p := &f.Resources[i].Production
		p.LastCollectable = wire.Soft[uint64](d, saveFortressCollectable+i, "fortress collectable", 0)
		p.Limit = wire.Soft[uint64](d, saveFortressProdLimit+i, "fortress production limit", 0)
		p.PerHour = wire.Soft[uint64](d, saveFortressPerHour+i, "fortress per hour", 0)
	}
	// Experience has no storage.
	for i := 0; i < fortressStoredResourceRuns; i++ {
		f.Resources[i].Limit = wire.Soft[uint64](d, saveFortressStorageLimit+i, "fortress storage limit", 0)
	}

	f.UpgradeBuilding = nil
	if code := wire.Soft[int64](d, saveFortressUpgradeBuild, "fortress upgrade building", 0); code > 0 {
		b := wire.Enum(code-1, "fortress upgrade building", FortressBuildingFromCode, BuildingFortress)
		f.UpgradeBuilding = &b
	}
	f.UpgradeFinish = st.ConvertAt(d, saveFortressUpgradeFinish, "fortress upgrade finish")
	f.UpgradeBegin = st.ConvertAt(d, saveFortressUpgradeBegin, "fortress upgrade begin")
	f.LastCollectableUpdated = st.ConvertAt(d, saveFortressLastCollect, "fortress last collect")

	f.Upgrades = wire.Soft[uint16](d, saveFortressUpgrades, "fortress upgrades", 0)
	f.Honor = wire.Soft[uint32](d, saveFortressHonor, "fortress honor", 0)
	f.Rank = wire.Soft[uint32](d, saveFortressRank, "fortress rank", 0)

	f.GemSearch = GemSearch{
		Target: wire.Soft[int64](d, saveFortressGemTarget, "gem search target", 0),
		Finish: st.ConvertAt(d, saveFortressGemFinish, "gem search finish"),
		Begin:  st.ConvertAt(d, saveFortressGemBegin, "gem search begin"),
	}
}

// updateUnitPrices decodes unitprice: one cost record per unit type.
func (f *Fortress) updateUnitPrices(d wire.Ints) error {
	for i := range f.Units {
		w, err := d.Skip(i*fortressCostSize, "fortress unit price")
		if err != nil {
			return err
		}
		c, err := ParseFortressCost(w)
		if err != nil {
			return err
		}
		f.Units[i].TrainingCost = c
	}
	return nil
}

// updateUnitUpgrades decodes upgradeprice: [next level, wood, stone] per unit.
func (f *Fortress) updateUnitUpgrades(d wire.Ints) {
	for i := range f.Units {
		f.Units[i].UpgradePrice = FortressUnitCost{
			NextLevel: wire.Soft[uint16](d, 3*i, "unit next level", 0),
			Wood:      wire.Soft[uint32](d, 3*i+1, "unit upgrade wood", 0),
			Stone:     wire.Soft[uint32](d, 3*i+2, "unit upgrade stone", 0),
		}
	}
}

// updateUnitLevels decodes unitlevel: the wall level followed by one level
// per unit type.
func (f *Fortress) updateUnitLevels(d wire.Ints) {
	f.WallCombatLevel = wire.Soft[uint16](d, 0, "wall level", f.WallCombatLevel)
	for i := range f.Units {
		f.Units[i].Level = wire.Soft[uint16](d, 1+i, "unit level", 0)
	}
}

// updateBuildingPrices decodes fortressprice: one cost record per building.
func (f *Fortress) updateBuildingPrices(d wire.Ints) error {
	for i := range f.Buildings {
		w, err := d.Skip(i*fortressCostSize, "fortress building price")
		if err != nil {
			return err
		}
		if len(w) == 0 {
			break
		}
		c, err := ParseFortressCost(w)
		if err != nil {
			return err
		}
		f.Buildings[i].UpgradeCost = c
	}
	return nil
}

// parseItemList decodes consecutive item records, skipping empty slots.
func parseItemList(d wire.Ints) ([]Item, error) {
	out := make([]Item, 0, len(d)/ItemStride)
	for _, c := range d.Chunks(ItemStride) {
		it, err := parseItem(c)
		if err != nil {
			return nil, err
		}
		if it != nil {
			out = append(out, *it)
		}
	}
	return out, nil
}
