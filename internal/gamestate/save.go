package gamestate

import (
	"log/slog"

	"github.com/udisondev/sfstate/internal/wire"
)

// PlayerSaveMinLen is the shortest ownplayersave array that is decoded.
// Shorter arrays are skipped with a warning.
const PlayerSaveMinLen = 700

// FortressMinLevel is the character level the fortress block becomes
// meaningful at.
const FortressMinLevel = 25

// Player save array layout. Blocks owned by a sub-state (tavern, fortress,
// guild member table) keep their offsets next to their decoder.
const (
	savePlayerID              = 1
	savePlayerLevel           = 7
	savePlayerXP              = 8
	savePlayerNextXP          = 9
	savePlayerHonor           = 10
	savePlayerRank            = 11
	savePlayerPortrait        = 17
	savePlayerRace            = 27
	savePlayerMirror          = 28
	savePlayerClass           = 29
	savePlayerAttrBasis       = 30
	savePlayerAttrAdditions   = 35
	savePlayerAttrBought      = 40
	savePlayerEquipment       = 48
	savePlayerBag             = 168
	savePlayerMount           = 286
	savePlayerWeaponShop      = 288
	savePlayerMagicShop       = 361
	savePlayerGuildJoined     = 443
	savePlayerPortalBonus     = 445
	savePlayerArmor           = 447
	savePlayerMinDamage       = 448
	savePlayerMaxDamage       = 449
	savePlayerMountEnd        = 451
	savePlayerDungeonTimer    = 459
	savePlayerArenaNext       = 460
	savePlayerPotions         = 493
	savePlayerWheelSpins      = 579
	savePlayerWheelNext       = 580
	savePlayerEnemyIDs        = 599
	savePlayerTreasureSkill   = 623
	savePlayerInstructorSkill = 624
	savePlayerHydraNext       = 627
	savePlayerHydraFights     = 628
	savePlayerCalendar        = 648
	savePlayerCalendarNext    = 649
	savePlayerDiceNext        = 650
	savePlayerDiceRemaining   = 651
	savePlayerDruidMask       = 653
	savePlayerPetExploration  = 660
	savePlayerBardInstrument  = 701
)

// calendarCollectedUnset is what the collected counter reads as when the
// calendar word is missing.
const calendarCollectedUnset = 245

// updatePlayerSave decodes ownplayersave. Item blocks are the only hard
// failures; everything else degrades to defaults.
func (s *Snapshot) updatePlayerSave(d wire.Ints, st wire.ServerTime) error {
	if len(d) < PlayerSaveMinLen {
		slog.Warn("player save too short, skipping", "field", "ownplayersave", "value", len(d))
		return nil
	}
	c := &s.Character

	c.PlayerID = wire.Soft[uint32](d, savePlayerID, "player id", 0)
	c.Portrait = parsePortrait(d[savePlayerPortrait:])

	eqw, err := d.Skip(savePlayerEquipment, "equipment")
	if err != nil {
		return err
	}
	if c.Equipment, err = parseEquipment(eqw); err != nil {
		return err
	}

	c.Armor = wire.Soft[uint64](d, savePlayerArmor, "armor", 0)
	c.MinDamage = wire.Soft[uint32](d, savePlayerMinDamage, "min damage", 0)
	c.MaxDamage = wire.Soft[uint32](d, savePlayerMaxDamage, "max damage", 0)

	c.Level = wire.SoftMap[uint16](d, savePlayerLevel, "level", 0, func(v int64) int64 { return v & 0xFFFF })
	s.Arena.FightsForXP = wire.SoftMap[uint8](d, savePlayerLevel, "arena xp fights", 0, func(v int64) int64 { return v >> 16 })
	c.Experience = wire.Soft[uint64](d, savePlayerXP, "experience", 0)
	c.NextLevelXP = wire.Soft[uint64](d, savePlayerNextXP, "next level xp", 0)
	c.Honor = wire.Soft[uint32](d, savePlayerHonor, "honor", 0)
	c.Rank = wire.Soft[uint32](d, savePlayerRank, "rank", 0)
	c.Class = wire.Enum((d[savePlayerClass]&0xFF)-1, "class", ClassFromCode, ClassUnknown)
	c.Race = wire.Enum(d[savePlayerRace]&0xFF, "race", RaceFromCode, RaceUnknown)

	s.Tavern.updateFromSave(d, st)

	for i := range c.AttributeBasis {
		c.AttributeBasis[i] = wire.Soft[uint32](d, savePlayerAttrBasis+i, "attribute basis", 0)
		c.AttributeAdditions[i] = wire.Soft[uint32](d, savePlayerAttrAdditions+i, "attribute additions", 0)
		c.AttributeTimesBought[i] = wire.Soft[uint32](d, savePlayerAttrBought+i, "attribute times bought", 0)
	}

	c.Mount = wire.Enum(d[savePlayerMount]&0xFF, "mount", MountFromCode, MountUnknown)
	c.MountEnd = st.ConvertAt(d, savePlayerMountEnd, "mount end")

	for i := range c.Bag {
		w, err := d.Skip(savePlayerBag+i*ItemStride, "bag item")
		if err != nil {
			return err
		}
		if c.Bag[i], err = parseItem(w); err != nil {
			return err
		}
	}

	if c.Level >= FortressMinLevel {
		s.Fortress.Materialize().updateFromSave(d, st)
	}

	c.ActivePotions = parseActivePotions(d[savePlayerPotions:], st)
	s.Specials.Wheel.SpinsToday = wire.Soft[uint8](d, savePlayerWheelSpins, "wheel spins today", 0)
	s.Specials.Wheel.NextFreeSpin = st.ConvertAt(d, savePlayerWheelNext, "wheel next free spin")

	for i, base := range [...]int{savePlayerWeaponShop, savePlayerMagicShop} {
		w, err := d.Skip(base, "shop")
		if err != nil {
			return err
		}
		if s.Shops[i], err = ParseShop(w); err != nil {
			return err
		}
	}

	c.Mirror = parseMirror(d[savePlayerMirror])
	s.Arena.NextFreeFight = st.ConvertAt(d, savePlayerArenaNext, "arena next free fight")
	for i := range s.Arena.EnemyIDs {
		s.Arena.EnemyIDs[i] = wire.Soft[uint32](d, savePlayerEnemyIDs+i, "arena enemy id", 0)
	}

	s.Guild.Materialize().updateFromSave(d, st)
	s.Dungeons.NextFreeFight = st.ConvertAt(d, savePlayerDungeonTimer, "dungeon timer")
	s.Pets.Materialize().NextFreeExploration = st.ConvertAt(d, savePlayerPetExploration, "pet next exploration")
	s.Dungeons.Portal.Materialize().PlayerHPBonus = wire.SoftMap[uint16](d, savePlayerPortalBonus, "portal hp bonus", 0, func(v int64) int64 { return v >> 24 })

	c.DruidMask = wire.EnumAt(d, savePlayerDruidMask, "druid mask", DruidMaskFromCode, DruidMaskUnknown)
	c.BardInstrument = wire.EnumAt(d, savePlayerBardInstrument, "bard instrument", BardInstrumentFromCode, InstrumentUnknown)
	s.Specials.Calendar.Collected = wire.SoftMap[uint8](d, savePlayerCalendar, "calendar collected", calendarCollectedUnset, func(v int64) int64 { return v >> 16 })
	s.Specials.Calendar.NextPossible = st.ConvertAt(d, savePlayerCalendarNext, "calendar next")
	s.Tavern.DiceGame.NextFree = st.ConvertAt(d, savePlayerDiceNext, "dice next")
	s.Tavern.DiceGame.Remaining = wire.Soft[uint8](d, savePlayerDiceRemaining, "dice remaining", 0)
	return nil
}

// resources array layout.
const (
	resMushrooms  = 1
	resSilver     = 2
	resLuckyCoins = 3
	resHourglass  = 4
	resWood       = 5
	resStone      = 7
	resMetal      = 9
	resArcane     = 10
	resSouls      = 11
	resFruits     = 12
)

// updateResources decodes resources. It materializes every sub-state that
// stores one of the currencies.
func (s *Snapshot) updateResources(d wire.Ints) {
	s.Character.Mushrooms = wire.Soft[uint32](d, resMushrooms, "mushrooms", 0)
	s.Character.Silver = wire.Soft[uint64](d, resSilver, "silver", 0)
	s.Specials.Wheel.LuckyCoins = wire.Soft[uint32](d, resLuckyCoins, "lucky coins", 0)
	s.Tavern.QuicksandGlasses = wire.Soft[uint32](d, resHourglass, "quicksand glasses", 0)

	bs := s.Blacksmith.Materialize()
	bs.Metal = wire.Soft[uint64](d, resMetal, "metal", 0)
	bs.Arcane = wire.Soft[uint64](d, resArcane, "arcane", 0)

	f := s.Fortress.Materialize()
	f.Resources[ResourceWood].Current = wire.Soft[uint64](d, resWood, "wood", 0)
	f.Resources[ResourceStone].Current = wire.Soft[uint64](d, resStone, "stone", 0)

	pets := s.Pets.Materialize()
	for h := range pets.Habitats {
		pets.Habitats[h].Fruits = wire.Soft[uint16](d, resFruits+h, "fruits", 0)
	}

	s.Underworld.Materialize().SoulsCurrent = wire.Soft[uint64](d, resSouls, "souls", 0)
}
