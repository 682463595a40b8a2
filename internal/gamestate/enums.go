package gamestate

// Class of a character. Ordinals are the 0-based wire codes; the server
// sends them 1-based in most places.
type Class uint8

const (
	Warrior Class = iota
	Mage
	Scout
	Assassin
	BattleMage
	Berserker
	DemonHunter
	Druid
	Bard
	Necromancer

	ClassUnknown Class = 255
)

var classNames = [...]string{
	"Warrior", "Mage", "Scout", "Assassin", "BattleMage",
	"Berserker", "DemonHunter", "Druid", "Bard", "Necromancer",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "Unknown"
}

// ClassFromCode maps a 0-based class code.
func ClassFromCode(code int64) (Class, bool) {
	if code < 0 || code > int64(Necromancer) {
		return ClassUnknown, false
	}
	return Class(code), true
}

// Race of a character. Wire codes are 1-based and used as-is.
type Race uint8

const (
	RaceUnknown Race = iota
	Human
	Elf
	Dwarf
	Gnome
	Orc
	DarkElf
	Goblin
	Demon
)

// RaceFromCode maps a raw race code.
func RaceFromCode(code int64) (Race, bool) {
	if code < int64(Human) || code > int64(Demon) {
		return RaceUnknown, false
	}
	return Race(code), true
}

// Gender of the portrait.
type Gender uint8

const (
	Male Gender = iota
	Female
)

// AttributeType indexes every attribute table. The ordinal is the position
// inside each 5-wide block of the save array; do not reorder.
type AttributeType uint8

const (
	Strength AttributeType = iota
	Dexterity
	Intelligence
	Constitution
	Luck

	attributeCount = 5
)

// Attributes is an attribute table indexed by AttributeType.
type Attributes [attributeCount]uint32

// AttributeFromCode maps a 1-based attribute code.
func AttributeFromCode(code int64) (AttributeType, bool) {
	if code < 1 || code > attributeCount {
		return 0, false
	}
	return AttributeType(code - 1), true
}

// HabitatType is a pet element. Ordinal order matches the fruit and pet
// blocks on the wire; the type id the server uses is ordinal+1.
type HabitatType uint8

const (
	Shadow HabitatType = iota
	Light
	Earth
	Fire
	Water

	habitatCount = 5

	HabitatUnknown HabitatType = 255
)

// HabitatFromTypeID maps a 1-based habitat id.
func HabitatFromTypeID(id int64) (HabitatType, bool) {
	if id < 1 || id > habitatCount {
		return HabitatUnknown, false
	}
	return HabitatType(id - 1), true
}

// Location is a quest/expedition region. Wire codes are 1-based.
type Location uint8

const (
	LocationUnknown Location = iota
	SprawlingJungle
	SkullIsland
	EvernightForest
	StumbleSteppe
	ShadowrockMountain
	SplitCanyon
	BlackWaterSwamp
	FloodedCaldwell
	TuskMountain
	MoldyForest
	Nevermoor
	BustedLands
	Erogenion
	Magmaron
	SunburnDesert
	Gnarogrim
	Northrunt
	BlackForest
	Maerwynn
	PlainsOfOzKorr
	RottenLands
)

// LocationFromCode maps a raw location code.
func LocationFromCode(code int64) (Location, bool) {
	if code < int64(SprawlingJungle) || code > int64(RottenLands) {
		return LocationUnknown, false
	}
	return Location(code), true
}

// Relationship with another player.
type Relationship int8

const (
	Ignored    Relationship = -1
	NoRelation Relationship = 0
	Friend     Relationship = 1
)

// RelationshipFromCode maps -1/0/1.
func RelationshipFromCode(code int64) (Relationship, bool) {
	switch code {
	case -1, 0, 1:
		return Relationship(code), true
	}
	return NoRelation, false
}
