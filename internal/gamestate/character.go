package gamestate

import (
	"encoding/base64"
	"log/slog"
	"math/bits"
	"strings"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// Character is the own player.
type Character struct {
	PlayerID    uint32 `json:"player_id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Level       uint16 `json:"level"`
	Experience  uint64 `json:"experience"`
	NextLevelXP uint64 `json:"next_level_xp"`
	Honor       uint32 `json:"honor"`
	Rank        uint32 `json:"rank"`

	Class    Class    `json:"class"`
	Race     Race     `json:"race"`
	Portrait Portrait `json:"portrait"`
	Mirror   Mirror   `json:"mirror"`

	AttributeBasis       Attributes `json:"attribute_basis"`
	AttributeAdditions   Attributes `json:"attribute_additions"`
	AttributeTimesBought Attributes `json:"attribute_times_bought"`

	Armor     uint64 `json:"armor"`
	MinDamage uint32 `json:"min_damage"`
	MaxDamage uint32 `json:"max_damage"`

	Equipment     Equipment            `json:"equipment"`
	Bag           Bag                  `json:"bag"`
	FortressChest []Item               `json:"fortress_chest,omitempty"`
	Mannequin     *Equipment           `json:"mannequin,omitempty"`
	ActivePotions [PotionSlots]*Potion `json:"active_potions"`

	Mount             Mount     `json:"mount"`
	MountEnd          time.Time `json:"mount_end"`
	MountDragonRefund uint64    `json:"mount_dragon_refund"`

	Silver    uint64 `json:"silver"`
	Mushrooms uint32 `json:"mushrooms"`

	DruidMask      DruidMask      `json:"druid_mask"`
	BardInstrument BardInstrument `json:"bard_instrument"`

	Scrapbook *Scrapbook      `json:"scrapbook,omitempty"`
	Relations []RelationEntry `json:"relations,omitempty"`
}

// Portrait is the character face. It occupies ten consecutive integers,
// followed by the race/gender word.
type Portrait struct {
	HairColor  uint8  `json:"hair_color"`
	Hair       uint8  `json:"hair"`
	Mouth      uint8  `json:"mouth"`
	Brows      uint8  `json:"brows"`
	Eyes       uint8  `json:"eyes"`
	BeardColor uint8  `json:"beard_color"`
	Beard      uint8  `json:"beard"`
	Nose       uint8  `json:"nose"`
	Ears       uint8  `json:"ears"`
	Extra      uint8  `json:"extra"`
	Horns      uint8  `json:"horns"`
	Special    int64  `json:"special"`
	Gender     Gender `json:"gender"`
}

// PortraitSize is the number of integers the face occupies, excluding the
// race/gender word that follows it.
const PortraitSize = 10

// parsePortrait reads the face block and the race/gender word after it.
// Colors are stored as the hundreds of hair and beard.
func parsePortrait(d wire.Ints) Portrait {
	face := func(i int, label string) uint8 {
		return wire.SoftMap[uint8](d, i, label, 0, func(v int64) int64 { return v % 100 })
	}
	color := func(i int, label string) uint8 {
		return wire.SoftMap[uint8](d, i, label, 0, func(v int64) int64 { return v / 100 })
	}
	p := Portrait{
		Mouth:      face(0, "portrait mouth"),
		HairColor:  color(1, "portrait hair color"),
		Hair:       face(1, "portrait hair"),
		Brows:      face(2, "portrait brows"),
		Eyes:       face(3, "portrait eyes"),
		BeardColor: color(4, "portrait beard color"),
		Beard:      face(4, "portrait beard"),
		Nose:       face(5, "portrait nose"),
		Ears:       face(6, "portrait ears"),
		Extra:      face(7, "portrait extra"),
		Horns:      face(8, "portrait horns"),
		Special:    wire.Soft[int64](d, 9, "portrait special", 0),
	}
	if wire.SoftMap[uint8](d, PortraitSize, "portrait gender", 0, func(v int64) int64 { return v >> 8 & 0xFF }) == 2 {
		p.Gender = Female
	}
	return p
}

// Mirror is the progress of the mirror side quest.
type Mirror struct {
	Pieces   uint8 `json:"pieces"`
	Complete bool  `json:"complete"`
}

// parseMirror: bits 16..28 flag collected pieces, bit 8 marks completion.
func parseMirror(v int64) Mirror {
	return Mirror{
		Pieces:   uint8(bits.OnesCount64(uint64(v>>16) & 0x1FFF)),
		Complete: v&(1<<8) != 0,
	}
}

// Mount is the rented mount.
type Mount uint8

const (
	MountNone Mount = iota
	MountCow
	MountHorse
	MountTiger
	MountDragon

	MountUnknown Mount = 255
)

// MountFromCode maps the mount byte.
func MountFromCode(code int64) (Mount, bool) {
	if code < int64(MountNone) || code > int64(MountDragon) {
		return MountUnknown, false
	}
	return Mount(code), true
}

// DruidMask is the druid transformation.
type DruidMask uint8

const (
	DruidMaskNone DruidMask = 0
	DruidMaskCat  DruidMask = 4
	DruidMaskBird DruidMask = 5

	DruidMaskUnknown DruidMask = 255
)

// DruidMaskFromCode maps the druid mask code.
func DruidMaskFromCode(code int64) (DruidMask, bool) {
	switch code {
	case 0, 4, 5:
		return DruidMask(code), true
	}
	return DruidMaskUnknown, false
}

// BardInstrument is the equipped bard instrument.
type BardInstrument uint8

const (
	InstrumentNone BardInstrument = iota
	InstrumentHarp
	InstrumentLute
	InstrumentFlute

	InstrumentUnknown BardInstrument = 255
)

// BardInstrumentFromCode maps the instrument code.
func BardInstrumentFromCode(code int64) (BardInstrument, bool) {
	if code < int64(InstrumentNone) || code > int64(InstrumentFlute) {
		return InstrumentUnknown, false
	}
	return BardInstrument(code), true
}

// Scrapbook is the collection album as a bitset, one bit per entry, most
// significant bit first.
type Scrapbook struct {
	Bits []byte `json:"bits"`
}

// ParseScrapbook decodes the base64 album. Broken input yields nil.
func ParseScrapbook(raw string) *Scrapbook {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		slog.Warn("scrapbook is not valid base64", "field", "scrapbook", "error", err)
		return nil
	}
	return &Scrapbook{Bits: b}
}

// Has reports whether entry idx is collected.
func (s *Scrapbook) Has(idx int) bool {
	if s == nil || idx < 0 || idx/8 >= len(s.Bits) {
		return false
	}
	return s.Bits[idx/8]&(0x80>>(idx%8)) != 0
}

// Count is the number of collected entries.
func (s *Scrapbook) Count() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, b := range s.Bits {
		n += bits.OnesCount8(b)
	}
	return n
}

// RelationEntry is one friend list line.
type RelationEntry struct {
	ID           uint32       `json:"id"`
	Name         string       `json:"name"`
	Guild        string       `json:"guild"`
	Level        uint16       `json:"level"`
	Relationship Relationship `json:"relationship"`
}
