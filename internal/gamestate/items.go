package gamestate

import (
	"fmt"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// Record strides and fixed cardinalities of item collections.
const (
	ItemStride     = 12
	EquipmentSlots = 10
	BagSlots       = 5
	ShopSlots      = 6
	PotionSlots    = 3
)

// ItemType is the low byte of an item record's first integer. 0 is an empty slot.
type ItemType uint8

const (
	ItemNone ItemType = iota
	ItemWeapon
	ItemShield
	ItemBreastPlate
	ItemFootWear
	ItemGloves
	ItemHat
	ItemBelt
	ItemAmulet
	ItemRing
	ItemTalisman
	ItemUnique
	ItemPotion
	ItemScrapbook
	_
	ItemGem
	ItemPetItem
	ItemQuickSandGlass

	ItemUnknown ItemType = 255
)

// ItemTypeFromCode maps the raw type byte.
func ItemTypeFromCode(code int64) (ItemType, bool) {
	switch {
	case code >= int64(ItemWeapon) && code <= int64(ItemScrapbook),
		code >= int64(ItemGem) && code <= int64(ItemQuickSandGlass):
		return ItemType(code), true
	}
	return ItemUnknown, false
}

// Item is one 12-integer item record.
//
//	[0]     type (low byte), enchantment (bits 24..31)
//	[1]     class*1000 + model id (class 0 = any class)
//	[2] [3] armor or min damage / max damage
//	[4..6]  attribute codes (1-based AttributeType)
//	[7..9]  attribute values
//	[10]    silver price
//	[11]    mushroom price
type Item struct {
	Type          ItemType   `json:"type"`
	Enchantment   uint8      `json:"enchantment,omitempty"`
	ModelID       uint16     `json:"model_id"`
	Class         Class      `json:"class"`
	PrimaryValue  int64      `json:"primary_value"`
	SecondaryVal  int64      `json:"secondary_value"`
	Attributes    Attributes `json:"attributes"`
	Price         uint32     `json:"price"`
	MushroomPrice uint32     `json:"mushroom_price"`
}

// parseItem decodes one item record. A short record is a hard failure; an
// empty slot returns (nil, nil).
func parseItem(d wire.Ints) (*Item, error) {
	if len(d) < ItemStride {
		return nil, wire.NewParsingError("item record", fmt.Sprintf("%v", []int64(d)))
	}
	code := d[0] & 0xFF
	if code == 0 {
		return nil, nil
	}

	item := &Item{
		Type:          wire.Enum(code, "item type", ItemTypeFromCode, ItemUnknown),
		Enchantment:   uint8(d[0] >> 24 & 0xFF),
		ModelID:       wire.Narrow[uint16](d[1]%1000, "item model", 0),
		Class:         ClassUnknown,
		PrimaryValue:  d[2],
		SecondaryVal:  d[3],
		Price:         wire.Narrow[uint32](d[10], "item price", 0),
		MushroomPrice: wire.Narrow[uint32](d[11], "item mushroom price", 0),
	}
	if cls := d[1] / 1000; cls > 0 {
		item.Class = wire.Enum(cls-1, "item class", ClassFromCode, ClassUnknown)
	}
	for i := 0; i < 3; i++ {
		code := d[4+i]
		if code == 0 {
			continue
		}
		attr, ok := AttributeFromCode(code)
		if !ok {
			continue
		}
		item.Attributes[attr] += wire.Narrow[uint32](d[7+i], "item attribute", 0)
	}
	return item, nil
}

// Equipment is the set of worn items, one slot per equipment position.
type Equipment [EquipmentSlots]*Item

func parseEquipment(d wire.Ints) (Equipment, error) {
	var eq Equipment
	for i := range eq {
		w, err := d.Skip(i*ItemStride, "equipment slot")
		if err != nil {
			return eq, err
		}
		item, err := parseItem(w)
		if err != nil {
			return eq, err
		}
		eq[i] = item
	}
	return eq, nil
}

// Bag is the fixed-size inventory bag.
type Bag [BagSlots]*Item

// Shop is a fixed set of six offers. Every slot must hold an item.
type Shop [ShopSlots]Item

// ParseShop decodes six item records. Any short, empty or otherwise broken
// record fails the whole shop.
func ParseShop(d wire.Ints) (Shop, error) {
	items := make([]Item, 0, ShopSlots)
	for i := 0; i < ShopSlots; i++ {
		w, err := d.Skip(i*ItemStride, "shop item")
		if err != nil {
			return Shop{}, err
		}
		item, err := parseItem(w)
		if err != nil {
			return Shop{}, err
		}
		if item == nil || item.Type == ItemUnknown {
			return Shop{}, wire.NewParsingError("shop item", fmt.Sprintf("%v", []int64(w[:ItemStride])))
		}
		items = append(items, *item)
	}
	if len(items) != ShopSlots {
		return Shop{}, wire.NewParsingError("shop", len(items))
	}
	var shop Shop
	copy(shop[:], items)
	return shop, nil
}

// ShopType selects one of the two shops.
type ShopType uint8

const (
	WeaponShop ShopType = iota
	MagicShop
)

// PotionType is the effect of a potion.
type PotionType uint8

const (
	PotionStrength PotionType = iota
	PotionDexterity
	PotionIntelligence
	PotionConstitution
	PotionLuck
	PotionEternalLife

	PotionUnknown PotionType = 255
)

// PotionSize of an active potion.
type PotionSize uint8

const (
	PotionSmall PotionSize = iota
	PotionMedium
	PotionLarge
)

// Potion is an active potion effect.
type Potion struct {
	Type    PotionType `json:"type"`
	Size    PotionSize `json:"size"`
	Expires time.Time  `json:"expires"`
	Effect  uint32     `json:"effect"`
}

// potionFromCode: 1..15 are the five attribute potions in three sizes,
// 16 is eternal life.
func potionFromCode(code int64) (PotionType, PotionSize, bool) {
	switch {
	case code == 16:
		return PotionEternalLife, PotionLarge, true
	case code >= 1 && code <= 15:
		return PotionType((code - 1) % 5), PotionSize((code - 1) / 5), true
	}
	return PotionUnknown, PotionSmall, false
}

// parseActivePotions reads three type codes, three expiry epochs and three
// effect values.
func parseActivePotions(d wire.Ints, st wire.ServerTime) [PotionSlots]*Potion {
	var res [PotionSlots]*Potion
	for i := range res {
		code := wire.Soft[int64](d, i, "potion type", 0)
		if code == 0 {
			continue
		}
		typ, size, ok := potionFromCode(code)
		if !ok {
			typ = wire.Enum(code, "potion type", func(int64) (PotionType, bool) { return PotionUnknown, false }, PotionUnknown)
		}
		res[i] = &Potion{
			Type:    typ,
			Size:    size,
			Expires: st.ConvertAt(d, PotionSlots+i, "potion expires"),
			Effect:  wire.Soft[uint32](d, 2*PotionSlots+i, "potion effect", 0),
		}
	}
	return res
}

// PetItemKind is what a pet item reward is.
type PetItemKind uint8

const (
	PetEgg PetItemKind = iota + 1
	PetSpecialEgg
	PetGoldenEgg
	PetNest
	PetFruit
)

// PetItem is a pet related reward. Habitat is meaningful for eggs and fruits.
type PetItem struct {
	Kind    PetItemKind `json:"kind"`
	Habitat HabitatType `json:"habitat,omitempty"`
}

// PetItemFromCode: 1..5 eggs, 11..15 special eggs, 21 golden egg, 22 nest,
// 31..35 fruits. The habitat is the last digit.
func PetItemFromCode(code int64) (PetItem, bool) {
	switch {
	case code >= 1 && code <= 5:
		return PetItem{Kind: PetEgg, Habitat: HabitatType(code - 1)}, true
	case code >= 11 && code <= 15:
		return PetItem{Kind: PetSpecialEgg, Habitat: HabitatType(code - 11)}, true
	case code == 21:
		return PetItem{Kind: PetGoldenEgg, Habitat: HabitatUnknown}, true
	case code == 22:
		return PetItem{Kind: PetNest, Habitat: HabitatUnknown}, true
	case code >= 31 && code <= 35:
		return PetItem{Kind: PetFruit, Habitat: HabitatType(code - 31)}, true
	}
	return PetItem{}, false
}
