package gamestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sfstate/internal/wire"
)

func TestParseItem(t *testing.T) {
	t.Parallel()

	rec := wire.Ints{3<<24 | int64(ItemWeapon), 2005, 10, 20, 1, 1, 0, 5, 7, 0, 100, 2}
	item, err := parseItem(rec)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, ItemWeapon, item.Type)
	assert.Equal(t, uint8(3), item.Enchantment)
	assert.Equal(t, uint16(5), item.ModelID)
	assert.Equal(t, Class(1), item.Class)
	assert.Equal(t, int64(10), item.PrimaryValue)
	assert.Equal(t, int64(20), item.SecondaryVal)
	assert.Equal(t, uint32(12), item.Attributes[0], "repeated attribute codes add up")
	assert.Equal(t, uint32(100), item.Price)
	assert.Equal(t, uint32(2), item.MushroomPrice)
}

func TestParseItem_Edges(t *testing.T) {
	t.Parallel()

	empty, err := parseItem(make(wire.Ints, ItemStride))
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = parseItem(make(wire.Ints, ItemStride-1))
	var perr *wire.ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "item record", perr.Label)

	odd, err := parseItem(wire.Ints{200, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, ItemUnknown, odd.Type)
}

func TestParseShop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []int64
		wantErr bool
	}{
		{"six items", shopRecords(ItemShield), false},
		{"trailing data ignored", append(shopRecords(ItemShield), 9, 9, 9), false},
		{"short", shopRecords(ItemShield)[:5*ItemStride+3], true},
		{"empty slot", append(shopRecords(ItemShield)[:5*ItemStride], make([]int64, ItemStride)...), true},
		{"unknown type", append(shopRecords(ItemShield)[:5*ItemStride], itemRecord(ItemType(200), 1)...), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			shop, err := ParseShop(tt.in)
			if tt.wantErr {
				var perr *wire.ParsingError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			for i, item := range shop {
				assert.Equal(t, ItemShield, item.Type)
				assert.Equal(t, uint16(i+1), item.ModelID)
			}
		})
	}
}

func TestParseEquipment_PartiallyFilled(t *testing.T) {
	t.Parallel()

	d := make(wire.Ints, EquipmentSlots*ItemStride)
	copy(d[4*ItemStride:], itemRecord(ItemHat, 9))
	eq, err := parseEquipment(d)
	require.NoError(t, err)
	for i, it := range eq {
		if i == 4 {
			require.NotNil(t, it)
			assert.Equal(t, ItemHat, it.Type)
			continue
		}
		assert.Nil(t, it)
	}

	_, err = parseEquipment(d[:EquipmentSlots*ItemStride-1])
	require.Error(t, err)
}

func TestPetItemFromCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int64
		want PetItem
		ok   bool
	}{
		{1, PetItem{Kind: PetEgg, Habitat: HabitatType(0)}, true},
		{15, PetItem{Kind: PetSpecialEgg, Habitat: HabitatType(4)}, true},
		{21, PetItem{Kind: PetGoldenEgg, Habitat: HabitatUnknown}, true},
		{33, PetItem{Kind: PetFruit, Habitat: HabitatType(2)}, true},
		{6, PetItem{}, false},
	}
	for _, tt := range tests {
		got, ok := PetItemFromCode(tt.code)
		assert.Equal(t, tt.ok, ok, "code %d", tt.code)
		if tt.ok {
			assert.Equal(t, tt.want, got, "code %d", tt.code)
		}
	}
}
