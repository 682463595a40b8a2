package gamestate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sfstate/internal/wire"
)

func TestUnderworld_TowerOffsets(t *testing.T) {
	t.Parallel()

	d := make(wire.Ints, 480)
	copy(d[146:], []int64{5, 12, 300, 40})
	copy(d[146+148:], []int64{1, 3, 70, 9})
	copy(d[146+2*148:], []int64{2, 1, 15, 6})
	for i := 0; i < 10; i++ {
		d[448+i] = int64(i + 1)
	}
	copy(d[459:], []int64{
		100, 1000, 5000, 0, 25,
		200, 2000, 50,
		serverNow - 60,
		4,
		serverNow + 3600, serverNow - 60,
		27, 3,
		8, 10,
	})

	u := &Underworld{}
	u.update(d, wire.NewServerTime(0, time.UTC))

	assert.Equal(t, UnderworldUnits{UpgradedAmount: 5, Count: 12, AtrBonus: 300, Level: 40}, u.Units[UnitGoblin])
	assert.Equal(t, UnderworldUnits{UpgradedAmount: 1, Count: 3, AtrBonus: 70, Level: 9}, u.Units[UnitTroll])
	assert.Equal(t, UnderworldUnits{UpgradedAmount: 2, Count: 1, AtrBonus: 15, Level: 6}, u.Units[UnitKeeper])

	buildings := []struct {
		b    UnderworldBuildingType
		want uint8
	}{
		{HeartOfDarkness, 1},
		{GoldPit, 3},
		{SoulExtractor, 4},
		{Adventuromatic, 9},
		{UnderworldKeeper, 10},
	}
	for _, tt := range buildings {
		assert.Equal(t, tt.want, u.Buildings[tt.b].Level, "building %d", tt.b)
	}

	souls := u.Production[UnderworldSouls]
	assert.Equal(t, uint64(100), souls.LastCollectable)
	assert.Equal(t, uint64(1000), souls.Limit)
	assert.Equal(t, uint64(25), souls.PerHour)
	assert.Equal(t, uint64(5000), u.SoulsLimit)

	silver := u.Production[UnderworldSilver]
	assert.Equal(t, uint64(200), silver.LastCollectable)
	assert.Equal(t, uint64(2000), silver.Limit)
	assert.Equal(t, uint64(50), silver.PerHour)

	thirst := u.Production[UnderworldThirstForAdventure]
	assert.Equal(t, uint64(8), thirst.LastCollectable)
	assert.Equal(t, uint64(10), thirst.Limit)

	assert.Equal(t, int64(serverNow-60), u.LastCollectableUpdate.Unix())
	require.NotNil(t, u.UpgradeBuilding)
	assert.Equal(t, SoulExtractor, *u.UpgradeBuilding)
	assert.Equal(t, int64(serverNow+3600), u.UpgradeFinish.Unix())
	assert.Equal(t, int64(serverNow-60), u.UpgradeBegin.Unix())
	assert.Equal(t, uint16(27), u.TotalLevel)
	assert.Equal(t, uint16(3), u.LuredToday)
}

func TestUnderworld_NoUpgradeBuilding(t *testing.T) {
	t.Parallel()

	b := GoldPit
	u := &Underworld{UpgradeBuilding: &b}
	u.update(make(wire.Ints, 480), wire.NewServerTime(0, time.UTC))
	assert.Nil(t, u.UpgradeBuilding)
	assert.True(t, u.UpgradeFinish.IsZero())
}

func TestUnderworld_BuildingPricesDefaultToUnaffordable(t *testing.T) {
	t.Parallel()

	d := make(wire.Ints, 28)
	copy(d, []int64{60, -1, 300})
	copy(d[3:], []int64{120, 500, 40})
	d[27] = 90

	u := &Underworld{}
	require.NoError(t, u.updateBuildingPrices(d))

	assert.Equal(t, UnderworldCost{Time: time.Minute, Silver: math.MaxUint64, Souls: 300}, u.Buildings[0].UpgradeCost)
	assert.Equal(t, UnderworldCost{Time: 2 * time.Minute, Silver: 500, Souls: 40}, u.Buildings[1].UpgradeCost)
	assert.Equal(t, UnderworldCost{Time: 90 * time.Second, Silver: math.MaxUint64, Souls: math.MaxUint64}, u.Buildings[9].UpgradeCost)

	err := u.updateBuildingPrices(d[:26])
	var perr *wire.ParsingError
	require.ErrorAs(t, err, &perr)
}

func TestUpdate_OwnTower(t *testing.T) {
	t.Parallel()

	d := make([]int64, 480)
	for i := 0; i < companionCount; i++ {
		start := 3 + i*148
		d[start] = int64(200 + i)
		for a := 0; a < 5; a++ {
			d[start+4+a] = int64(10*(i+1) + a)
		}
	}
	copy(d[3+22:], itemRecord(ItemHat, 4))
	d[471] = 27

	s := loggedIn()
	require.NoError(t, s.Update(resp(
		"owntower", join(d),
		"ranklistunderworld", "1,Foo,Bar,30,500,0",
	)))

	require.NotNil(t, s.Dungeons.Companions)
	comps := s.Dungeons.Companions
	for i := 0; i < companionCount; i++ {
		assert.Equal(t, int64(200+i), comps[i].Level)
		assert.Equal(t, uint32(10*(i+1)), comps[i].Attributes[0])
		assert.Equal(t, uint32(10*(i+1)+4), comps[i].Attributes[4])
	}
	require.NotNil(t, comps[0].Equipment[0])
	assert.Equal(t, ItemHat, comps[0].Equipment[0].Type)
	assert.Nil(t, comps[1].Equipment[0])

	require.True(t, s.Underworld.Present())
	assert.Equal(t, uint16(27), s.Underworld.Get().TotalLevel)
}
