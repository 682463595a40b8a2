package gamestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sfstate/internal/wire"
)

func TestParseAvailableExpeditions(t *testing.T) {
	t.Parallel()

	d := wire.Ints{
		22, 0, 0, 0, 1, 2, 900, 0,
		81, 0, 0, 0, 21, 3, 1200, 0,
	}
	got := parseAvailableExpeditions(d)
	require.Len(t, got, 2)
	assert.Equal(t, AvailableExpedition{Target: ThingDragon, ThirstForAdventure: 900, Location1: SprawlingJungle, Location2: SkullIsland}, got[0])
	assert.Equal(t, AvailableExpedition{Target: ThingSocks, ThirstForAdventure: 1200, Location1: RottenLands, Location2: EvernightForest}, got[1])

	tests := []struct {
		name string
		in   wire.Ints
		want int
	}{
		{"empty", nil, 0},
		{"trailing partial record", append(d[:8:8], 44, 0, 0), 1},
		{"unknown codes", wire.Ints{250, 0, 0, 0, 99, 0, 600, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, parseAvailableExpeditions(tt.in), tt.want)
		})
	}

	unknown := parseAvailableExpeditions(wire.Ints{250, 0, 0, 0, 99, 0, 600, 0})
	assert.Equal(t, ThingUnknown, unknown[0].Target)
	assert.Equal(t, LocationUnknown, unknown[0].Location1)
}

func expeditionState(items ...int64) string {
	d := make([]int64, 17)
	d[0] = 2
	d[3] = int64(ThingDragon)
	copy(d[9:], items)
	d[13] = 40
	return join(d)
}

func TestUpdate_CrossroadBountyHeroism(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	require.NoError(t, s.Update(resp(
		"expeditionstate", expeditionState(int64(ThingBait), int64(ThingCupCake)),
		"expeditioncrossroad", "22/5/31/3/61/-2",
	)))

	exp := s.Tavern.Expeditions.Active
	require.NotNil(t, exp)
	assert.Equal(t, uint8(2), exp.CurrentFloor)
	assert.Equal(t, int32(40), exp.Heroism)
	want := []ExpeditionEncounter{
		{Type: ThingDragon, BaseHeroism: 5, Heroism: 15},
		{Type: ThingCampFire, BaseHeroism: 3, Heroism: 3},
		{Type: ThingCake, BaseHeroism: -2, Heroism: 8},
	}
	assert.Equal(t, want, exp.Crossroads)

	require.NoError(t, s.Update(resp("ownplayername", "Foo")))
	assert.Equal(t, want, exp.Crossroads, "bonus is not applied twice")

	require.NoError(t, s.Update(resp("expeditionstate", expeditionState(int64(ThingCupCake)))))
	assert.Equal(t, []ExpeditionEncounter{
		{Type: ThingDragon, BaseHeroism: 5, Heroism: 5},
		{Type: ThingCampFire, BaseHeroism: 3, Heroism: 3},
		{Type: ThingCake, BaseHeroism: -2, Heroism: 8},
	}, exp.Crossroads)
}

func TestExpeditionThing_RequiredBounty(t *testing.T) {
	t.Parallel()

	b, ok := ThingKlaus.RequiredBounty()
	require.True(t, ok)
	assert.Equal(t, ThingBody, b)

	_, ok = ThingBody.RequiredBounty()
	assert.False(t, ok)
}
