package gamestate

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sfstate/internal/wire"
)

func TestUpdatePlayerSave_Offsets(t *testing.T) {
	t.Parallel()

	save := newSave()
	save[savePlayerID] = 4711
	save[savePlayerLevel] = 7<<16 | 312
	save[savePlayerXP] = 123456
	save[savePlayerNextXP] = 200000
	save[savePlayerHonor] = 900
	save[savePlayerRank] = 15
	save[savePlayerClass] = 2
	save[savePlayerRace] = 3
	save[savePlayerArmor] = 1500
	save[savePlayerMinDamage] = 40
	save[savePlayerMaxDamage] = 80
	save[savePlayerAttrBasis] = 11
	save[savePlayerAttrAdditions+4] = 22
	save[savePlayerAttrBought+2] = 3
	save[savePlayerWheelSpins] = 4
	save[savePlayerDiceRemaining] = 9
	save[savePlayerCalendar] = 6 << 16
	save[savePlayerArenaNext] = serverNow + 600
	for i := 0; i < ArenaEnemySlots; i++ {
		save[savePlayerEnemyIDs+i] = int64(100 + i)
	}
	copy(save[savePlayerEquipment:], itemRecord(ItemHat, 3))
	copy(save[savePlayerBag+2*ItemStride:], itemRecord(ItemAmulet, 8))

	s := &Snapshot{}
	s.SetLocation(time.UTC)
	require.NoError(t, s.Update(resp("ownplayersave", join(save))))

	c := s.Character
	assert.Equal(t, uint32(4711), c.PlayerID)
	assert.Equal(t, uint16(312), c.Level)
	assert.Equal(t, uint8(7), s.Arena.FightsForXP)
	assert.Equal(t, uint64(123456), c.Experience)
	assert.Equal(t, uint64(200000), c.NextLevelXP)
	assert.Equal(t, uint32(900), c.Honor)
	assert.Equal(t, uint32(15), c.Rank)
	assert.Equal(t, Class(1), c.Class)
	assert.Equal(t, Race(3), c.Race)
	assert.Equal(t, uint64(1500), c.Armor)
	assert.Equal(t, uint32(40), c.MinDamage)
	assert.Equal(t, uint32(80), c.MaxDamage)
	assert.Equal(t, uint32(11), c.AttributeBasis[0])
	assert.Equal(t, uint32(22), c.AttributeAdditions[4])
	assert.Equal(t, uint32(3), c.AttributeTimesBought[2])
	assert.Equal(t, uint8(4), s.Specials.Wheel.SpinsToday)
	assert.Equal(t, uint8(9), s.Tavern.DiceGame.Remaining)
	assert.Equal(t, uint8(6), s.Specials.Calendar.Collected)
	assert.Equal(t, int64(serverNow+600), s.Arena.NextFreeFight.Unix())
	assert.Equal(t, [ArenaEnemySlots]uint32{100, 101, 102}, s.Arena.EnemyIDs)

	require.NotNil(t, c.Equipment[0])
	assert.Equal(t, ItemHat, c.Equipment[0].Type)
	assert.Nil(t, c.Equipment[1])
	assert.Nil(t, c.Bag[0])
	require.NotNil(t, c.Bag[2])
	assert.Equal(t, uint16(8), c.Bag[2].ModelID)

	assert.Equal(t, ItemWeapon, s.Shops[WeaponShop][0].Type)
	assert.Equal(t, ItemRing, s.Shops[MagicShop][5].Type)
	assert.Equal(t, uint16(6), s.Shops[MagicShop][5].ModelID)
}

func TestUpdatePlayerSave_ShortIsSkipped(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	short := make([]int64, PlayerSaveMinLen-1)
	short[savePlayerLevel] = 5
	require.NoError(t, s.Update(resp("ownplayersave", join(short))))
	assert.Equal(t, uint16(100), s.Character.Level)
}

func TestUpdatePlayerSave_FortressGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level int64
		want  bool
	}{
		{"below", FortressMinLevel - 1, false},
		{"at", FortressMinLevel, true},
		{"above", 200, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			save := newSave()
			save[savePlayerLevel] = tt.level
			save[saveFortressUpgrades] = 3

			var s Snapshot
			require.NoError(t, s.Update(resp("ownplayersave", join(save))))
			assert.Equal(t, tt.want, s.Fortress.Present())
			if tt.want {
				assert.Equal(t, uint16(3), s.Fortress.Get().Upgrades)
			}
		})
	}
}

func TestUpdatePlayerSave_BrokenShop(t *testing.T) {
	t.Parallel()

	save := newSave()
	save[savePlayerMagicShop+3*ItemStride] = 0

	s := loggedIn()
	err := s.Update(resp("ownplayersave", join(save)))
	var perr *wire.ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "shop item", perr.Label)
}

func TestUpdateResources(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	s.Pets.Set(&Pets{Rank: 1})
	s.Underworld.Set(&Underworld{Honor: 1})
	s.Fortress.Set(&Fortress{Upgrades: 1})
	require.NoError(t, s.Update(resp("resources", "0/10/2000/3/4/50/0/60/0/70/80/90/1/2/3/4/5")))

	assert.Equal(t, uint32(10), s.Character.Mushrooms)
	assert.Equal(t, uint64(2000), s.Character.Silver)
	assert.Equal(t, uint32(3), s.Specials.Wheel.LuckyCoins)
	assert.Equal(t, uint32(4), s.Tavern.QuicksandGlasses)

	f := s.Fortress.Get()
	assert.Equal(t, uint64(50), f.Resources[ResourceWood].Current)
	assert.Equal(t, uint64(60), f.Resources[ResourceStone].Current)

	require.True(t, s.Blacksmith.Present())
	assert.Equal(t, uint64(70), s.Blacksmith.Get().Metal)
	assert.Equal(t, uint64(80), s.Blacksmith.Get().Arcane)
	assert.Equal(t, uint64(90), s.Underworld.Get().SoulsCurrent)

	pets := s.Pets.Get()
	for h := range pets.Habitats {
		assert.Equal(t, uint16(1+h), pets.Habitats[h].Fruits)
	}
}

func TestUpdateResources_Short(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	require.NoError(t, s.Update(resp("resources", "0/10")))
	assert.Equal(t, uint32(10), s.Character.Mushrooms)
	assert.Zero(t, s.Character.Silver)
}

// Any array long enough to be decoded must either decode or fail with a
// ParsingError. Nothing may panic.
func TestUpdatePlayerSave_RandomInput(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		n := PlayerSaveMinLen + r.IntN(200)
		save := make([]int64, n)
		for j := range save {
			switch r.IntN(4) {
			case 0:
				save[j] = r.Int64()
			case 1:
				save[j] = -r.Int64N(1 << 40)
			default:
				save[j] = r.Int64N(300)
			}
		}

		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var s Snapshot
			require.NotPanics(t, func() {
				err := s.Update(resp("ownplayersave", join(save)))
				if err != nil {
					var perr *wire.ParsingError
					assert.True(t, errors.As(err, &perr), "unexpected error type %T", err)
				}
			})
		})
	}
}

func TestUpdatePlayerSave_Anchors(t *testing.T) {
	t.Parallel()

	at := func(delta int64) time.Time { return time.Unix(serverNow+delta, 0).UTC() }
	tests := []struct {
		name  string
		set   map[int]int64
		check func(t *testing.T, s *Snapshot)
	}{
		{
			name: "mirror",
			set:  map[int]int64{28: 1<<16 | 1<<17 | 1<<20 | 1<<8},
			check: func(t *testing.T, s *Snapshot) {
				assert.Equal(t, Mirror{Pieces: 3, Complete: true}, s.Character.Mirror)
			},
		},
		{
			name: "mount",
			set:  map[int]int64{286: 0x100 | 3, 451: serverNow + 7200},
			check: func(t *testing.T, s *Snapshot) {
				assert.Equal(t, MountTiger, s.Character.Mount)
				assert.True(t, at(7200).Equal(s.Character.MountEnd))
			},
		},
		{
			name: "toilet",
			set:  map[int]int64{491: 4, 492: 120, 515: 30, 516: 100, 517: 2},
			check: func(t *testing.T, s *Snapshot) {
				require.NotNil(t, s.Tavern.Toilet)
				assert.Equal(t, &Toilet{Level: 4, Aura: 120, ManaCurrent: 30, ManaTotal: 100, SacrificesLeft: 2}, s.Tavern.Toilet)
			},
		},
		{
			name: "toilet locked",
			set:  map[int]int64{492: 120, 515: 30},
			check: func(t *testing.T, s *Snapshot) {
				assert.Nil(t, s.Tavern.Toilet)
			},
		},
		{
			name: "active potions",
			set: map[int]int64{
				493: 8, 494: 16, 495: 0,
				496: serverNow + 60, 497: serverNow + 120,
				499: 25, 500: 10,
			},
			check: func(t *testing.T, s *Snapshot) {
				p := s.Character.ActivePotions
				require.NotNil(t, p[0])
				assert.Equal(t, PotionIntelligence, p[0].Type)
				assert.Equal(t, PotionMedium, p[0].Size)
				assert.True(t, at(60).Equal(p[0].Expires))
				assert.Equal(t, uint32(25), p[0].Effect)
				require.NotNil(t, p[1])
				assert.Equal(t, PotionEternalLife, p[1].Type)
				assert.Equal(t, PotionLarge, p[1].Size)
				assert.True(t, at(120).Equal(p[1].Expires))
				assert.Equal(t, uint32(10), p[1].Effect)
				assert.Nil(t, p[2])
			},
		},
		{
			name: "packed portal bonus",
			set:  map[int]int64{445: 7<<24 | 35<<16},
			check: func(t *testing.T, s *Snapshot) {
				require.True(t, s.Dungeons.Portal.Present())
				assert.Equal(t, uint16(7), s.Dungeons.Portal.Get().PlayerHPBonus)
				require.True(t, s.Guild.Present())
				assert.Equal(t, uint8(35), s.Guild.Get().Portal.DamageBonus)
			},
		},
		{
			name: "guild joined and hydra",
			set:  map[int]int64{443: serverNow - 86400, 627: serverNow + 300, 628: 4},
			check: func(t *testing.T, s *Snapshot) {
				require.True(t, s.Guild.Present())
				g := s.Guild.Get()
				assert.True(t, at(-86400).Equal(g.Joined))
				assert.True(t, at(300).Equal(g.Hydra.NextBattle))
				assert.Equal(t, uint16(4), g.Hydra.RemainingFights)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			save := newSave()
			for idx, v := range tt.set {
				save[idx] = v
			}
			s := loggedIn()
			require.NoError(t, s.Update(resp(
				"owngroupname", "Bar",
				"portalprogress", "3/90/12",
				"ownplayersave", join(save),
			)))
			tt.check(t, s)
		})
	}
}
