package gamestate

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayerRanking(t *testing.T) {
	t.Parallel()

	rows := parsePlayerRanking("1,Foo,Bar,120,999,2,de;2,Baz,,110,800,1;broken;3,Qux,,x,1,1;4,Zed,,1,1,99;")
	require.Len(t, rows, 2)
	assert.Equal(t, HallOfFamePlayer{Rank: 1, Name: "Foo", Guild: "Bar", Level: 120, Fame: 999, Class: Class(1), Flag: "de"}, rows[0])
	assert.Equal(t, Warrior, rows[1].Class)
	assert.Empty(t, rows[1].Guild)
}

func TestParseRankings_FieldCounts(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parsePlayerRanking(""))

	guilds := parseGuildRanking("1,Bar,Foo,50,3000,1;2,Short,Foo,1,1")
	require.Len(t, guilds, 1)
	assert.True(t, guilds[0].IsAttacked)
	assert.Equal(t, "Foo", guilds[0].Leader)

	pets := parsePetsRanking("5,Foo,Bar,80,400,-1")
	require.Len(t, pets, 1)
	assert.Equal(t, int64(-1), pets[0].Unknown)

	forts := parseFortressRanking("7,Foo,,20,500;8,Baz,,1,1,1")
	require.Len(t, forts, 1)
	assert.Equal(t, uint32(20), forts[0].Upgrade)

	under := parseUnderworldRanking("1,Foo,Bar,30,-5,0")
	assert.Empty(t, under, "negative honor does not fit")
}

func otherPlayerArray(id, level int64) []int64 {
	d := make([]int64, otherPlayerMinSz)
	d[otherID] = id
	d[otherLevel] = level
	d[otherHonor] = 1234
	d[otherRace] = 2
	d[otherClass] = 3
	d[otherBasis] = 50
	d[otherArmor] = 700
	copy(d[otherEquipment:], itemRecord(ItemWeapon, 1))
	return d
}

func TestParseOtherPlayer(t *testing.T) {
	t.Parallel()

	p, err := parseOtherPlayer(otherPlayerArray(9, 80))
	require.NoError(t, err)
	assert.Equal(t, uint32(9), p.PlayerID)
	assert.Equal(t, uint16(80), p.Level)
	assert.Equal(t, uint32(1234), p.Honor)
	assert.Equal(t, Race(2), p.Race)
	assert.Equal(t, Class(2), p.Class)
	assert.Equal(t, uint32(50), p.AttributeBasis[0])
	assert.Equal(t, uint64(700), p.Armor)
	require.NotNil(t, p.Equipment[0])
	assert.Equal(t, ItemWeapon, p.Equipment[0].Type)

	_, err = parseOtherPlayer(make([]int64, otherPlayerMinSz-1))
	require.Error(t, err)
}

func TestUpdate_OtherPlayerStaging(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	// Side fields arrive before the main array.
	require.NoError(t, s.Update(resp(
		"otherplayername", "Baz",
		"otherplayergroupname", "Bar",
		"otherplayerfortressrank", "12",
		"otherplayer", join(otherPlayerArray(9, 80)),
		"otherplayerfriendstatus", "1",
	)))
	p, ok := s.HallOfFames.OtherPlayers[9]
	require.True(t, ok)
	assert.Equal(t, "Baz", p.Name)
	assert.Equal(t, "Bar", p.Guild)
	assert.Equal(t, Friend, p.Relationship)
	require.NotNil(t, p.FortressRank)
	assert.Equal(t, uint32(12), *p.FortressRank)

	// A later lookup without side fields keeps the cached ones.
	require.NoError(t, s.Update(resp(
		"otherplayer", join(otherPlayerArray(9, 81)),
		"otherplayerfortressrank", "-1",
	)))
	p = s.HallOfFames.OtherPlayers[9]
	assert.Equal(t, uint16(81), p.Level)
	assert.Equal(t, "Baz", p.Name)
	assert.Equal(t, "Bar", p.Guild)
	assert.Nil(t, p.FortressRank)
}

func TestUpdate_OtherPlayerByName(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	require.NoError(t, s.Update(resp(
		"otherplayername", "Baz",
		"otherplayer", join(otherPlayerArray(9, 80)),
	)))
	require.NoError(t, s.Update(resp(
		"otherplayername", "Baz",
		"otherdescription", "hello$Cworld",
	)))
	p := s.HallOfFames.OtherPlayers[9]
	assert.Equal(t, uint16(80), p.Level)
	assert.Equal(t, "hello,world", p.Description)

	require.NoError(t, s.Update(resp("otherplayername", "Nobody")))
	assert.Len(t, s.HallOfFames.OtherPlayers, 1)
}

func TestUpdate_OtherPlayerShortArrayDropped(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	require.NoError(t, s.Update(resp(
		"otherplayername", "Baz",
		"otherplayer", "9/80/3",
	)))
	assert.Empty(t, s.HallOfFames.OtherPlayers)
}

func TestUpdate_OtherGuild(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	require.NoError(t, s.Update(resp(
		"othergroupname", "Rivals",
		"othergrouprank", "4",
		"othergroupfightcost", "250",
		"othergroupattack", "Bar",
	)))
	g, ok := s.HallOfFames.OtherGuilds["Rivals"]
	require.True(t, ok)
	assert.Equal(t, uint16(4), g.Rank)
	assert.Equal(t, uint32(250), g.AttackCost)
	assert.Equal(t, "Bar", g.Attacks)

	require.NoError(t, s.Update(resp("othergrouprank", "1")))
	assert.Len(t, s.HallOfFames.OtherGuilds, 1, "nameless guild is dropped")
}

func TestUpdate_RankingTotals(t *testing.T) {
	t.Parallel()

	s := loggedIn()
	require.NoError(t, s.Update(resp(
		"maxrank", strconv.Itoa(50000),
		"maxrankgroup", "800",
		"Ranklistfortress", "1,Foo,,20,500",
	)))
	assert.Equal(t, uint32(50000), s.HallOfFames.TotalPlayers)
	require.NotNil(t, s.HallOfFames.TotalGuilds)
	assert.Equal(t, uint32(800), *s.HallOfFames.TotalGuilds)
	assert.Nil(t, s.HallOfFames.TotalPetPlayers)
	assert.Len(t, s.HallOfFames.Fortress, 1)
}
