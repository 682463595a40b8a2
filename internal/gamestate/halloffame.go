package gamestate

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/sfstate/internal/wire"
)

// HallOfFames holds the ranking tables and the lookup caches.
type HallOfFames struct {
	Players    []HallOfFamePlayer     `json:"players,omitempty"`
	Guilds     []HallOfFameGuild      `json:"guilds,omitempty"`
	Pets       []HallOfFamePets       `json:"pets,omitempty"`
	Fortress   []HallOfFameFortress   `json:"fortress,omitempty"`
	Underworld []HallOfFameUnderworld `json:"underworld,omitempty"`

	TotalPlayers           uint32  `json:"total_players"`
	TotalGuilds            *uint32 `json:"total_guilds,omitempty"`
	TotalPetPlayers        *uint32 `json:"total_pet_players,omitempty"`
	TotalFortresses        *uint32 `json:"total_fortresses,omitempty"`
	TotalUnderworldPlayers *uint32 `json:"total_underworld_players,omitempty"`

	OtherPlayers map[uint32]OtherPlayer `json:"other_players,omitempty"`
	OtherGuilds  map[string]OtherGuild  `json:"other_guilds,omitempty"`
}

// HallOfFamePlayer is one row of the player ranking.
type HallOfFamePlayer struct {
	Rank  uint32 `json:"rank"`
	Name  string `json:"name"`
	Guild string `json:"guild,omitempty"`
	Level uint32 `json:"level"`
	Fame  uint32 `json:"fame"`
	Class Class  `json:"class"`
	Flag  string `json:"flag,omitempty"`
}

// HallOfFameGuild is one row of the guild ranking.
type HallOfFameGuild struct {
	Rank        uint32 `json:"rank"`
	Name        string `json:"name"`
	Leader      string `json:"leader"`
	MemberCount uint32 `json:"member_count"`
	Honor       uint32 `json:"honor"`
	IsAttacked  bool   `json:"is_attacked"`
}

// HallOfFamePets is one row of the pet ranking.
type HallOfFamePets struct {
	Rank      uint32 `json:"rank"`
	Name      string `json:"name"`
	Guild     string `json:"guild,omitempty"`
	Collected uint32 `json:"collected"`
	Honor     uint32 `json:"honor"`
	Unknown   int64  `json:"unknown"`
}

// HallOfFameFortress is one row of the fortress ranking.
type HallOfFameFortress struct {
	Rank    uint32 `json:"rank"`
	Name    string `json:"name"`
	Guild   string `json:"guild,omitempty"`
	Upgrade uint32 `json:"upgrade"`
	Honor   uint32 `json:"honor"`
}

// HallOfFameUnderworld is one row of the underworld ranking.
type HallOfFameUnderworld struct {
	Rank    uint32 `json:"rank"`
	Name    string `json:"name"`
	Guild   string `json:"guild"`
	Upgrade uint32 `json:"upgrade"`
	Honor   uint32 `json:"honor"`
	Unknown int64  `json:"unknown"`
}

// splitRecords splits "a,b;c,d;" into field lists. Records whose field
// count is rejected by accept are dropped with a warning.
func splitRecords(raw, label string, accept func(n int) bool) [][]string {
	raw = strings.Trim(raw, ";")
	if raw == "" {
		return nil
	}
	var out [][]string
	for _, rec := range strings.Split(raw, ";") {
		fields := strings.Split(rec, ",")
		if !accept(len(fields)) {
			slog.Warn("bad hall of fame record", "field", label, "value", rec)
			continue
		}
		out = append(out, fields)
	}
	return out
}

// num parses one record field, warning on failure.
func num[T wire.Integer](s, label string) (T, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		slog.Warn("bad hall of fame value", "field", label, "value", s)
		return 0, false
	}
	t := T(v)
	if int64(t) != v || (t < 0) != (v < 0) {
		slog.Warn("value does not fit", "field", label, "value", v)
		return 0, false
	}
	return t, true
}

func exactly(n int) func(int) bool { return func(got int) bool { return got == n } }

func parsePlayerRanking(raw string) []HallOfFamePlayer {
	var out []HallOfFamePlayer
	for _, f := range splitRecords(raw, "Ranklistplayer", func(n int) bool { return n >= 6 }) {
		rank, ok1 := num[uint32](f[0], "hof rank")
		level, ok2 := num[uint32](f[3], "hof level")
		fame, ok3 := num[uint32](f[4], "hof fame")
		cls, ok4 := num[int64](f[5], "hof class")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		class, ok := ClassFromCode(cls - 1)
		if !ok {
			slog.Warn("unknown enum code", "field", "hof class", "value", cls)
			continue
		}
		e := HallOfFamePlayer{Rank: rank, Name: f[1], Guild: f[2], Level: level, Fame: fame, Class: class}
		if len(f) > 6 {
			e.Flag = f[6]
		}
		out = append(out, e)
	}
	return out
}

func parseGuildRanking(raw string) []HallOfFameGuild {
	var out []HallOfFameGuild
	for _, f := range splitRecords(raw, "ranklistgroup", exactly(6)) {
		rank, ok1 := num[uint32](f[0], "hof rank")
		members, ok2 := num[uint32](f[3], "hof members")
		honor, ok3 := num[uint32](f[4], "hof honor")
		attacked, ok4 := num[uint8](f[5], "hof attacked")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out = append(out, HallOfFameGuild{
			Rank: rank, Name: f[1], Leader: f[2],
			MemberCount: members, Honor: honor, IsAttacked: attacked == 1,
		})
	}
	return out
}

func parsePetsRanking(raw string) []HallOfFamePets {
	var out []HallOfFamePets
	for _, f := range splitRecords(raw, "RanklistPets", exactly(6)) {
		rank, ok1 := num[uint32](f[0], "hof rank")
		collected, ok2 := num[uint32](f[3], "hof collected")
		honor, ok3 := num[uint32](f[4], "hof honor")
		unknown, ok4 := num[int64](f[5], "hof pets extra")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out = append(out, HallOfFamePets{
			Rank: rank, Name: f[1], Guild: f[2],
			Collected: collected, Honor: honor, Unknown: unknown,
		})
	}
	return out
}

func parseFortressRanking(raw string) []HallOfFameFortress {
	var out []HallOfFameFortress
	for _, f := range splitRecords(raw, "ranklistfortress", exactly(5)) {
		rank, ok1 := num[uint32](f[0], "hof rank")
		upgrade, ok2 := num[uint32](f[3], "hof upgrade")
		honor, ok3 := num[uint32](f[4], "hof honor")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		out = append(out, HallOfFameFortress{Rank: rank, Name: f[1], Guild: f[2], Upgrade: upgrade, Honor: honor})
	}
	return out
}

func parseUnderworldRanking(raw string) []HallOfFameUnderworld {
	var out []HallOfFameUnderworld
	for _, f := range splitRecords(raw, "ranklistunderworld", exactly(6)) {
		rank, ok1 := num[uint32](f[0], "hof rank")
		upgrade, ok2 := num[uint32](f[3], "hof upgrade")
		honor, ok3 := num[uint32](f[4], "hof honor")
		unknown, ok4 := num[int64](f[5], "hof underworld extra")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out = append(out, HallOfFameUnderworld{
			Rank: rank, Name: f[1], Guild: f[2],
			Upgrade: upgrade, Honor: honor, Unknown: unknown,
		})
	}
	return out
}

// OtherPlayer is a looked-up player, cached by id.
type OtherPlayer struct {
	PlayerID    uint32 `json:"player_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Guild       string `json:"guild,omitempty"`

	Level       uint16 `json:"level"`
	Experience  uint64 `json:"experience"`
	NextLevelXP uint64 `json:"next_level_xp"`
	Honor       uint32 `json:"honor"`
	Rank        uint32 `json:"rank"`

	Race     Race     `json:"race"`
	Class    Class    `json:"class"`
	Portrait Portrait `json:"portrait"`
	Mirror   Mirror   `json:"mirror"`

	AttributeBasis     Attributes `json:"attribute_basis"`
	AttributeAdditions Attributes `json:"attribute_additions"`
	Equipment          Equipment  `json:"equipment"`
	Mount              Mount      `json:"mount"`
	Armor              uint64     `json:"armor"`
	MinDamage          uint32     `json:"min_damage"`
	MaxDamage          uint32     `json:"max_damage"`

	Relationship    Relationship `json:"relationship"`
	PetBonusPercent Attributes   `json:"pet_bonus_percent"`
	WallCombatLevel uint16       `json:"wall_combat_level"`
	FortressRank    *uint32      `json:"fortress_rank,omitempty"`
}

// otherplayer array layout.
const (
	otherID          = 0
	otherLevel       = 2
	otherXP          = 3
	otherNextXP      = 4
	otherHonor       = 5
	otherRank        = 6
	otherPortrait    = 7
	otherRace        = 17
	otherMirror      = 18
	otherClass       = 19
	otherBasis       = 20
	otherAdditions   = 25
	otherEquipment   = 40
	otherMount       = 160
	otherArmor       = 161
	otherMinDamage   = 162
	otherMaxDamage   = 163
	otherPlayerMinSz = otherMaxDamage + 1
)

// parseOtherPlayer decodes the otherplayer array.
func parseOtherPlayer(d wire.Ints) (OtherPlayer, error) {
	if len(d) < otherPlayerMinSz {
		return OtherPlayer{}, wire.NewParsingError("other player", len(d))
	}
	eqw, err := d.Skip(otherEquipment, "other player equipment")
	if err != nil {
		return OtherPlayer{}, err
	}
	eq, err := parseEquipment(eqw)
	if err != nil {
		return OtherPlayer{}, err
	}
	pw, err := d.Skip(otherPortrait, "other player portrait")
	if err != nil {
		return OtherPlayer{}, err
	}

	p := OtherPlayer{
		PlayerID:    wire.Soft[uint32](d, otherID, "other player id", 0),
		Level:       wire.SoftMap[uint16](d, otherLevel, "other player level", 0, func(v int64) int64 { return v & 0xFFFF }),
		Experience:  wire.Soft[uint64](d, otherXP, "other player xp", 0),
		NextLevelXP: wire.Soft[uint64](d, otherNextXP, "other player next xp", 0),
		Honor:       wire.Soft[uint32](d, otherHonor, "other player honor", 0),
		Rank:        wire.Soft[uint32](d, otherRank, "other player rank", 0),
		Portrait:    parsePortrait(pw),
		Race:        wire.Enum(d[otherRace]&0xFF, "other player race", RaceFromCode, RaceUnknown),
		Mirror:      parseMirror(d[otherMirror]),
		Class:       wire.Enum((d[otherClass]&0xFF)-1, "other player class", ClassFromCode, ClassUnknown),
		Equipment:   eq,
		Mount:       wire.Enum(d[otherMount]&0xFF, "other player mount", MountFromCode, MountUnknown),
		Armor:       wire.Soft[uint64](d, otherArmor, "other player armor", 0),
		MinDamage:   wire.Soft[uint32](d, otherMinDamage, "other player min damage", 0),
		MaxDamage:   wire.Soft[uint32](d, otherMaxDamage, "other player max damage", 0),
	}
	for i := range p.AttributeBasis {
		p.AttributeBasis[i] = wire.Soft[uint32](d, otherBasis+i, "other player attribute", 0)
		p.AttributeAdditions[i] = wire.Soft[uint32](d, otherAdditions+i, "other player attribute bonus", 0)
	}
	return p, nil
}

// Fields of a staged player that arrive outside the otherplayer array.
type stagedField uint8

const (
	stagedName stagedField = 1 << iota
	stagedDescription
	stagedGuild
	stagedRelationship
	stagedPetBonus
	stagedWallLevel
	stagedFortressRank
)

// stagedPlayer accumulates the otherplayer* fields of one update.
type stagedPlayer struct {
	p    OtherPlayer
	have stagedField
}

// setCore installs a freshly parsed array, keeping side fields seen earlier
// in the same update.
func (s *stagedPlayer) setCore(core OtherPlayer) {
	prev := s.p
	s.p = core
	s.overlay(prev, s.have)
}

// overlay copies the side fields named by mask from src.
func (s *stagedPlayer) overlay(src OtherPlayer, mask stagedField) {
	if mask&stagedName != 0 {
		s.p.Name = src.Name
	}
	if mask&stagedDescription != 0 {
		s.p.Description = src.Description
	}
	if mask&stagedGuild != 0 {
		s.p.Guild = src.Guild
	}
	if mask&stagedRelationship != 0 {
		s.p.Relationship = src.Relationship
	}
	if mask&stagedPetBonus != 0 {
		s.p.PetBonusPercent = src.PetBonusPercent
	}
	if mask&stagedWallLevel != 0 {
		s.p.WallCombatLevel = src.WallCombatLevel
	}
	if mask&stagedFortressRank != 0 {
		s.p.FortressRank = src.FortressRank
	}
}

// updatePetBonus decodes otherplayerpetbonus. Index 0 is unused.
func (s *stagedPlayer) updatePetBonus(d wire.Ints) {
	order := [...]AttributeType{Constitution, Dexterity, Intelligence, Luck, Strength}
	for i, a := range order {
		s.p.PetBonusPercent[a] = wire.Soft[uint32](d, 1+i, "other player pet bonus", 0)
	}
	s.have |= stagedPetBonus
}

// commitPlayer merges a staged player into the cache. Side fields the
// update did not deliver are back-filled from the cached entry.
func (h *HallOfFames) commitPlayer(s *stagedPlayer) {
	if h.OtherPlayers == nil {
		h.OtherPlayers = make(map[uint32]OtherPlayer)
	}
	id := s.p.PlayerID
	if id == 0 {
		found := false
		for cid, cached := range h.OtherPlayers {
			if s.have&stagedName != 0 && cached.Name == s.p.Name {
				merged := stagedPlayer{p: cached}
				merged.overlay(s.p, s.have)
				h.OtherPlayers[cid] = merged.p
				found = true
				break
			}
		}
		if !found {
			slog.Debug("other player without id dropped", "field", "otherplayer", "value", s.p.Name)
		}
		return
	}
	if cached, ok := h.OtherPlayers[id]; ok {
		s.overlay(cached, ^s.have)
	}
	h.OtherPlayers[id] = s.p
}

// commitGuild stores a staged guild by name. Nameless guilds are dropped.
func (h *HallOfFames) commitGuild(g *OtherGuild) {
	if g.Name == "" {
		slog.Debug("other guild without name dropped", "field", "othergroup")
		return
	}
	if h.OtherGuilds == nil {
		h.OtherGuilds = make(map[string]OtherGuild)
	}
	h.OtherGuilds[g.Name] = *g
}
