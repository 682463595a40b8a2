package gamestate

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/sfstate/internal/response"
	"github.com/udisondev/sfstate/internal/wire"
)

// MaxGuildMembers is the member capacity of the guild save block.
const MaxGuildMembers = 50

// Guild save block layout. Member columns are MaxGuildMembers wide.
const (
	guildSaveID               = 0
	guildSaveMemberCount      = 3
	guildSaveHonor            = 4
	guildSaveSilver           = 5
	guildSaveMushrooms        = 6
	guildSaveTreasureLevel    = 7
	guildSaveInstructorLevel  = 8
	guildSaveHydraMaxLevel    = 9
	guildSaveHydraClears      = 10
	guildSaveHydraLife        = 11
	guildSavePortalProgress   = 12
	guildSavePortalLife       = 13
	guildSaveMemberIDs        = 14
	guildSaveMemberLevels     = guildSaveMemberIDs + MaxGuildMembers
	guildSaveMemberOnline     = guildSaveMemberLevels + MaxGuildMembers
	guildSaveMemberTreasure   = guildSaveMemberOnline + MaxGuildMembers
	guildSaveMemberInstructor = guildSaveMemberTreasure + MaxGuildMembers
	guildSaveMemberRole       = guildSaveMemberInstructor + MaxGuildMembers
)

// GuildCore is what the guild save block carries, for the own guild and for
// looked-up guilds alike.
type GuildCore struct {
	ID              uint32        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Emblem          string        `json:"emblem"`
	Honor           uint32        `json:"honor"`
	Silver          uint64        `json:"silver"`
	Mushrooms       uint32        `json:"mushrooms"`
	MemberCount     uint8         `json:"member_count"`
	TreasureLevel   uint16        `json:"treasure_level"`
	InstructorLevel uint16        `json:"instructor_level"`
	Hydra           Hydra         `json:"hydra"`
	Portal          GuildPortal   `json:"portal"`
	Members         []GuildMember `json:"members"`
}

// Guild is the own guild.
type Guild struct {
	GuildCore

	Rank               uint16        `json:"rank"`
	Joined             time.Time     `json:"joined"`
	OwnTreasureSkill   uint16        `json:"own_treasure_skill"`
	OwnInstructorSkill uint16        `json:"own_instructor_skill"`
	SkillPrices        [2]NormalCost `json:"skill_prices"`
	Chat               []ChatMessage `json:"chat,omitempty"`
	Whispers           []ChatMessage `json:"whispers,omitempty"`
}

// OtherGuild is a looked-up guild, cached by name.
type OtherGuild struct {
	GuildCore

	Rank           uint16 `json:"rank"`
	AttackCost     uint32 `json:"attack_cost"`
	Attacks        string `json:"attacks,omitempty"`
	DefendsAgainst string `json:"defends_against,omitempty"`
}

// NormalCost is a price in silver and mushrooms.
type NormalCost struct {
	Silver    uint64 `json:"silver"`
	Mushrooms uint16 `json:"mushrooms"`
}

// Hydra is the guild pet boss.
type Hydra struct {
	MaxLevel        uint16    `json:"max_level"`
	Clears          uint16    `json:"clears"`
	CurrentLife     uint64    `json:"current_life"`
	NextBattle      time.Time `json:"next_battle"`
	RemainingFights uint16    `json:"remaining_fights"`
}

// GuildPortal is the guild demon portal.
type GuildPortal struct {
	DamageBonus uint8  `json:"damage_bonus"`
	Progress    uint16 `json:"progress"`
	LifePercent uint8  `json:"life_percent"`
}

// GuildRole of a member.
type GuildRole uint8

const (
	RoleNone GuildRole = iota
	RoleLeader
	RoleOfficer
	RoleMember
	RoleInvited

	RoleUnknown GuildRole = 255
)

// GuildRoleFromCode maps the role column.
func GuildRoleFromCode(code int64) (GuildRole, bool) {
	if code < int64(RoleNone) || code > int64(RoleInvited) {
		return RoleUnknown, false
	}
	return GuildRole(code), true
}

// GuildMember is one row of the member table.
type GuildMember struct {
	ID              uint32                  `json:"id"`
	Name            string                  `json:"name"`
	Level           uint16                  `json:"level"`
	LastOnline      time.Time               `json:"last_online"`
	TreasureSkill   uint16                  `json:"treasure_skill"`
	InstructorSkill uint16                  `json:"instructor_skill"`
	Role            GuildRole               `json:"role"`
	Potions         [PotionSlots]PotionType `json:"potions"`
	KnightsLevel    uint8                   `json:"knights_level"`
}

// ChatMessage is one guild chat or whisper line.
type ChatMessage struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// updateSave decodes the guild save block. Member rows beyond the reported
// member count are dropped; names already known are kept.
func (g *GuildCore) updateSave(d wire.Ints, st wire.ServerTime) {
	g.ID = wire.Soft[uint32](d, guildSaveID, "guild id", 0)
	g.MemberCount = wire.SoftMap[uint8](d, guildSaveMemberCount, "guild member count", 0, func(v int64) int64 { return v & 0xFF })
	g.Honor = wire.Soft[uint32](d, guildSaveHonor, "guild honor", 0)
	g.Silver = wire.Soft[uint64](d, guildSaveSilver, "guild silver", 0)
	g.Mushrooms = wire.Soft[uint32](d, guildSaveMushrooms, "guild mushrooms", 0)
	g.TreasureLevel = wire.Soft[uint16](d, guildSaveTreasureLevel, "guild treasure", 0)
	g.InstructorLevel = wire.Soft[uint16](d, guildSaveInstructorLevel, "guild instructor", 0)
	g.Hydra.MaxLevel = wire.Soft[uint16](d, guildSaveHydraMaxLevel, "hydra max level", 0)
	g.Hydra.Clears = wire.Soft[uint16](d, guildSaveHydraClears, "hydra clears", 0)
	g.Hydra.CurrentLife = wire.Soft[uint64](d, guildSaveHydraLife, "hydra life", 0)
	g.Portal.Progress = wire.Soft[uint16](d, guildSavePortalProgress, "guild portal progress", 0)
	g.Portal.LifePercent = wire.Soft[uint8](d, guildSavePortalLife, "guild portal life", 0)

	n := min(int(g.MemberCount), MaxGuildMembers)
	if len(g.Members) != n {
		members := make([]GuildMember, n)
		copy(members, g.Members)
		g.Members = members
	}
	for i := range g.Members {
		m := &g.Members[i]
		m.ID = wire.Soft[uint32](d, guildSaveMemberIDs+i, "guild member id", 0)
		m.Level = wire.Soft[uint16](d, guildSaveMemberLevels+i, "guild member level", 0)
		m.LastOnline = st.ConvertAt(d, guildSaveMemberOnline+i, "guild member online")
		m.TreasureSkill = wire.Soft[uint16](d, guildSaveMemberTreasure+i, "guild member treasure", 0)
		m.InstructorSkill = wire.Soft[uint16](d, guildSaveMemberInstructor+i, "guild member instructor", 0)
		m.Role = wire.EnumAt(d, guildSaveMemberRole+i, "guild member role", GuildRoleFromCode, RoleUnknown)
	}
}

// updateMemberNames applies a comma separated name list, growing the member
// table to fit.
func (g *GuildCore) updateMemberNames(raw string) {
	names := strings.Split(raw, ",")
	if len(names) == 1 && names[0] == "" {
		return
	}
	if len(g.Members) < len(names) {
		g.Members = append(g.Members, make([]GuildMember, len(names)-len(g.Members))...)
	}
	for i, n := range names {
		g.Members[i].Name = n
	}
}

// updateDescription splits "emblem§description".
func (g *GuildCore) updateDescription(raw string) {
	emblem, desc, ok := strings.Cut(raw, "§")
	if !ok {
		emblem, desc = "", raw
	}
	g.Emblem = emblem
	g.Description = wire.UnescapeText(desc)
}

// updateMemberPotions reads three potion codes per member.
func (g *Guild) updateMemberPotions(raw string) {
	codes := parseCommaInts(raw, "guild member potion")
	for i := range g.Members {
		for p := 0; p < PotionSlots; p++ {
			idx := i*PotionSlots + p
			if idx >= len(codes) {
				return
			}
			typ, _, ok := potionFromCode(codes[idx])
			if !ok && codes[idx] != 0 {
				slog.Warn("unknown enum code", "field", "guild member potion", "value", codes[idx])
			}
			g.Members[i].Potions[p] = typ
		}
	}
}

// updateKnights reads one hall of knights level per member.
func (g *Guild) updateKnights(raw string) {
	levels := parseCommaInts(raw, "guild knights")
	for i := range g.Members {
		if i >= len(levels) {
			return
		}
		g.Members[i].KnightsLevel = wire.Narrow[uint8](levels[i], "guild knights", 0)
	}
}

// updateSkillPrices reads [silver, mushrooms] for treasure then instructor.
func (g *Guild) updateSkillPrices(d wire.Ints) {
	for i := range g.SkillPrices {
		g.SkillPrices[i] = NormalCost{
			Silver:    wire.Soft[uint64](d, 2*i, "guild skill silver", 0),
			Mushrooms: wire.Soft[uint16](d, 2*i+1, "guild skill mushrooms", 0),
		}
	}
}

// updateFromSave applies the guild fields of the player save array.
func (g *Guild) updateFromSave(d wire.Ints, st wire.ServerTime) {
	if joined := st.ConvertAt(d, savePlayerGuildJoined, "guild join date"); !joined.IsZero() {
		g.Joined = joined
	}
	g.Portal.DamageBonus = wire.SoftMap[uint8](d, savePlayerPortalBonus, "guild portal bonus", 0, func(v int64) int64 { return (v >> 16) % 256 })
	g.OwnTreasureSkill = wire.Soft[uint16](d, savePlayerTreasureSkill, "own treasure skill", 0)
	g.OwnInstructorSkill = wire.Soft[uint16](d, savePlayerInstructorSkill, "own instructor skill", 0)
	g.Hydra.NextBattle = st.ConvertAt(d, savePlayerHydraNext, "hydra next battle")
	g.Hydra.RemainingFights = wire.Soft[uint16](d, savePlayerHydraFights, "hydra remaining fights", 0)
}

// parseChat splits '/'-separated "user:message" lines.
func parseChat(raw string) []ChatMessage {
	var out []ChatMessage
	for _, line := range response.NewValue(raw).Strings(response.ListSeparator) {
		user, msg, ok := strings.Cut(line, ":")
		if !ok {
			user, msg = "", line
		}
		out = append(out, ChatMessage{
			User:    wire.UnescapeText(strings.TrimSpace(user)),
			Message: wire.UnescapeText(strings.TrimSpace(msg)),
		})
	}
	return out
}

func parseCommaInts(raw, label string) []int64 {
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			slog.Warn("bad list value", "field", label, "value", p)
			n = 0
		}
		out = append(out, n)
	}
	return out
}
