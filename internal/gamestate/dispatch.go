package gamestate

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/sfstate/internal/response"
	"github.com/udisondev/sfstate/internal/wire"
)

// update is the transient state of one Snapshot.Update call.
type update struct {
	s  *Snapshot
	st wire.ServerTime

	otherPlayer *stagedPlayer
	otherGuild  *OtherGuild
}

func (u *update) stagedPlayer() *stagedPlayer {
	if u.otherPlayer == nil {
		u.otherPlayer = &stagedPlayer{}
	}
	return u.otherPlayer
}

func (u *update) stagedGuild() *OtherGuild {
	if u.otherGuild == nil {
		u.otherGuild = &OtherGuild{}
	}
	return u.otherGuild
}

func (u *update) lastFight() *Fight {
	if u.s.LastFight == nil {
		u.s.LastFight = &Fight{}
	}
	return u.s.LastFight
}

// fieldHandler applies one response field to the update.
type fieldHandler func(u *update, v response.Value) error

// indexedHandler applies a field whose name carries a 1-based fight index.
type indexedHandler func(u *update, n int, v response.Value) error

// apply routes one field. Unknown names are logged and skipped.
func (u *update) apply(f response.Field) error {
	if h, ok := fieldHandlers[f.Name]; ok {
		return h(u, f.Value)
	}
	if _, ok := ignoredFields[f.Name]; ok {
		return nil
	}
	for _, ih := range indexedHandlers {
		if n, ok := fightIndex(f.Name, ih.prefix); ok {
			return ih.handle(u, n, f.Value)
		}
	}
	if strings.Contains(f.Name, "dungeonenemies") || strings.HasPrefix(f.Name, "attbonus") {
		return nil
	}
	slog.Debug("update ignored field", "field", f.Name, "value", f.Value.String())
	return nil
}

// fightIndex matches prefix<N> with N a positive decimal number. A bare
// prefix is a single fight and maps to 1.
func fightIndex(name, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || len(rest) > 3 {
		return 0, false
	}
	if rest == "" {
		return 1, true
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

var indexedHandlers = []struct {
	prefix string
	handle indexedHandler
}{
	{"winnerid", func(u *update, n int, v response.Value) error {
		id, err := v.Int("winner id")
		if err != nil {
			return err
		}
		u.lastFight().fight(n).WinnerID = id
		return nil
	}},
	{"fightheader", func(u *update, n int, v response.Value) error {
		u.lastFight().fight(n).updateFighters(v.String())
		return nil
	}},
	{"fight", func(u *update, n int, v response.Value) error {
		return u.lastFight().fight(n).updateRounds(v)
	}},
}

// ignoredFields are known names that carry nothing the snapshot keeps.
var ignoredFields = nameSet(
	"timestamp", "Success", "sucess", "login count", "sessionid",
	"cryptokey", "cryptoid", "preregister", "languagecodelist", "tracking",
	"skipvideo", "webshopid", "cidstring", "mountexpired",
	"gtchest", "gtrank", "gtbonus", "gtbracketlist", "gtrankingmax",
	"owngroupattack", "owngroupdefense", "owntowerlevel", "serverversion",
	"soldieradvice", "chattime", "dailyreward", "calenderreward",
	"oktoberfest", "mailinvoice", "magicregistration", "legendaries",
	"tavernspecial", "goldperhournextlevel", "underworldmaxsouls",
	"expeditionrewardresources", "expeditionreward", "dungeonfaces",
	"shadowfaces", "iadungeontime", "workreward", "fightadditionalplayers",
	"reward",
)

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// sessionInvalid is the "error" value that ends the session.
const sessionInvalid = "sessionid invalid"

// setInt parses a scalar field into dst, narrowing with a warning.
func setInt[T wire.Integer](dst *T, v response.Value, label string) error {
	n, err := v.Int(label)
	if err != nil {
		return err
	}
	*dst = wire.Narrow[T](n, label, 0)
	return nil
}

// optInt parses a scalar field into a freshly allocated value.
func optInt[T wire.Integer](dst **T, v response.Value, label string) error {
	var n T
	if err := setInt(&n, v, label); err != nil {
		return err
	}
	*dst = &n
	return nil
}

// ints adapts an integer list decoder to a fieldHandler.
func ints(label string, fn func(u *update, d wire.Ints) error) fieldHandler {
	return func(u *update, v response.Value) error {
		d, err := v.Ints(label)
		if err != nil {
			return err
		}
		return fn(u, d)
	}
}

// text adapts a string decoder that cannot fail.
func text(fn func(u *update, raw string)) fieldHandler {
	return func(u *update, v response.Value) error {
		fn(u, v.String())
		return nil
	}
}

var fieldHandlers = map[string]fieldHandler{
	// session
	"cryptoid not found": func(*update, response.Value) error {
		return wire.ErrConnection
	},
	"error": func(_ *update, v response.Value) error {
		if strings.Contains(v.String(), sessionInvalid) {
			return fmt.Errorf("%s: %w", v.String(), wire.ErrConnection)
		}
		slog.Warn("server reported error", "field", "error", "value", v.String())
		return nil
	},

	// character
	"ownplayername": text(func(u *update, raw string) {
		u.s.Character.Name = raw
	}),
	"owndescription": text(func(u *update, raw string) {
		u.s.Character.Description = wire.UnescapeText(raw)
	}),
	"ownplayersave": ints("player save", func(u *update, d wire.Ints) error {
		return u.s.updatePlayerSave(d, u.st)
	}),
	"resources": ints("resources", func(u *update, d wire.Ints) error {
		u.s.updateResources(d)
		return nil
	}),
	"scrapbook": text(func(u *update, raw string) {
		u.s.Character.Scrapbook = ParseScrapbook(raw)
	}),
	"achievement": ints("achievements", func(u *update, d wire.Ints) error {
		u.s.Achievements = parseAchievements(d)
		return nil
	}),
	"unlockfeature": ints("unlock", func(u *update, d wire.Ints) error {
		u.s.PendingUnlocks = parseUnlockables(d)
		return nil
	}),
	"dummies": ints("mannequin", func(u *update, d wire.Ints) error {
		eq, err := parseEquipment(d)
		if err != nil {
			return err
		}
		u.s.Character.Mannequin = &eq
		return nil
	}),
	"dragongoldbonus": func(u *update, v response.Value) error {
		return setInt(&u.s.Character.MountDragonRefund, v, "dragon gold")
	},
	"friendlist": text(func(u *update, raw string) {
		u.s.Character.Relations = parseRelations(raw)
	}),

	// tavern
	"wagesperhour": func(u *update, v response.Value) error {
		return setInt(&u.s.Tavern.GuardWage, v, "tavern wage")
	},
	"toilettfull": func(u *update, v response.Value) error {
		n, err := v.Int("toilet full status")
		if err != nil {
			return err
		}
		if u.s.Tavern.Toilet == nil {
			u.s.Tavern.Toilet = &Toilet{}
		}
		u.s.Tavern.Toilet.Used = n != 0
		return nil
	},
	"skipallow": func(u *update, v response.Value) error {
		n, err := v.Int("skip allow")
		if err != nil {
			return err
		}
		u.s.Tavern.SkipAllowed = n != 0
		return nil
	},
	"usersettings": func(u *update, v response.Value) error {
		pref, err := parseQuestingPreference(strings.Split(v.String(), response.ListSeparator))
		if err != nil {
			return err
		}
		u.s.Tavern.QuestingPreference = pref
		return nil
	},
	"dicestatus": ints("dice status", func(u *update, d wire.Ints) error {
		u.s.Tavern.DiceGame.CurrentDice = parseDice(d)
		return nil
	}),
	"dicereward": ints("dice reward", func(u *update, d wire.Ints) error {
		r, err := parseDiceReward(d)
		if err != nil {
			return err
		}
		u.s.Tavern.DiceGame.Reward = r
		return nil
	}),
	"gamblegoldvalue": func(u *update, v response.Value) error {
		n, err := v.Int("gold gamble")
		if err != nil {
			return err
		}
		u.s.Tavern.GambleResult = &GambleResult{Kind: GambleSilver, Change: n}
		return nil
	},
	"gamblecoinvalue": func(u *update, v response.Value) error {
		n, err := v.Int("mushroom gamble")
		if err != nil {
			return err
		}
		u.s.Tavern.GambleResult = &GambleResult{Kind: GambleMushrooms, Change: n}
		return nil
	},

	// expeditions
	"expeditionevent": ints("expedition event", func(u *update, d wire.Ints) error {
		u.s.Tavern.Expeditions.Start = u.st.ConvertAt(d, 0, "expedition event start")
		u.s.Tavern.Expeditions.End = u.st.ConvertAt(d, 1, "expedition event end")
		return nil
	}),
	"expeditions": ints("expeditions", func(u *update, d wire.Ints) error {
		u.s.Tavern.Expeditions.Available = parseAvailableExpeditions(d)
		return nil
	}),
	"expeditionmonster": ints("expedition monster", func(u *update, d wire.Ints) error {
		return u.s.Tavern.Expeditions.active().updateBoss(d)
	}),
	"expeditionhalftime": ints("expedition halftime", func(u *update, d wire.Ints) error {
		return u.s.Tavern.Expeditions.active().updateHalftime(d)
	}),
	"expeditionstate": ints("expedition state", func(u *update, d wire.Ints) error {
		u.s.Tavern.Expeditions.active().updateState(d, u.st)
		return nil
	}),
	"expeditioncrossroad": ints("expedition crossroad", func(u *update, d wire.Ints) error {
		u.s.Tavern.Expeditions.active().updateCrossroads(d)
		return nil
	}),

	// events, calendar, wheel and tasks
	"tavernspecialsub": func(u *update, v response.Value) error {
		flags, err := v.Int("tavern special sub")
		if err != nil {
			return err
		}
		u.s.Specials.Events.Active = eventsFromFlags(flags)
		return nil
	},
	"tavernspecialend": func(u *update, v response.Value) error {
		raw, err := v.Int("event end")
		if err != nil {
			return err
		}
		u.s.Specials.Events.Ends = u.st.Convert(raw, "event end")
		return nil
	},
	"calenderinfo": ints("calendar", func(u *update, d wire.Ints) error {
		chunks := d.Chunks(2)
		rewards := make([]CalendarReward, 0, len(chunks))
		for _, c := range chunks {
			r, err := ParseCalendarReward(c)
			if err != nil {
				return err
			}
			rewards = append(rewards, r)
		}
		u.s.Specials.Calendar.Rewards = rewards
		return nil
	}),
	"wheelresult": ints("wheel result", func(u *update, d wire.Ints) error {
		r, err := ParseWheelReward(d, u.s.wheelContext())
		if err != nil {
			return err
		}
		u.s.Specials.Wheel.Result = &r
		return nil
	}),
	"dailytasklist": ints("daily tasks list", func(u *update, d wire.Ints) error {
		if len(d) > 0 {
			d = d[1:]
		}
		tasks := make([]DailyTask, 0, len(d)/TaskRecordSize)
		for _, c := range d.Chunks(TaskRecordSize) {
			t, err := ParseDailyTask(c)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		u.s.Specials.Tasks.Daily.Tasks = tasks
		return nil
	}),
	"dailytaskrewardpreview": ints("daily task reward preview", func(u *update, d wire.Ints) error {
		return updateChestPreview(&u.s.Specials.Tasks.Daily.Rewards, d, "daily task reward preview")
	}),
	"eventtasklist": ints("event task list", func(u *update, d wire.Ints) error {
		tasks := make([]EventTask, 0, len(d)/TaskRecordSize)
		for _, c := range d.Chunks(TaskRecordSize) {
			t, err := ParseEventTask(c)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		u.s.Specials.Tasks.Event.Tasks = tasks
		return nil
	}),
	"eventtaskrewardpreview": ints("event task reward preview", func(u *update, d wire.Ints) error {
		return updateChestPreview(&u.s.Specials.Tasks.Event.Rewards, d, "event task reward preview")
	}),
	"eventtaskinfo": ints("event task info", func(u *update, d wire.Ints) error {
		ev := &u.s.Specials.Tasks.Event
		ev.Start = u.st.ConvertAt(d, 0, "event task start")
		ev.End = u.st.ConvertAt(d, 1, "event task end")
		ev.Theme = wire.EnumAt(d, 2, "event task theme", EventTasksThemeFromCode, ThemeUnknown)
		return nil
	}),

	// own guild
	"owngroupname": text(func(u *update, raw string) {
		u.s.Guild.Materialize().Name = raw
	}),
	"owngrouprank": func(u *update, v response.Value) error {
		return setInt(&u.s.Guild.Materialize().Rank, v, "group rank")
	},
	"owngroupsave": ints("guild save", func(u *update, d wire.Ints) error {
		u.s.Guild.Materialize().updateSave(d, u.st)
		return nil
	}),
	"owngroupmember": text(func(u *update, raw string) {
		u.s.Guild.Materialize().updateMemberNames(raw)
	}),
	"owngrouppotion": text(func(u *update, raw string) {
		u.s.Guild.Materialize().updateMemberPotions(raw)
	}),
	"owngroupknights": text(func(u *update, raw string) {
		u.s.Guild.Materialize().updateKnights(raw)
	}),
	"owngroupdescription": text(func(u *update, raw string) {
		u.s.Guild.Materialize().updateDescription(raw)
	}),
	"groupskillprice": ints("guild skill prices", func(u *update, d wire.Ints) error {
		u.s.Guild.Materialize().updateSkillPrices(d)
		return nil
	}),
	"chathistory": text(func(u *update, raw string) {
		u.s.Guild.Materialize().Chat = parseChat(raw)
	}),
	"chatwhisper": text(func(u *update, raw string) {
		u.s.Guild.Materialize().Whispers = parseChat(raw)
	}),

	// fortress
	"unitprice": ints("fortress units", func(u *update, d wire.Ints) error {
		return u.s.Fortress.Materialize().updateUnitPrices(d)
	}),
	"upgradeprice": ints("fortress unit upgrade prices", func(u *update, d wire.Ints) error {
		u.s.Fortress.Materialize().updateUnitUpgrades(d)
		return nil
	}),
	"unitlevel": ints("fortress unit levels", func(u *update, d wire.Ints) error {
		u.s.Fortress.Materialize().updateUnitLevels(d)
		return nil
	}),
	"fortressprice": ints("fortress upgrade prices", func(u *update, d wire.Ints) error {
		return u.s.Fortress.Materialize().updateBuildingPrices(d)
	}),
	"fortressGroupPrice": ints("hall of knights prices", func(u *update, d wire.Ints) error {
		c, err := ParseFortressCost(d)
		if err != nil {
			return err
		}
		u.s.Fortress.Materialize().HallOfKnightsUpgradePrice = c
		return nil
	}),
	"fortresspricereroll": func(u *update, v response.Value) error {
		return setInt(&u.s.Fortress.Materialize().OpponentRerollPrice, v, "fortress reroll")
	},
	"fortresswalllevel": func(u *update, v response.Value) error {
		return setInt(&u.s.Fortress.Materialize().WallCombatLevel, v, "fortress wall level")
	},
	"maxupgradelevel": func(u *update, v response.Value) error {
		return setInt(&u.s.Fortress.Materialize().BuildingMaxLevel, v, "max upgrade level")
	},
	"stoneperhournextlevel": func(u *update, v response.Value) error {
		f := u.s.Fortress.Materialize()
		return setInt(&f.Resources[ResourceStone].Production.PerHourNextLvl, v, "stone next level")
	},
	"woodperhournextlevel": func(u *update, v response.Value) error {
		f := u.s.Fortress.Materialize()
		return setInt(&f.Resources[ResourceWood].Production.PerHourNextLvl, v, "wood next level")
	},
	"fortresschest": ints("fortress chest", func(u *update, d wire.Ints) error {
		items, err := parseItemList(d)
		if err != nil {
			return err
		}
		u.s.Character.FortressChest = items
		return nil
	}),

	// tower and underworld
	"owntower": ints("tower", func(u *update, d wire.Ints) error {
		if err := u.s.Dungeons.updateCompanions(d); err != nil {
			return err
		}
		u.s.Underworld.Materialize().update(d, u.st)
		return nil
	}),
	"underworldprice": ints("underworld building prices", func(u *update, d wire.Ints) error {
		return u.s.Underworld.Materialize().updateBuildingPrices(d)
	}),
	"underworldupgradeprice": ints("underworld upgrade prices", func(u *update, d wire.Ints) error {
		u.s.Underworld.Materialize().updateUnitPrices(d)
		return nil
	}),

	// pets
	"ownpets": ints("own pets", func(u *update, d wire.Ints) error {
		u.s.Pets.Materialize().update(d, u.st)
		return nil
	}),
	"ownpetsstats": ints("pet stats", func(u *update, d wire.Ints) error {
		stats, err := parsePetStats(d)
		if err != nil {
			return err
		}
		u.s.Pets.Materialize().Inspected = stats
		return nil
	}),
	"petsrank": func(u *update, v response.Value) error {
		return setInt(&u.s.Pets.Materialize().Rank, v, "pet rank")
	},
	"maxpetlevel": func(u *update, v response.Value) error {
		return setInt(&u.s.Pets.Materialize().MaxPetLevel, v, "max pet level")
	},
	"petsdefensetype": func(u *update, v response.Value) error {
		id, err := v.Int("pet defense type")
		if err != nil {
			return err
		}
		h, ok := HabitatFromTypeID(id)
		if !ok {
			return wire.NewParsingError("pet defense type", id)
		}
		u.s.Pets.Materialize().Opponent.Habitat = &h
		return nil
	},

	// dungeons
	"dungeonprogresslight": ints("dungeon progress light", func(u *update, d wire.Ints) error {
		u.s.Dungeons.updateProgress(d, LightDungeon)
		return nil
	}),
	"dungeonprogressshadow": ints("dungeon progress shadow", func(u *update, d wire.Ints) error {
		u.s.Dungeons.updateProgress(d, ShadowDungeon)
		return nil
	}),
	"dungeonlevel": ints("light dungeon levels", func(u *update, d wire.Ints) error {
		u.s.Dungeons.updateLevels(d, LightDungeon)
		return nil
	}),
	"shadowlevel": ints("shadow dungeon levels", func(u *update, d wire.Ints) error {
		u.s.Dungeons.updateLevels(d, ShadowDungeon)
		return nil
	}),
	"portalprogress": ints("portal progress", func(u *update, d wire.Ints) error {
		u.s.Dungeons.Portal.Materialize().update(d)
		return nil
	}),
	"singleportalenemylevel": func(u *update, v response.Value) error {
		return setInt(&u.s.Dungeons.Portal.Materialize().EnemyLevel, v, "portal level")
	},

	// unlockable buildings
	"gtsave": ints("gtsave", func(u *update, d wire.Ints) error {
		u.s.Hellevator.Active = parseHellevator(d, u.st)
		return nil
	}),
	"gttime": ints("gttime", func(u *update, d wire.Ints) error {
		u.s.Hellevator.updateTime(d, u.st)
		return nil
	}),
	"idle": ints("idle game", func(u *update, d wire.Ints) error {
		u.s.IdleGame.Set(parseIdleGame(d, u.st))
		return nil
	}),
	"smith": ints("smith", func(u *update, d wire.Ints) error {
		u.s.Blacksmith.Materialize().updateSmith(d, u.st)
		return nil
	}),
	"witch": ints("witch", func(u *update, d wire.Ints) error {
		u.s.Witch.Materialize().update(d, u.st)
		return nil
	}),

	// hall of fame
	"Ranklistplayer": text(func(u *update, raw string) {
		u.s.HallOfFames.Players = parsePlayerRanking(raw)
	}),
	"ranklistgroup": text(func(u *update, raw string) {
		u.s.HallOfFames.Guilds = parseGuildRanking(raw)
	}),
	"RanklistPets": text(func(u *update, raw string) {
		u.s.HallOfFames.Pets = parsePetsRanking(raw)
	}),
	"ranklistfortress": text(updateFortressRanking),
	"Ranklistfortress": text(updateFortressRanking),
	"ranklistunderworld": text(func(u *update, raw string) {
		rows := parseUnderworldRanking(raw)
		u.s.HallOfFames.Underworld = rows
		u.s.applyUnderworldHonor(rows)
	}),
	"maxrank": func(u *update, v response.Value) error {
		return setInt(&u.s.HallOfFames.TotalPlayers, v, "player count")
	},
	"maxrankgroup": func(u *update, v response.Value) error {
		return optInt(&u.s.HallOfFames.TotalGuilds, v, "guild max")
	},
	"maxrankPets": func(u *update, v response.Value) error {
		return optInt(&u.s.HallOfFames.TotalPetPlayers, v, "pet rank max")
	},
	"maxrankFortress": func(u *update, v response.Value) error {
		return optInt(&u.s.HallOfFames.TotalFortresses, v, "fortress max")
	},
	"maxrankUnderworld": func(u *update, v response.Value) error {
		return optInt(&u.s.HallOfFames.TotalUnderworldPlayers, v, "underworld max")
	},

	// looked-up player
	"otherplayer": ints("other player", func(u *update, d wire.Ints) error {
		p, err := parseOtherPlayer(d)
		if err != nil {
			slog.Warn("other player dropped", "field", "otherplayer", "error", err)
			u.otherPlayer = nil
			return nil
		}
		u.stagedPlayer().setCore(p)
		return nil
	}),
	"otherplayername": text(func(u *update, raw string) {
		sp := u.stagedPlayer()
		sp.p.Name = raw
		sp.have |= stagedName
	}),
	"otherdescription": text(func(u *update, raw string) {
		sp := u.stagedPlayer()
		sp.p.Description = wire.UnescapeText(raw)
		sp.have |= stagedDescription
	}),
	"otherplayergroupname": text(func(u *update, raw string) {
		sp := u.stagedPlayer()
		sp.p.Guild = raw
		sp.have |= stagedGuild
	}),
	"otherplayerfriendstatus": func(u *update, v response.Value) error {
		n, err := v.Int("other friend")
		if err != nil {
			return err
		}
		sp := u.stagedPlayer()
		sp.p.Relationship = wire.Enum(n, "other friend", RelationshipFromCode, NoRelation)
		sp.have |= stagedRelationship
		return nil
	},
	"otherplayerpetbonus": ints("other pet bonus", func(u *update, d wire.Ints) error {
		u.stagedPlayer().updatePetBonus(d)
		return nil
	}),
	"otherplayerunitlevel": ints("other player unit level", func(u *update, d wire.Ints) error {
		sp := u.stagedPlayer()
		sp.p.WallCombatLevel = wire.Soft[uint16](d, 0, "other wall level", 0)
		sp.have |= stagedWallLevel
		return nil
	}),
	"otherplayerfortressrank": func(u *update, v response.Value) error {
		n, err := v.Int("other fortress rank")
		if err != nil {
			return err
		}
		sp := u.stagedPlayer()
		sp.p.FortressRank = nil
		if n >= 0 {
			r := wire.Narrow[uint32](n, "other fortress rank", 0)
			sp.p.FortressRank = &r
		}
		sp.have |= stagedFortressRank
		return nil
	},

	// looked-up guild
	"othergroup": ints("other group", func(u *update, d wire.Ints) error {
		u.stagedGuild().updateSave(d, u.st)
		return nil
	}),
	"othergroupname": text(func(u *update, raw string) {
		u.stagedGuild().Name = raw
	}),
	"othergrouprank": func(u *update, v response.Value) error {
		return setInt(&u.stagedGuild().Rank, v, "other group rank")
	},
	"othergroupfightcost": func(u *update, v response.Value) error {
		return setInt(&u.stagedGuild().AttackCost, v, "other group fighting cost")
	},
	"othergroupmember": text(func(u *update, raw string) {
		u.stagedGuild().updateMemberNames(raw)
	}),
	"othergroupdescription": text(func(u *update, raw string) {
		u.stagedGuild().updateDescription(raw)
	}),
	"othergroupattack": text(func(u *update, raw string) {
		u.stagedGuild().Attacks = raw
	}),
	"othergroupdefense": text(func(u *update, raw string) {
		u.stagedGuild().DefendsAgainst = raw
	}),

	// mail
	"messagelist": text(func(u *update, raw string) {
		u.s.Mail.Inbox = parseInbox(raw, u.st)
	}),
	"messagetext": text(func(u *update, raw string) {
		msg := wire.UnescapeText(raw)
		u.s.Mail.OpenMessage = &msg
	}),
	"inboxcapacity": func(u *update, v response.Value) error {
		return setInt(&u.s.Mail.InboxCapacity, v, "inbox capacity")
	},
	"combatloglist": text(func(u *update, raw string) {
		u.s.Mail.appendCombatLog(raw, u.st)
	}),

	// fights
	"fightresult": ints("fight result", func(u *update, d wire.Ints) error {
		return u.lastFight().updateResult(d)
	}),
	"fightgroups": text(func(u *update, raw string) {
		u.lastFight().Groups = raw
	}),
	"fightversion": func(u *update, v response.Value) error {
		return setInt(&u.lastFight().Version, v, "fight version")
	},
}

func updateFortressRanking(u *update, raw string) {
	u.s.HallOfFames.Fortress = parseFortressRanking(raw)
}

// applyUnderworldHonor takes the own underworld honor from the own row of
// the underworld ranking.
func (s *Snapshot) applyUnderworldHonor(rows []HallOfFameUnderworld) {
	if s.Character.Name == "" {
		return
	}
	for _, r := range rows {
		if r.Name == s.Character.Name {
			s.Underworld.Materialize().Honor = r.Honor
			return
		}
	}
}
