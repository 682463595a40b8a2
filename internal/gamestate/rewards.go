package gamestate

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// TimedSpecials groups everything that rotates over time.
type TimedSpecials struct {
	Events   Events   `json:"events"`
	Tasks    Tasks    `json:"tasks"`
	Calendar Calendar `json:"calendar"`
	Wheel    Wheel    `json:"wheel"`
}

// Event is a server-wide tavern event. The ordinal is the bit position in
// the tavernspecialsub flag word.
type Event uint8

const (
	ExceptionalXPEvent Event = iota
	GloriousGoldGalore
	TidyToiletTime
	AssemblyOfAwesomeAnimals
	FantasticFortressFestivity
	DaysOfDoomedSouls
	WitchesDance
	SandsOfTimeSpecial
	ForgeFrenzyFestival
	EpicShoppingSpreeExtravaganza
	EpicQuestExtravaganza
	EpicGoodLuckExtravaganza
	OneBeerTwoBeerFreeBeer
	PieceworkParty
	LuckyDay
	CrazyMushroomHarvest
	HolidaySale

	eventCount = 17
)

// Events lists the active events in ascending order.
type Events struct {
	Active []Event   `json:"active"`
	Ends   time.Time `json:"ends"`
}

// Has reports whether ev is active.
func (e Events) Has(ev Event) bool {
	return slices.Contains(e.Active, ev)
}

func eventsFromFlags(flags int64) []Event {
	active := make([]Event, 0, eventCount)
	for i := 0; i < eventCount; i++ {
		if flags&(1<<i) != 0 {
			active = append(active, Event(i))
		}
	}
	return active
}

// Wheel is the wheel of fortune.
type Wheel struct {
	LuckyCoins   uint32       `json:"lucky_coins"`
	SpinsToday   uint8        `json:"spins_today"`
	NextFreeSpin time.Time    `json:"next_free_spin"`
	Result       *WheelReward `json:"result,omitempty"`
}

// WheelRewardType is what a spin produced.
type WheelRewardType uint8

const (
	WheelMushrooms WheelRewardType = iota
	WheelStone
	WheelStoneXL
	WheelWood
	WheelWoodXL
	WheelExperience
	WheelExperienceXL
	WheelSilver
	WheelSilverXL
	WheelArcane
	WheelSouls
	WheelItem
	WheelPetItem

	WheelUnknown WheelRewardType = 255
)

// WheelContext carries state the wheel mapping depends on but that lives
// elsewhere in the snapshot.
type WheelContext struct {
	// Upgraded is derived from level >= 95 with pets and underworld present.
	Upgraded bool
}

// WheelReward is the result of one spin. PetItem is set only for WheelPetItem.
type WheelReward struct {
	Type    WheelRewardType `json:"type"`
	Amount  int64           `json:"amount"`
	PetItem *PetItem        `json:"pet_item,omitempty"`
}

// WheelRewardFromCode maps a raw reward code. The same code means different
// rewards on the upgraded wheel.
func WheelRewardFromCode(code int64, ctx WheelContext) (WheelRewardType, bool) {
	pick := func(plain, upgraded WheelRewardType) WheelRewardType {
		if ctx.Upgraded {
			return upgraded
		}
		return plain
	}
	switch code {
	case 0:
		return WheelMushrooms, true
	case 1:
		return pick(WheelWood, WheelArcane), true
	case 2:
		return WheelExperienceXL, true
	case 3:
		return pick(WheelStone, WheelPetItem), true
	case 4:
		return WheelSilverXL, true
	case 5:
		return WheelItem, true
	case 6:
		return WheelWoodXL, true
	case 7:
		return WheelExperience, true
	case 8:
		return WheelStoneXL, true
	case 9:
		return pick(WheelSilver, WheelSouls), true
	}
	return WheelUnknown, false
}

// ParseWheelReward decodes [type, amount]. On the upgraded wheel code 3
// carries a pet item code in the amount slot.
func ParseWheelReward(d wire.Ints, ctx WheelContext) (WheelReward, error) {
	code, err := d.Get(0, "wheel reward type")
	if err != nil {
		return WheelReward{}, err
	}
	amount, err := d.Get(1, "wheel reward amount")
	if err != nil {
		return WheelReward{}, err
	}

	res := WheelReward{
		Type: wire.Enum(code, "wheel reward type", func(c int64) (WheelRewardType, bool) {
			return WheelRewardFromCode(c, ctx)
		}, WheelUnknown),
		Amount: amount,
	}
	switch res.Type {
	case WheelPetItem:
		item, ok := PetItemFromCode(amount)
		if !ok {
			return WheelReward{}, wire.NewParsingError("pet wheel reward type", amount)
		}
		res.PetItem = &item
		res.Amount = 1
	case WheelItem:
		res.Amount = 1
	}
	return res, nil
}

// Calendar is the daily login calendar.
type Calendar struct {
	Collected    uint8            `json:"collected"`
	Rewards      []CalendarReward `json:"rewards"`
	NextPossible time.Time        `json:"next_possible"`
}

// CalendarRewardType is the kind of a calendar door.
type CalendarRewardType uint8

const (
	CalendarSilver CalendarRewardType = iota
	CalendarMushrooms
	CalendarExperience
	CalendarWood
	CalendarStone
	CalendarSouls
	CalendarArcane
	CalendarRunes
	CalendarItem
	CalendarAttribute
	CalendarFruit
	CalendarLevel
	CalendarPotion
	CalendarTenQuicksandGlasses
	CalendarLevelUp

	CalendarUnknown CalendarRewardType = 255
)

// CalendarReward is one door. Attribute, Habitat and Potion qualify the
// CalendarAttribute, CalendarFruit and CalendarPotion kinds.
type CalendarReward struct {
	Type      CalendarRewardType `json:"type"`
	Attribute AttributeType      `json:"attribute,omitempty"`
	Habitat   HabitatType        `json:"habitat,omitempty"`
	Potion    PotionType         `json:"potion,omitempty"`
	Amount    int64              `json:"amount"`
}

var calendarSimple = map[int64]CalendarRewardType{
	1: CalendarSilver, 2: CalendarMushrooms, 3: CalendarExperience,
	4: CalendarWood, 5: CalendarStone, 6: CalendarSouls, 7: CalendarArcane,
	8: CalendarRunes, 10: CalendarItem, 21: CalendarLevelUp,
	23: CalendarTenQuicksandGlasses,
}

// CalendarRewardFromCode maps a raw door code. Amount is left zero.
func CalendarRewardFromCode(code int64) (CalendarReward, bool) {
	if t, ok := calendarSimple[code]; ok {
		return CalendarReward{Type: t}, true
	}
	switch {
	case code >= 11 && code <= 15:
		return CalendarReward{Type: CalendarAttribute, Attribute: AttributeType(code - 11)}, true
	case code >= 16 && code <= 20:
		h, ok := HabitatFromTypeID(code - 15)
		if !ok {
			return CalendarReward{Type: CalendarUnknown}, false
		}
		return CalendarReward{Type: CalendarFruit, Habitat: h}, true
	case code == 22:
		return CalendarReward{Type: CalendarPotion, Potion: PotionEternalLife}, true
	case code >= 24 && code <= 28:
		return CalendarReward{Type: CalendarPotion, Potion: PotionType(code - 24)}, true
	}
	return CalendarReward{Type: CalendarUnknown}, false
}

// ParseCalendarReward decodes a [type, amount] pair.
func ParseCalendarReward(d wire.Ints) (CalendarReward, error) {
	amount, err := d.Get(1, "calendar reward amount")
	if err != nil {
		return CalendarReward{}, err
	}
	code, err := d.Get(0, "calendar reward type")
	if err != nil {
		return CalendarReward{}, err
	}
	r := wire.Enum(code, "calendar reward type", CalendarRewardFromCode, CalendarReward{Type: CalendarUnknown})
	r.Amount = amount
	return r, nil
}

// Tasks are the daily and event task boards.
type Tasks struct {
	Daily DailyTasks `json:"daily"`
	Event EventTasks `json:"event"`
}

// TaskRecordSize is the stride of one task record: type, current, target, points.
const TaskRecordSize = 4

// RewardChestSize is the stride of one reward chest preview.
const RewardChestSize = 5

// DailyTasks is the daily board.
type DailyTasks struct {
	Tasks   []DailyTask    `json:"tasks"`
	Rewards [3]RewardChest `json:"rewards"`
}

// Completed counts finished tasks.
func (t DailyTasks) Completed() int {
	n := 0
	for _, task := range t.Tasks {
		if task.IsCompleted() {
			n++
		}
	}
	return n
}

// EarnedPoints sums points of finished tasks.
func (t DailyTasks) EarnedPoints() uint32 {
	var n uint32
	for _, task := range t.Tasks {
		if task.IsCompleted() {
			n += task.PointReward
		}
	}
	return n
}

// EventTasks is the themed event board.
type EventTasks struct {
	Theme   EventTasksTheme `json:"theme"`
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Tasks   []EventTask     `json:"tasks"`
	Rewards [3]RewardChest  `json:"rewards"`
}

// Completed counts finished tasks.
func (t EventTasks) Completed() int {
	n := 0
	for _, task := range t.Tasks {
		if task.IsCompleted() {
			n++
		}
	}
	return n
}

// DailyTaskType is what a daily task asks for. TravelTo, WinFightsAgainst and
// Upgrade are qualified by the Location, Class and Attribute of the task.
type DailyTaskType uint8

const (
	DailyDrinkBeer DailyTaskType = iota
	DailyFindGemInFortress
	DailyConsumeThirstForAdventure
	DailyFightGuildHydra
	DailyFightGuildPortal
	DailySpinWheelOfFortune
	DailyFeedPets
	DailyFightOtherPets
	DailyBlacksmithDismantle
	DailyThrowItemInToilet
	DailyPlayDice
	DailyLureHeroesInUnderworld
	DailyEnterDemonPortal
	DailyGuildReadyFight
	DailySacrificeRunes
	DailyTravelTo
	DailyWinFights
	DailyWinFightsAgainst
	DailyDefeatOtherPet
	DailyThrowItemInCauldron
	DailyWinFightsWithBareHands
	DailyDefeatGambler
	DailyUpgrade
	DailyConsumeThirstFromUnderworld
	DailyUpgradeArenaManager
	DailyThrowEpicInToilet
	DailyBuyOfferFromArenaManager
	DailyFightInPetHabitat
	DailyWinFightsWithoutEpics

	DailyUnknown DailyTaskType = 255
)

// TaskKind is a task type with its qualifier. Unused qualifiers keep their
// unknown values.
type TaskKind struct {
	Type      DailyTaskType
	Location  Location
	Class     Class
	Attribute AttributeType
}

// fightsAgainst maps the shared "win fights against <class>" codes used by
// both task boards.
var fightsAgainst = map[int64]Class{
	48: Warrior, 49: Mage, 50: Scout, 51: Assassin, 52: Druid,
	53: Bard, 54: BattleMage, 55: Berserker, 56: DemonHunter, 92: Necromancer,
}

var dailySimple = map[int64]DailyTaskType{
	1: DailyDrinkBeer, 2: DailyConsumeThirstForAdventure, 3: DailyWinFights,
	4: DailySpinWheelOfFortune, 5: DailyFightGuildHydra, 6: DailyFightGuildPortal,
	7: DailyFeedPets, 8: DailyFightOtherPets, 9: DailyBlacksmithDismantle,
	10: DailyThrowItemInToilet, 11: DailyPlayDice, 12: DailyLureHeroesInUnderworld,
	13: DailyEnterDemonPortal, 14: DailyDefeatGambler,
	18: DailyConsumeThirstFromUnderworld, 19: DailyGuildReadyFight,
	20: DailyFindGemInFortress, 21: DailyThrowItemInCauldron,
	22: DailyFightInPetHabitat, 23: DailyUpgradeArenaManager,
	24: DailySacrificeRunes, 46: DailyThrowEpicInToilet,
	47: DailyBuyOfferFromArenaManager, 57: DailyWinFightsWithBareHands,
	58: DailyDefeatOtherPet, 77: DailyWinFightsWithoutEpics,
}

// DailyTaskFromCode maps a raw daily task code. Codes 25..45 are travel
// tasks whose location is code-24.
func DailyTaskFromCode(code int64) (TaskKind, bool) {
	kind := TaskKind{Type: DailyUnknown, Class: ClassUnknown}
	if t, ok := dailySimple[code]; ok {
		kind.Type = t
		return kind, true
	}
	if c, ok := fightsAgainst[code]; ok {
		kind.Type, kind.Class = DailyWinFightsAgainst, c
		return kind, true
	}
	switch {
	case code >= 15 && code <= 17:
		kind.Type, kind.Attribute = DailyUpgrade, AttributeType(code-15)
		return kind, true
	case code >= 25 && code <= 45:
		loc, ok := LocationFromCode(code - 24)
		if !ok {
			return kind, false
		}
		kind.Type, kind.Location = DailyTravelTo, loc
		return kind, true
	}
	return kind, false
}

// DailyTask is one daily board entry.
type DailyTask struct {
	Type        DailyTaskType `json:"type"`
	Location    Location      `json:"location,omitempty"`
	Class       Class         `json:"class"`
	Attribute   AttributeType `json:"attribute,omitempty"`
	Current     uint64        `json:"current"`
	Target      uint64        `json:"target"`
	PointReward uint32        `json:"point_reward"`
}

// IsCompleted reports whether the target has been reached.
func (t DailyTask) IsCompleted() bool {
	return t.Current >= t.Target
}

// ParseDailyTask decodes one 4-integer record.
func ParseDailyTask(d wire.Ints) (DailyTask, error) {
	code, err := d.Get(0, "daily task type")
	if err != nil {
		return DailyTask{}, err
	}
	kind := wire.Enum(code, "daily task type", DailyTaskFromCode, TaskKind{Type: DailyUnknown, Class: ClassUnknown})
	return DailyTask{
		Type:        kind.Type,
		Location:    kind.Location,
		Class:       kind.Class,
		Attribute:   kind.Attribute,
		Current:     wire.Soft[uint64](d, 1, "daily task current", 0),
		Target:      wire.Soft[uint64](d, 2, "daily task target", 999),
		PointReward: wire.Soft[uint32](d, 3, "daily task points", 0),
	}, nil
}

// EventTaskType is what an event task asks for. WinFightsAgainst is
// qualified by the task's Class.
type EventTaskType uint8

const (
	EventLureHeroesIntoUnderworld EventTaskType = iota
	EventWinFightsAgainst
	EventWinFightsBareHands
	EventSpendGoldInShop
	EventSpendGoldOnUpgrades
	EventRequestNewGoods
	EventBuyHourGlasses
	EventSkipQuest
	EventSkipGameOfDiceWait
	EventWinFights
	EventWinFightsBackToBack
	EventWinFightsNoChestplate
	EventWinFightsNoGear
	EventWinFightsNoEpicsLegendaries
	EventEarnMoneyCityGuard
	EventEarnMoneyFromHoFFights
	EventEarnMoneySellingItems
	EventCollectGoldFromPit
	EventGainXPFromQuests
	EventGainXPFromAcademy
	EventGainXPFromArenaFights
	EventGainXPFromAdventuromatic
	EventClaimSoulsFromExtractor
	EventFillMushroomsInAdventuromatic

	EventTaskUnknown EventTaskType = 255
)

var eventSimple = map[int64]EventTaskType{
	12: EventLureHeroesIntoUnderworld, 57: EventWinFightsBareHands,
	65: EventSpendGoldInShop, 66: EventSpendGoldOnUpgrades,
	67: EventRequestNewGoods, 68: EventBuyHourGlasses, 69: EventSkipQuest,
	70: EventSkipGameOfDiceWait, 71: EventWinFights, 72: EventWinFightsBackToBack,
	75: EventWinFightsNoChestplate, 76: EventWinFightsNoGear,
	77: EventWinFightsNoEpicsLegendaries, 78: EventEarnMoneyCityGuard,
	79: EventEarnMoneyFromHoFFights, 80: EventEarnMoneySellingItems,
	81: EventCollectGoldFromPit, 82: EventGainXPFromQuests,
	83: EventGainXPFromAcademy, 84: EventGainXPFromArenaFights,
	85: EventGainXPFromAdventuromatic, 90: EventClaimSoulsFromExtractor,
	91: EventFillMushroomsInAdventuromatic,
}

type eventTaskKind struct {
	Type  EventTaskType
	Class Class
}

// EventTaskFromCode maps a raw event task code.
func EventTaskFromCode(code int64) (EventTaskType, Class, bool) {
	if t, ok := eventSimple[code]; ok {
		return t, ClassUnknown, true
	}
	if c, ok := fightsAgainst[code]; ok {
		return EventWinFightsAgainst, c, true
	}
	return EventTaskUnknown, ClassUnknown, false
}

// EventTask is one event board entry.
type EventTask struct {
	Type        EventTaskType `json:"type"`
	Class       Class         `json:"class"`
	Current     uint64        `json:"current"`
	Target      uint64        `json:"target"`
	PointReward uint32        `json:"point_reward"`
}

// IsCompleted reports whether the target has been reached.
func (t EventTask) IsCompleted() bool {
	return t.Current >= t.Target
}

// ParseEventTask decodes one 4-integer record.
func ParseEventTask(d wire.Ints) (EventTask, error) {
	code, err := d.Get(0, "event task type")
	if err != nil {
		return EventTask{}, err
	}
	kind := wire.Enum(code, "event task type", func(c int64) (eventTaskKind, bool) {
		t, cls, ok := EventTaskFromCode(c)
		return eventTaskKind{t, cls}, ok
	}, eventTaskKind{EventTaskUnknown, ClassUnknown})
	return EventTask{
		Type:        kind.Type,
		Class:       kind.Class,
		Current:     wire.Soft[uint64](d, 1, "event task current", 0),
		Target:      wire.Soft[uint64](d, 2, "event task target", math.MaxUint64),
		PointReward: wire.Soft[uint32](d, 3, "event task points", 0),
	}, nil
}

// EventTasksTheme is the theme of the event board.
type EventTasksTheme uint8

const (
	ThemeShoppingSpree    EventTasksTheme = 4
	ThemeTimeSkipper      EventTasksTheme = 5
	ThemeRuffianReset     EventTasksTheme = 6
	ThemePartTimeNudist   EventTasksTheme = 7
	ThemeScrimper         EventTasksTheme = 8
	ThemeScholar          EventTasksTheme = 9
	ThemeUnderworldFigure EventTasksTheme = 11
	ThemeUnknown          EventTasksTheme = 245
)

// EventTasksThemeFromCode maps a raw theme code.
func EventTasksThemeFromCode(code int64) (EventTasksTheme, bool) {
	switch code {
	case 4, 5, 6, 7, 8, 9, 11:
		return EventTasksTheme(code), true
	}
	return ThemeUnknown, false
}

// RewardType is the kind of a chest or halftime reward.
type RewardType uint16

const (
	RewardExtraBeer  RewardType = 2
	RewardMushroom   RewardType = 3
	RewardSilver     RewardType = 4
	RewardLuckyCoins RewardType = 5
	RewardStone      RewardType = 9
	RewardSouls      RewardType = 10
	RewardExperience RewardType = 24
	RewardHourglass  RewardType = 26
	RewardBeer       RewardType = 28
	RewardUnknown    RewardType = 999
)

// RewardTypeFromCode maps a raw reward code.
func RewardTypeFromCode(code int64) (RewardType, bool) {
	switch code {
	case 2, 3, 4, 5, 9, 10, 24, 26, 28:
		return RewardType(code), true
	}
	return RewardUnknown, false
}

// Reward is a [type, amount] pair.
type Reward struct {
	Type   RewardType `json:"type"`
	Amount uint64     `json:"amount"`
}

// ParseReward decodes a [type, amount] pair.
func ParseReward(d wire.Ints) (Reward, error) {
	code, err := d.Get(0, "reward type")
	if err != nil {
		return Reward{}, err
	}
	return Reward{
		Type:   wire.Enum(code, "reward type", RewardTypeFromCode, RewardUnknown),
		Amount: wire.Soft[uint64](d, 1, "reward amount", 0),
	}, nil
}

// RewardChest holds up to two rewards.
type RewardChest struct {
	Opened  bool       `json:"opened"`
	Rewards [2]*Reward `json:"rewards"`
}

// ParseRewardChest decodes a chest record. A 5-integer record carries one
// reward at offset 3; longer records carry a second one at offset 5.
func ParseRewardChest(d wire.Ints) (RewardChest, error) {
	opened, err := d.Get(0, "reward chest opened")
	if err != nil {
		return RewardChest{}, err
	}
	offsets := []int{3, 5}
	if len(d) == RewardChestSize {
		offsets = offsets[:1]
	}

	chest := RewardChest{Opened: opened == 1}
	for i, off := range offsets {
		w, err := d.Skip(off, "reward chest slot")
		if err != nil {
			return RewardChest{}, err
		}
		r, err := ParseReward(w)
		if err != nil {
			return RewardChest{}, err
		}
		chest.Rewards[i] = &r
	}
	return chest, nil
}

// updateChestPreview decodes consecutive 5-integer chest records into
// chests. Chests past the end of a short preview keep their previous value.
func updateChestPreview(chests *[3]RewardChest, d wire.Ints, label string) error {
	chunks := d.Chunks(RewardChestSize)
	if len(chunks) < len(chests) {
		slog.Warn("short reward chest preview", "field", label, "value", len(d))
	}
	for i, chunk := range chunks {
		if i == len(chests) {
			break
		}
		c, err := ParseRewardChest(chunk)
		if err != nil {
			return err
		}
		chests[i] = c
	}
	return nil
}
