package gamestate

import (
	"log/slog"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// QuestSlots is the number of tavern quest offers.
const QuestSlots = 3

// Tavern holds quests, the city guard and the tavern side games.
type Tavern struct {
	CurrentAction      CurrentAction     `json:"current_action"`
	Quests             [QuestSlots]Quest `json:"quests"`
	ThirstForAdventure uint32            `json:"thirst_for_adventure_sec"`
	BeerDrunk          uint8             `json:"beer_drunk"`
	QuicksandGlasses   uint32            `json:"quicksand_glasses"`
	GuardWage          uint64            `json:"guard_wage"`
	SkipAllowed        bool              `json:"skip_allowed"`
	QuestingPreference ExpeditionSetting `json:"questing_preference"`
	Toilet             *Toilet           `json:"toilet,omitempty"`
	DiceGame           DiceGame          `json:"dice_game"`
	GambleResult       *GambleResult     `json:"gamble_result,omitempty"`
	Expeditions        ExpeditionsEvent  `json:"expeditions"`
}

// ActionKind is what the character is busy with.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionCityGuard
	ActionQuest
	ActionExpedition

	ActionUnknown ActionKind = 255
)

func (k ActionKind) String() string {
	switch k {
	case ActionIdle:
		return "idle"
	case ActionCityGuard:
		return "city guard"
	case ActionQuest:
		return "quest"
	case ActionExpedition:
		return "expedition"
	}
	return "unknown"
}

// ActionKindFromCode maps the action status word.
func ActionKindFromCode(code int64) (ActionKind, bool) {
	if code < int64(ActionIdle) || code > int64(ActionExpedition) {
		return ActionUnknown, false
	}
	return ActionKind(code), true
}

// CurrentAction is the running tavern activity. Index is the guard hours or
// the 1-based quest slot, depending on Kind.
type CurrentAction struct {
	Kind      ActionKind `json:"kind"`
	Index     int64      `json:"index"`
	BusyUntil time.Time  `json:"busy_until"`
}

// Quest is one tavern quest offer.
type Quest struct {
	Location  Location `json:"location"`
	MonsterID int64    `json:"monster_id"`
	Length    uint32   `json:"length_sec"`
	XP        uint64   `json:"xp"`
	Silver    uint64   `json:"silver"`
}

// Toilet is the tavern toilet. It stays nil until its level is positive.
type Toilet struct {
	Used           bool   `json:"used"`
	Level          uint8  `json:"level"`
	Aura           uint32 `json:"aura"`
	ManaCurrent    uint32 `json:"mana_current"`
	ManaTotal      uint32 `json:"mana_total"`
	SacrificesLeft uint32 `json:"sacrifices_left"`
}

// ExpeditionSetting is the questing preference from the user settings.
type ExpeditionSetting uint8

const (
	PreferQuests ExpeditionSetting = iota
	PreferExpeditions
)

// DiceType is one face of the tavern dice game.
type DiceType uint8

const (
	DiceReRoll DiceType = iota
	DiceSilver
	DiceStone
	DiceWood
	DiceSouls
	DiceArcane
	DiceHourglass
)

// DiceTypeFromCode maps a die face.
func DiceTypeFromCode(code int64) (DiceType, bool) {
	if code < int64(DiceReRoll) || code > int64(DiceHourglass) {
		return 0, false
	}
	return DiceType(code), true
}

// DiceGame is the state of the dice game.
type DiceGame struct {
	Remaining   uint8       `json:"remaining"`
	NextFree    time.Time   `json:"next_free"`
	CurrentDice []DiceType  `json:"current_dice"`
	Reward      *DiceReward `json:"reward,omitempty"`
}

// DiceReward is the payout of the last dice game.
type DiceReward struct {
	WinType DiceType `json:"win_type"`
	Amount  uint32   `json:"amount"`
}

// GambleKind tells which currency a gamble changed.
type GambleKind uint8

const (
	GambleSilver GambleKind = iota
	GambleMushrooms
)

// GambleResult is the outcome of the last gamble.
type GambleResult struct {
	Kind   GambleKind `json:"kind"`
	Change int64      `json:"change"`
}

// Save array layout of the tavern block.
const (
	saveActionStatus    = 45
	saveActionIndex     = 46
	saveActionBusyUntil = 47
	saveQuestLocation   = 235
	saveQuestMonster    = 238
	saveQuestLength     = 241
	saveQuestXP         = 280
	saveQuestSilver     = 283
	saveThirst          = 456
	saveBeerDrunk       = 457
	saveToiletLevel     = 491
	saveToiletAura      = 492
	saveToiletMana      = 515
	saveToiletManaTotal = 516
	saveToiletSacrifice = 517
)

func (t *Tavern) updateFromSave(d wire.Ints, st wire.ServerTime) {
	t.CurrentAction = CurrentAction{
		Kind:      wire.EnumAt(d, saveActionStatus, "action status", ActionKindFromCode, ActionUnknown),
		Index:     wire.Soft[int64](d, saveActionIndex, "action index", 0),
		BusyUntil: st.ConvertAt(d, saveActionBusyUntil, "action busy until"),
	}
	for i := range t.Quests {
		t.Quests[i] = Quest{
			Location:  wire.EnumAt(d, saveQuestLocation+i, "quest location", LocationFromCode, LocationUnknown),
			MonsterID: wire.Soft[int64](d, saveQuestMonster+i, "quest monster", 0),
			Length:    wire.Soft[uint32](d, saveQuestLength+i, "quest length", 0),
			XP:        wire.Soft[uint64](d, saveQuestXP+i, "quest xp", 0),
			Silver:    wire.Soft[uint64](d, saveQuestSilver+i, "quest silver", 0),
		}
	}
	t.ThirstForAdventure = wire.Soft[uint32](d, saveThirst, "thirst for adventure", 0)
	t.BeerDrunk = wire.Soft[uint8](d, saveBeerDrunk, "beer drunk", 0)

	if wire.Soft[int64](d, saveToiletLevel, "toilet level", 0) > 0 {
		if t.Toilet == nil {
			t.Toilet = &Toilet{}
		}
		t.Toilet.Level = wire.Soft[uint8](d, saveToiletLevel, "toilet level", 0)
		t.Toilet.Aura = wire.Soft[uint32](d, saveToiletAura, "toilet aura", 0)
		t.Toilet.ManaCurrent = wire.Soft[uint32](d, saveToiletMana, "toilet mana", 0)
		t.Toilet.ManaTotal = wire.Soft[uint32](d, saveToiletManaTotal, "toilet mana total", 0)
		t.Toilet.SacrificesLeft = wire.Soft[uint32](d, saveToiletSacrifice, "toilet sacrifices", 0)
	}
}

// parseQuestingPreference reads the fifth "/" part of usersettings.
func parseQuestingPreference(parts []string) (ExpeditionSetting, error) {
	if len(parts) < 5 {
		return PreferQuests, wire.NewParsingError("questing setting", parts)
	}
	switch parts[4] {
	case "a":
		return PreferExpeditions, nil
	case "0", "b":
		return PreferQuests, nil
	default:
		slog.Warn("unknown questing setting", "field", "usersettings", "value", parts[4])
		return PreferQuests, nil
	}
}

// parseDice maps the current dice faces. Any unknown face drops the list.
func parseDice(d wire.Ints) []DiceType {
	out := make([]DiceType, 0, len(d))
	for _, v := range d {
		t, ok := DiceTypeFromCode(v)
		if !ok {
			slog.Warn("unknown dice face", "field", "dicestatus", "value", v)
			return nil
		}
		out = append(out, t)
	}
	return out
}

// parseDiceReward decodes [1-based face, amount]. An unknown face is fatal.
func parseDiceReward(d wire.Ints) (*DiceReward, error) {
	face, err := d.Get(0, "dice reward")
	if err != nil {
		return nil, err
	}
	t, ok := DiceTypeFromCode(face - 1)
	if !ok {
		return nil, wire.NewParsingError("dice reward", face)
	}
	return &DiceReward{
		WinType: t,
		Amount:  wire.Soft[uint32](d, 1, "dice reward amount", 0),
	}, nil
}
