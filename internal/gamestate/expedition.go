package gamestate

import (
	"log/slog"
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// ExpeditionRecordSize is the stride of one offered expedition.
const ExpeditionRecordSize = 8

// ExpeditionItemSlots is the number of bounty item slots on an expedition.
const ExpeditionItemSlots = 4

// heroismBountyBonus is added to a crossroad encounter whose bounty is held.
const heroismBountyBonus = 10

// ExpeditionsEvent is the expedition season.
type ExpeditionsEvent struct {
	Start     time.Time             `json:"start"`
	End       time.Time             `json:"end"`
	Available []AvailableExpedition `json:"available,omitempty"`
	Active    *Expedition           `json:"active,omitempty"`
}

// active returns the running expedition, creating it on first use.
func (e *ExpeditionsEvent) active() *Expedition {
	if e.Active == nil {
		e.Active = &Expedition{}
	}
	return e.Active
}

// AvailableExpedition is one offer in the tavern.
type AvailableExpedition struct {
	Target             ExpeditionThing `json:"target"`
	ThirstForAdventure uint32          `json:"thirst_for_adventure_sec"`
	Location1          Location        `json:"location_1"`
	Location2          Location        `json:"location_2"`
}

// Expedition is the running expedition.
type Expedition struct {
	CurrentFloor  uint8                                `json:"current_floor"`
	FloorStage    int64                                `json:"floor_stage"`
	TargetThing   ExpeditionThing                      `json:"target_thing"`
	TargetCurrent uint8                                `json:"target_current"`
	TargetAmount  uint8                                `json:"target_amount"`
	Heroism       int32                                `json:"heroism"`
	Items         [ExpeditionItemSlots]ExpeditionThing `json:"items"`
	BusyUntil     time.Time                            `json:"busy_until"`

	Boss              ExpeditionBoss        `json:"boss"`
	HalftimeForBossID int64                 `json:"halftime_for_boss_id"`
	Rewards           []Reward              `json:"rewards,omitempty"`
	Crossroads        []ExpeditionEncounter `json:"crossroads,omitempty"`
}

// ExpeditionBoss is the monster guarding the current floor.
type ExpeditionBoss struct {
	ID    int64 `json:"id"`
	Items uint8 `json:"items"`
}

// ExpeditionEncounter is one crossroad choice. BaseHeroism is the value the
// server sent; Heroism includes the bounty bonus.
type ExpeditionEncounter struct {
	Type        ExpeditionThing `json:"type"`
	BaseHeroism int32           `json:"base_heroism"`
	Heroism     int32           `json:"heroism"`
}

// ExpeditionThing is anything found or fought on an expedition. 0 is an
// empty slot.
type ExpeditionThing uint8

const (
	ThingNone            ExpeditionThing = 0
	ThingDummy1          ExpeditionThing = 1
	ThingDummy2          ExpeditionThing = 2
	ThingDummy3          ExpeditionThing = 3
	ThingToiletPaper     ExpeditionThing = 11
	ThingBait            ExpeditionThing = 21
	ThingDragon          ExpeditionThing = 22
	ThingCampFire        ExpeditionThing = 31
	ThingPhoenix         ExpeditionThing = 32
	ThingBurntCampfire   ExpeditionThing = 33
	ThingUnicornHorn     ExpeditionThing = 41
	ThingDonkey          ExpeditionThing = 42
	ThingRainbow         ExpeditionThing = 43
	ThingUnicorn         ExpeditionThing = 44
	ThingCupCake         ExpeditionThing = 51
	ThingCake            ExpeditionThing = 61
	ThingSmallHurdle     ExpeditionThing = 71
	ThingBigHurdle       ExpeditionThing = 72
	ThingWinnersPodium   ExpeditionThing = 73
	ThingSocks           ExpeditionThing = 81
	ThingClothPile       ExpeditionThing = 82
	ThingRevealingCouple ExpeditionThing = 83
	ThingSwordInStone    ExpeditionThing = 91
	ThingBentSword       ExpeditionThing = 92
	ThingBrokenSword     ExpeditionThing = 93
	ThingWell            ExpeditionThing = 101
	ThingGirl            ExpeditionThing = 102
	ThingBalloons        ExpeditionThing = 103
	ThingPrince          ExpeditionThing = 111
	ThingRoyalFrog       ExpeditionThing = 112
	ThingHand            ExpeditionThing = 121
	ThingFeet            ExpeditionThing = 122
	ThingBody            ExpeditionThing = 123
	ThingKlaus           ExpeditionThing = 124
	ThingKey             ExpeditionThing = 131
	ThingSuitcase        ExpeditionThing = 132

	ThingUnknown ExpeditionThing = 255
)

var knownThings = map[ExpeditionThing]struct{}{
	ThingNone: {}, ThingDummy1: {}, ThingDummy2: {}, ThingDummy3: {},
	ThingToiletPaper: {}, ThingBait: {}, ThingDragon: {}, ThingCampFire: {},
	ThingPhoenix: {}, ThingBurntCampfire: {}, ThingUnicornHorn: {},
	ThingDonkey: {}, ThingRainbow: {}, ThingUnicorn: {}, ThingCupCake: {},
	ThingCake: {}, ThingSmallHurdle: {}, ThingBigHurdle: {},
	ThingWinnersPodium: {}, ThingSocks: {}, ThingClothPile: {},
	ThingRevealingCouple: {}, ThingSwordInStone: {}, ThingBentSword: {},
	ThingBrokenSword: {}, ThingWell: {}, ThingGirl: {}, ThingBalloons: {},
	ThingPrince: {}, ThingRoyalFrog: {}, ThingHand: {}, ThingFeet: {},
	ThingBody: {}, ThingKlaus: {}, ThingKey: {}, ThingSuitcase: {},
}

// ExpeditionThingFromCode maps a raw thing code.
func ExpeditionThingFromCode(code int64) (ExpeditionThing, bool) {
	if code < 0 || code >= int64(ThingUnknown) {
		return ThingUnknown, false
	}
	if _, ok := knownThings[ExpeditionThing(code)]; !ok {
		return ThingUnknown, false
	}
	return ExpeditionThing(code), true
}

// requiredBounty maps an encounter to the bounty item that boosts it.
var requiredBounty = map[ExpeditionThing]ExpeditionThing{
	ThingDragon:          ThingBait,
	ThingPhoenix:         ThingCampFire,
	ThingUnicorn:         ThingUnicornHorn,
	ThingCake:            ThingCupCake,
	ThingWinnersPodium:   ThingBigHurdle,
	ThingRevealingCouple: ThingClothPile,
	ThingBrokenSword:     ThingBentSword,
	ThingBalloons:        ThingGirl,
	ThingRoyalFrog:       ThingPrince,
	ThingKlaus:           ThingBody,
	ThingSuitcase:        ThingKey,
}

// RequiredBounty returns the bounty item that boosts encounter t.
func (t ExpeditionThing) RequiredBounty() (ExpeditionThing, bool) {
	b, ok := requiredBounty[t]
	return b, ok
}

// holds reports whether the bounty item is in one of the item slots.
func (e *Expedition) holds(thing ExpeditionThing) bool {
	for _, it := range e.Items {
		if it != ThingNone && it == thing {
			return true
		}
	}
	return false
}

// adjustBountyHeroism recomputes crossroad heroism from the base values,
// adding the bonus wherever the required bounty is held.
func (e *Expedition) adjustBountyHeroism() {
	for i := range e.Crossroads {
		c := &e.Crossroads[i]
		c.Heroism = c.BaseHeroism
		if b, ok := c.Type.RequiredBounty(); ok && e.holds(b) {
			c.Heroism += heroismBountyBonus
		}
	}
}

func parseAvailableExpeditions(d wire.Ints) []AvailableExpedition {
	if len(d)%ExpeditionRecordSize != 0 {
		slog.Warn("expedition list has odd size", "field", "expeditions", "value", len(d))
	}
	chunks := d.Chunks(ExpeditionRecordSize)
	out := make([]AvailableExpedition, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, AvailableExpedition{
			Target:             wire.EnumAt(c, 0, "expedition target", ExpeditionThingFromCode, ThingUnknown),
			Location1:          wire.EnumAt(c, 4, "expedition location", LocationFromCode, LocationUnknown),
			Location2:          wire.EnumAt(c, 5, "expedition location", LocationFromCode, LocationUnknown),
			ThirstForAdventure: wire.Soft[uint32](c, 6, "expedition thirst", 600),
		})
	}
	return out
}

// updateState decodes expeditionstate.
func (e *Expedition) updateState(d wire.Ints, st wire.ServerTime) {
	e.CurrentFloor = wire.Soft[uint8](d, 0, "expedition floor", 0)
	e.FloorStage = wire.Soft[int64](d, 2, "expedition floor stage", 0)
	e.TargetThing = wire.EnumAt(d, 3, "expedition target", ExpeditionThingFromCode, ThingUnknown)
	e.TargetCurrent = wire.Soft[uint8](d, 7, "expedition target current", 100)
	e.TargetAmount = wire.Soft[uint8](d, 8, "expedition target amount", 100)
	for i := range e.Items {
		e.Items[i] = wire.EnumAt(d, 9+i, "expedition item", ExpeditionThingFromCode, ThingUnknown)
	}
	e.Heroism = wire.Soft[int32](d, 13, "expedition heroism", 0)
	e.BusyUntil = st.ConvertAt(d, 16, "expedition busy until")
}

// updateCrossroads decodes (type, heroism) pairs.
func (e *Expedition) updateCrossroads(d wire.Ints) {
	chunks := d.Chunks(2)
	e.Crossroads = make([]ExpeditionEncounter, 0, len(chunks))
	for _, c := range chunks {
		h := wire.Soft[int32](c, 1, "crossroad heroism", 0)
		e.Crossroads = append(e.Crossroads, ExpeditionEncounter{
			Type:        wire.Enum(c[0], "crossroad type", ExpeditionThingFromCode, ThingUnknown),
			BaseHeroism: h,
			Heroism:     h,
		})
	}
}

// updateBoss decodes expeditionmonster. The boss id is sent negated.
func (e *Expedition) updateBoss(d wire.Ints) error {
	raw, err := d.Get(0, "expedition monster")
	if err != nil {
		return err
	}
	e.Boss = ExpeditionBoss{
		ID:    -raw,
		Items: wire.Soft[uint8](d, 1, "expedition monster items", 3),
	}
	return nil
}

// updateHalftime decodes the boss id and the halftime reward choices.
func (e *Expedition) updateHalftime(d wire.Ints) error {
	raw, err := d.Get(0, "halftime boss")
	if err != nil {
		return err
	}
	rest, err := d.Skip(1, "halftime choice")
	if err != nil {
		return err
	}
	rewards := make([]Reward, 0, len(rest)/2)
	for _, c := range rest.Chunks(2) {
		r, err := ParseReward(c)
		if err != nil {
			return err
		}
		rewards = append(rewards, r)
	}
	e.HalftimeForBossID = -raw
	e.Rewards = rewards
	return nil
}
