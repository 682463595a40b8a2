// Package gamestate decodes server responses into a typed account snapshot.
package gamestate

import (
	"fmt"
	"time"

	"github.com/udisondev/sfstate/internal/response"
	"github.com/udisondev/sfstate/internal/wire"
)

// Snapshot is everything known about one account. It is owned by a single
// caller and not safe for concurrent use.
type Snapshot struct {
	Character Character     `json:"character"`
	Tavern    Tavern        `json:"tavern"`
	Arena     Arena         `json:"arena"`
	LastFight *Fight        `json:"last_fight,omitempty"`
	Shops     [2]Shop       `json:"shops"`
	Guild     Slot[Guild]   `json:"guild"`
	Specials  TimedSpecials `json:"specials"`
	Dungeons  Dungeons      `json:"dungeons"`

	Underworld Slot[Underworld] `json:"underworld"`
	Fortress   Slot[Fortress]   `json:"fortress"`
	Pets       Slot[Pets]       `json:"pets"`
	Blacksmith Slot[Blacksmith] `json:"blacksmith"`
	Witch      Slot[Witch]      `json:"witch"`
	IdleGame   Slot[IdleGame]   `json:"idle_game"`

	Hellevator     HellevatorEvent `json:"hellevator"`
	Achievements   []Achievement   `json:"achievements,omitempty"`
	PendingUnlocks []Unlockable    `json:"pending_unlocks,omitempty"`
	HallOfFames    HallOfFames     `json:"hall_of_fames"`
	Mail           Mail            `json:"mail"`

	LastRequestTimestamp int64 `json:"last_request_timestamp"`
	ClockOffset          int64 `json:"clock_offset"`

	loc *time.Location
}

// New builds a snapshot from the first response of a session. The response
// must carry the player name and save.
func New(resp *response.Response) (*Snapshot, error) {
	s := &Snapshot{}
	if err := s.Update(resp); err != nil {
		return nil, err
	}
	if !s.Complete() {
		return nil, fmt.Errorf("new snapshot: %w", wire.ErrIncompleteState)
	}
	return s, nil
}

// Complete reports whether the player name and save have been seen.
func (s *Snapshot) Complete() bool {
	return s.Character.Level > 0 && s.Character.Name != ""
}

// SetLocation sets the server civil time zone. Nil means time.Local.
func (s *Snapshot) SetLocation(loc *time.Location) {
	s.loc = loc
}

// ServerTime returns the clock built from the last known offset.
func (s *Snapshot) ServerTime() wire.ServerTime {
	return wire.NewServerTime(s.ClockOffset, s.loc)
}

// Update applies every field of resp in order. The first hard failure aborts
// the call; fields applied before it stay applied and reconciliation is
// skipped.
func (s *Snapshot) Update(resp *response.Response) error {
	if v, ok := resp.Get("timestamp"); ok {
		ts, err := v.Int("server time stamp")
		if err != nil {
			return err
		}
		s.ClockOffset = wire.OffsetFrom(ts, resp.ReceivedAt())
		s.LastRequestTimestamp = ts
	}

	s.LastFight = nil
	u := &update{s: s, st: s.ServerTime()}
	for _, f := range resp.Fields() {
		if err := u.apply(f); err != nil {
			return err
		}
	}
	s.reconcile(u)
	return nil
}

// wheelContext derives the wheel upgrade flag from the current state.
func (s *Snapshot) wheelContext() WheelContext {
	return WheelContext{
		Upgraded: s.Character.Level >= 95 && s.Pets.Present() && s.Underworld.Present(),
	}
}

// reconcile commits staged lookups and prunes optional sub-states whose
// defining counter says they are locked.
func (s *Snapshot) reconcile(u *update) {
	if exp := s.Tavern.Expeditions.Active; exp != nil {
		exp.adjustBountyHeroism()
	}
	if u.otherGuild != nil {
		s.HallOfFames.commitGuild(u.otherGuild)
	}
	if u.otherPlayer != nil {
		s.HallOfFames.commitPlayer(u.otherPlayer)
	}

	s.Dungeons.Portal.settle(func(p *Portal) bool { return p.Current != 0 })
	s.Pets.settle(func(p *Pets) bool { return p.Rank != 0 })
	s.Guild.settle(func(g *Guild) bool { return g.Name != "" })
	s.Fortress.settle(func(f *Fortress) bool { return f.Upgrades != 0 })
	s.Underworld.settle(func(u *Underworld) bool { return u.Honor != 0 })
	s.Blacksmith.settle(nil)
	s.Witch.settle(nil)
	s.IdleGame.settle(nil)
}
