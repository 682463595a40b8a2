package gamestate

import "encoding/json"

type slotState uint8

const (
	slotLocked    slotState = iota // not unlocked / not reported
	slotFresh                      // materialized during the current update
	slotPersisted                  // survived at least one reconciliation
)

// Slot holds an optional sub-state. Decoders materialize it the moment any
// of its fields shows up; the reconciliation pass at the end of an update
// either persists it or prunes it back to locked.
type Slot[T any] struct {
	state slotState
	val   *T
}

// Get returns the sub-state, or nil while it is locked.
func (s *Slot[T]) Get() *T {
	return s.val
}

// Present reports whether the sub-state exists.
func (s *Slot[T]) Present() bool {
	return s.val != nil
}

// Materialize returns the sub-state, creating a zero-valued one if needed.
func (s *Slot[T]) Materialize() *T {
	if s.val == nil {
		s.val = new(T)
		s.state = slotFresh
	}
	return s.val
}

// Set replaces the sub-state wholesale. nil locks it.
func (s *Slot[T]) Set(v *T) {
	if v == nil {
		s.Clear()
		return
	}
	s.val = v
	if s.state == slotLocked {
		s.state = slotFresh
	}
}

// Clear locks the sub-state.
func (s *Slot[T]) Clear() {
	s.val = nil
	s.state = slotLocked
}

// settle runs once per update. keep may be nil for sub-states that are
// never pruned.
func (s *Slot[T]) settle(keep func(*T) bool) {
	if s.val == nil {
		s.state = slotLocked
		return
	}
	if keep != nil && !keep(s.val) {
		s.Clear()
		return
	}
	s.state = slotPersisted
}

func (s Slot[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.val)
}

func (s *Slot[T]) UnmarshalJSON(data []byte) error {
	var v *T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.val = v
	s.state = slotLocked
	if v != nil {
		s.state = slotPersisted
	}
	return nil
}
