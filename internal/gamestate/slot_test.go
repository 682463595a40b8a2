package gamestate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_Lifecycle(t *testing.T) {
	t.Parallel()

	var s Slot[Witch]
	assert.False(t, s.Present())
	assert.Nil(t, s.Get())

	w := s.Materialize()
	require.NotNil(t, w)
	assert.Same(t, w, s.Materialize(), "materialize is idempotent")
	assert.Equal(t, slotFresh, s.state)

	s.settle(nil)
	assert.Equal(t, slotPersisted, s.state)
	assert.True(t, s.Present())

	s.Set(nil)
	assert.False(t, s.Present())
	assert.Equal(t, slotLocked, s.state)
}

func TestSlot_SettlePrunes(t *testing.T) {
	t.Parallel()

	var s Slot[Pets]
	s.Materialize()
	s.settle(func(p *Pets) bool { return p.Rank != 0 })
	assert.False(t, s.Present())

	s.Set(&Pets{Rank: 3})
	s.settle(func(p *Pets) bool { return p.Rank != 0 })
	require.True(t, s.Present())
	assert.Equal(t, uint32(3), s.Get().Rank)

	var empty Slot[Pets]
	empty.settle(nil)
	assert.Equal(t, slotLocked, empty.state)
}

func TestSlot_JSON(t *testing.T) {
	t.Parallel()

	var s Slot[Pets]
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	s.Set(&Pets{Rank: 8})
	raw, err = json.Marshal(s)
	require.NoError(t, err)

	var back Slot[Pets]
	require.NoError(t, json.Unmarshal(raw, &back))
	require.True(t, back.Present())
	assert.Equal(t, uint32(8), back.Get().Rank)
	assert.Equal(t, slotPersisted, back.state)

	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.False(t, back.Present())
}
