package gamestate

import (
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/sfstate/internal/response"
	"github.com/udisondev/sfstate/internal/wire"
)

// receivedAt is the local instant every test response arrives at. With a
// matching "timestamp" field the clock offset is zero.
var receivedAt = time.Unix(1_700_000_000, 0)

const serverNow = 1_700_000_000

func resp(pairs ...string) *response.Response {
	return response.FromPairs(receivedAt, pairs...)
}

func join(d []int64) string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, response.ListSeparator)
}

// itemRecord is a well-formed 12-integer item with one strength bonus.
func itemRecord(typ ItemType, model int64) []int64 {
	return []int64{int64(typ), model, 10, 20, 1, 0, 0, 5, 0, 0, 100, 2}
}

func shopRecords(typ ItemType) []int64 {
	out := make([]int64, 0, ShopSlots*ItemStride)
	for i := 0; i < ShopSlots; i++ {
		out = append(out, itemRecord(typ, int64(i+1))...)
	}
	return out
}

// newSave returns a minimal valid player save: zero everywhere except both
// shops, which must hold six items each.
func newSave() wire.Ints {
	d := make(wire.Ints, PlayerSaveMinLen+10)
	copy(d[savePlayerWeaponShop:], shopRecords(ItemWeapon))
	copy(d[savePlayerMagicShop:], shopRecords(ItemRing))
	return d
}

// loggedIn is a snapshot built from a name, a level 100 save and a guild.
func loggedIn() *Snapshot {
	save := newSave()
	save[savePlayerLevel] = 100
	s := &Snapshot{}
	s.SetLocation(time.UTC)
	if err := s.Update(resp(
		"timestamp", strconv.Itoa(serverNow),
		"ownplayername", "Foo",
		"ownplayersave", join(save),
	)); err != nil {
		panic(err)
	}
	return s
}
