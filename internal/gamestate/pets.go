package gamestate

import (
	"time"

	"github.com/udisondev/sfstate/internal/wire"
)

// PetsPerHabitat is the number of pets a habitat holds.
const PetsPerHabitat = 20

// ownpets array layout.
const (
	petsLevels      = 2
	petsBattlesWon  = petsLevels + habitatCount*PetsPerHabitat
	petsNextBattle  = petsBattlesWon + habitatCount
	petsOpponentID  = petsNextBattle + 1
	petsOpponentLvl = petsOpponentID + 1
)

// Pets is the pet collection, present once unlocked.
type Pets struct {
	Rank                uint32                   `json:"rank"`
	MaxPetLevel         uint16                   `json:"max_pet_level"`
	Habitats            [habitatCount]PetHabitat `json:"habitats"`
	NextFreeExploration time.Time                `json:"next_free_exploration"`
	Opponent            PetOpponent              `json:"opponent"`
	Inspected           *PetStats                `json:"inspected,omitempty"`
}

// PetHabitat is one element with its pets.
type PetHabitat struct {
	Fruits     uint16                 `json:"fruits"`
	BattlesWon uint16                 `json:"battles_won"`
	Levels     [PetsPerHabitat]uint16 `json:"levels"`
}

// Collected counts pets with a positive level.
func (h PetHabitat) Collected() int {
	n := 0
	for _, l := range h.Levels {
		if l > 0 {
			n++
		}
	}
	return n
}

// PetOpponent is the offered pet arena opponent.
type PetOpponent struct {
	ID             uint32       `json:"id"`
	Level          uint16       `json:"level"`
	Habitat        *HabitatType `json:"habitat,omitempty"`
	NextFreeBattle time.Time    `json:"next_free_battle"`
}

// PetStats is the detail view of one pet.
type PetStats struct {
	ID         uint32     `json:"id"`
	Level      uint16     `json:"level"`
	Attributes Attributes `json:"attributes"`
}

// update decodes ownpets.
func (p *Pets) update(d wire.Ints, st wire.ServerTime) {
	for h := range p.Habitats {
		hab := &p.Habitats[h]
		for i := range hab.Levels {
			hab.Levels[i] = wire.Soft[uint16](d, petsLevels+h*PetsPerHabitat+i, "pet level", 0)
		}
		hab.BattlesWon = wire.Soft[uint16](d, petsBattlesWon+h, "pet battles won", 0)
	}
	p.Opponent.NextFreeBattle = st.ConvertAt(d, petsNextBattle, "pet next battle")
	p.Opponent.ID = wire.Soft[uint32](d, petsOpponentID, "pet opponent id", 0)
	p.Opponent.Level = wire.Soft[uint16](d, petsOpponentLvl, "pet opponent level", 0)
}

// parsePetStats decodes ownpetsstats: id, level and five attributes.
func parsePetStats(d wire.Ints) (*PetStats, error) {
	id, err := d.Get(0, "pet stats id")
	if err != nil {
		return nil, err
	}
	s := &PetStats{
		ID:    wire.Narrow[uint32](id, "pet stats id", 0),
		Level: wire.Soft[uint16](d, 1, "pet stats level", 0),
	}
	for i := range s.Attributes {
		s.Attributes[i] = wire.Soft[uint32](d, 2+i, "pet stats attribute", 0)
	}
	return s, nil
}
