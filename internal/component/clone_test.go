package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegesis/engine/internal/core/types"
)

func TestCloneIsDeep(t *testing.T) {
	orig := Set{
		Identity:  &Identity{Name: "Lab"},
		Room:      &Room{MapPosition: &Point{X: 1, Y: 2}},
		Container: &Container{Contents: []types.EntityID{7, 23}},
		Position:  &Position{RoomID: 2, Coords: &Point{X: 3}},
		Scripts: Scripts{TriggerInteract: {{
			Conditions: []Condition{{Type: ConditionFlagTrue, Flag: "seen"}},
			Effects:    []Effect{{Type: EffectShowDialogue, Text: "hi"}},
		}}},
	}
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.Identity.Name = "Vault"
	cp.Room.MapPosition.X = 9
	cp.Container.Contents[0] = 99
	cp.Position.Coords.X = 9
	cp.Scripts[TriggerInteract][0].Effects[0].Text = "bye"

	assert.Equal(t, "Lab", orig.Identity.Name)
	assert.Equal(t, 1.0, orig.Room.MapPosition.X)
	assert.Equal(t, types.EntityID(7), orig.Container.Contents[0])
	assert.Equal(t, 3.0, orig.Position.Coords.X)
	assert.Equal(t, "hi", orig.Scripts[TriggerInteract][0].Effects[0].Text)
}

func TestCloneKeepsAbsentSlotsNil(t *testing.T) {
	cp := Set{}.Clone()
	assert.Nil(t, cp.Identity)
	assert.Nil(t, cp.Container)
	assert.Nil(t, cp.Scripts)
}
