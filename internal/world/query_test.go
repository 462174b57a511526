package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/world"
)

func aliases(es []ecs.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Alias
	}
	return out
}

func TestRoomQueries(t *testing.T) {
	s := fresh(t)
	assert.Equal(t, []string{"statue_hero", "rusty_key", "exit_garden", "exit_lab", "player"}, aliases(s.RoomEntities(2)))
	assert.Equal(t, []string{"exit_garden", "exit_lab"}, aliases(s.Exits(2)))
	assert.Equal(t, []string{"statue_hero", "rusty_key"}, aliases(s.Interactables(2)))
	assert.Equal(t, []string{"gardener_bot"}, aliases(s.Interactables(3)))
	assert.Empty(t, s.Inventory())
	assert.Nil(t, s.RoomEntities(404))
}

func TestClassification(t *testing.T) {
	s := fresh(t)
	key, _ := s.World().Get(6)
	bot, _ := s.World().Get(8)
	statue, _ := s.World().Get(5)

	assert.True(t, world.IsItem(key))
	assert.False(t, world.IsNPC(key))
	assert.True(t, world.IsNPC(bot))
	assert.True(t, world.IsInteractable(statue))
}

func TestResolveTarget(t *testing.T) {
	s := fresh(t)
	cases := []struct {
		target string
		want   types.EntityID
		found  bool
	}{
		{"player", types.PlayerID, true},
		{"PLAYER", types.PlayerID, true},
		{"gardener_bot", 8, true},
		{"Rusty_Key", 6, true},
		{"7", 7, true},
		{"404", 0, false},
		{"unicorn", 0, false},
		{"   ", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			e, ok := s.ResolveTarget(tc.target)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Equal(t, tc.want, e.ID)
			}
		})
	}
}

func TestFindNear(t *testing.T) {
	s := fresh(t)

	e, ok := s.FindNear("rusty key")
	require.True(t, ok)
	assert.Equal(t, types.EntityID(6), e.ID)

	e, ok = s.FindNear("STATUE_HERO")
	require.True(t, ok)
	assert.Equal(t, types.EntityID(5), e.ID)

	_, ok = s.FindNear("datapad")
	assert.False(t, ok, "datapad is in the lab")
	_, ok = s.FindNear("player")
	assert.False(t, ok)

	s = world.Reduce(s, world.MoveEntity{EntityID: 7, TargetContainerID: types.PlayerID})
	_, ok = s.FindNear("cracked datapad")
	assert.True(t, ok, "inventory is searched too")
}

func TestPreview(t *testing.T) {
	s := fresh(t)
	assert.Equal(t, "Grand Atrium - Day 1", s.Preview())

	s = world.Reduce(s, world.AdvanceTime{Ticks: world.TicksPerDay})
	assert.Equal(t, "Grand Atrium - Day 2", s.Preview())
}
