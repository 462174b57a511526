package ecs

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/types"
)

// twoRooms is a player in room 2 next to room 3, plus a crate in room 2.
func twoRooms() World {
	room := func(alias string, contents ...types.EntityID) Entity {
		return Entity{
			Alias:     alias,
			Archetype: ArchetypeRoom,
			Visible:   true,
			Components: component.Set{
				Identity:  &component.Identity{Name: alias},
				Room:      &component.Room{},
				Container: &component.Container{Contents: contents},
			},
		}
	}
	return NewWorld(map[types.EntityID]Entity{
		1: {
			Alias:     "player",
			Archetype: ArchetypePlayer,
			Components: component.Set{
				Identity:  &component.Identity{Name: "Traveler"},
				Container: &component.Container{Contents: []types.EntityID{}},
				Position:  &component.Position{RoomID: 2},
			},
		},
		2: room("atrium", 1, 10),
		3: room("garden"),
		10: {
			Alias:     "crate",
			Archetype: ArchetypeProp,
			Visible:   true,
			Components: component.Set{
				Identity:  &component.Identity{Name: "Wooden Crate"},
				Container: &component.Container{Contents: []types.EntityID{}},
				Position:  &component.Position{RoomID: 2},
			},
		},
	}, types.FirstDynamicID)
}

func TestCreateAssignsIDsAndDefaults(t *testing.T) {
	w := twoRooms()
	require.Equal(t, types.FirstDynamicID, w.NextID())

	w, first := w.Create(Template{Alias: "pebble"})
	assert.Equal(t, types.FirstDynamicID, first.ID)
	assert.True(t, first.Visible)
	require.NotNil(t, first.Components.Identity)
	assert.Equal(t, PlaceholderName, first.Components.Identity.Name)
	assert.Equal(t, PlaceholderDescription, first.Components.Identity.Description)

	w, second := w.Create(Template{Alias: "stone"})
	assert.Equal(t, first.ID+1, second.ID)

	w = w.Remove(second.ID)
	_, third := w.Create(Template{Alias: "shell"})
	assert.Equal(t, second.ID+1, third.ID, "removed ids are not reused")
}

func TestCreateRoutesPositionThroughContainment(t *testing.T) {
	hidden := false
	w, e := twoRooms().Create(Template{
		Alias:   "coin",
		Visible: &hidden,
		Components: component.Set{
			Position:  &component.Position{RoomID: 3},
			Container: &component.Container{Contents: []types.EntityID{1, 2}},
		},
	})
	assert.False(t, e.Visible)
	room, ok := w.ContainerOf(e.ID)
	require.True(t, ok)
	assert.Equal(t, types.EntityID(3), room)
	assert.Equal(t, []types.EntityID{e.ID}, w.Contents(3))
	assert.Empty(t, w.Contents(e.ID), "template contents are ignored")
	assert.Empty(t, w.CheckContainment())
}

func TestNewWorldCounterSkipsStoredIDs(t *testing.T) {
	w := NewWorld(map[types.EntityID]Entity{250: {Alias: "far"}}, types.FirstDynamicID)
	assert.Equal(t, types.EntityID(251), w.NextID())

	e, ok := w.Get(250)
	require.True(t, ok)
	assert.Equal(t, types.EntityID(250), e.ID)
	assert.Equal(t, PlaceholderName, e.Name())
}

func TestUpdateReplacesComponentKind(t *testing.T) {
	w := twoRooms()
	w, ok := w.Update(1, Patch{Components: component.Set{
		Stats: &component.Stats{Strength: 12, Health: 100, MaxHealth: 100},
	}})
	require.True(t, ok)

	w, ok = w.Update(1, Patch{Components: component.Set{Stats: &component.Stats{Health: 10}}})
	require.True(t, ok)

	p, _ := w.Get(1)
	assert.Equal(t, component.Stats{Health: 10}, *p.Components.Stats)
	require.NotNil(t, p.Components.Position)
	assert.Equal(t, types.EntityID(2), p.Components.Position.RoomID, "other kinds are untouched")
	assert.Equal(t, "Traveler", p.Name())
}

func TestUpdateTopLevelFields(t *testing.T) {
	alias := "box"
	hidden := false
	w, ok := twoRooms().Update(10, Patch{Alias: &alias, Visible: &hidden})
	require.True(t, ok)
	e, _ := w.Get(10)
	assert.Equal(t, "box", e.Alias)
	assert.False(t, e.Visible)
	assert.Equal(t, ArchetypeProp, e.Archetype)
}

func TestUpdateRejectsRelationalChanges(t *testing.T) {
	w := twoRooms()

	_, ok := w.Update(1, Patch{Components: component.Set{Position: &component.Position{RoomID: 3}}})
	assert.False(t, ok, "position changes go through Move")

	_, ok = w.Update(2, Patch{Components: component.Set{Container: &component.Container{Contents: []types.EntityID{10}}}})
	assert.False(t, ok, "contents changes go through Move")

	_, ok = w.Update(99, Patch{Alias: new(string)})
	assert.False(t, ok)

	next, ok := w.Update(1, Patch{Components: component.Set{Position: &component.Position{
		RoomID: 2,
		Coords: &component.Point{X: 4, Y: 5},
	}}})
	require.True(t, ok, "same room with new coords is allowed")
	p, _ := next.Get(1)
	assert.Equal(t, &component.Point{X: 4, Y: 5}, p.Components.Position.Coords)

	next, ok = w.Update(1, Patch{Components: component.Set{Container: &component.Container{Capacity: 3}}})
	require.True(t, ok, "capacity may change when contents are omitted")
	p, _ = next.Get(1)
	assert.Equal(t, 3, p.Components.Container.Capacity)
	assert.Empty(t, next.CheckContainment())
}

func TestValuesAreImmutable(t *testing.T) {
	before := twoRooms()
	after := before.Move(1, 3)

	room, _ := before.ContainerOf(1)
	assert.Equal(t, types.EntityID(2), room)
	assert.Contains(t, before.Contents(2), types.EntityID(1))

	room, _ = after.ContainerOf(1)
	assert.Equal(t, types.EntityID(3), room)

	e, _ := after.Get(3)
	e.Components.Container.Contents[0] = 77
	assert.Equal(t, []types.EntityID{1}, after.Contents(3), "Get returns a copy")
}

func TestMoveUpdatesBothSides(t *testing.T) {
	w := twoRooms().Move(1, 3)

	assert.NotContains(t, w.Contents(2), types.EntityID(1))
	assert.Equal(t, []types.EntityID{1}, w.Contents(3))
	assert.Empty(t, w.CheckContainment())
}

func TestMoveRejectsInvalidTargets(t *testing.T) {
	w := twoRooms()
	w, item := w.Create(Template{Alias: "pebble"})

	cases := []struct {
		name       string
		id, target types.EntityID
	}{
		{"missing entity", 999, 2},
		{"missing target", 1, 999},
		{"target without container", 1, item.ID},
		{"into itself", 10, 10},
		{"into its own contents", 2, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := w.Move(tc.id, tc.target)
			assert.Equal(t, w.Entities(), next.Entities())
		})
	}
}

func TestMoveIntoNestedContainer(t *testing.T) {
	w := twoRooms().Move(1, 10)
	room, _ := w.ContainerOf(1)
	assert.Equal(t, types.EntityID(10), room)

	w2 := w.Move(10, 1)
	room, _ = w2.ContainerOf(10)
	assert.Equal(t, types.EntityID(2), room, "a container cannot enter its own occupant")
	assert.Empty(t, w2.CheckContainment())
}

func TestDetachIsIdempotent(t *testing.T) {
	w := twoRooms().Detach(10)
	_, placed := w.ContainerOf(10)
	assert.False(t, placed)
	assert.Equal(t, []types.EntityID{1}, w.Contents(2))

	again := w.Detach(10)
	assert.Equal(t, w.Entities(), again.Entities())

	missing := w.Detach(404)
	assert.Equal(t, w.Entities(), missing.Entities())

	removed := w.Remove(404)
	assert.Equal(t, w.Entities(), removed.Entities())
}

func TestRemoveRelocatesContents(t *testing.T) {
	w := twoRooms()
	w, coin := w.Create(Template{Alias: "coin", Components: component.Set{Position: &component.Position{RoomID: 10}}})

	w = w.Remove(10)
	assert.False(t, w.Has(10))
	room, ok := w.ContainerOf(coin.ID)
	require.True(t, ok)
	assert.Equal(t, types.EntityID(2), room)
	assert.Equal(t, []types.EntityID{1, coin.ID}, w.Contents(2))
	assert.Empty(t, w.CheckContainment())
}

func TestRemoveUnplacedContainerLeavesContentsUnplaced(t *testing.T) {
	w := twoRooms().Detach(10)
	w, coin := w.Create(Template{Alias: "coin", Components: component.Set{Position: &component.Position{RoomID: 10}}})

	w = w.Remove(10)
	_, placed := w.ContainerOf(coin.ID)
	assert.False(t, placed)
	assert.Empty(t, w.CheckContainment())
}

func TestNewWorldReconcilesFromPositions(t *testing.T) {
	w := NewWorld(map[types.EntityID]Entity{
		2: {Components: component.Set{Container: &component.Container{Contents: []types.EntityID{5, 5, 6, 404}}}},
		3: {Components: component.Set{Container: &component.Container{}}},
		5: {Components: component.Set{Position: &component.Position{RoomID: 2}}},
		6: {Components: component.Set{Position: &component.Position{RoomID: 3}}},
		7: {Components: component.Set{Position: &component.Position{RoomID: 3}}},
		8: {Components: component.Set{Position: &component.Position{RoomID: 404}}},
	}, types.FirstDynamicID)

	assert.Equal(t, []types.EntityID{5}, w.Contents(2))
	assert.Equal(t, []types.EntityID{6, 7}, w.Contents(3))
	_, placed := w.ContainerOf(8)
	assert.False(t, placed)
	assert.Empty(t, w.CheckContainment())
}

func TestCheckContainmentReportsBrokenLinks(t *testing.T) {
	w := World{entities: map[types.EntityID]Entity{
		2: {ID: 2, Components: component.Set{Container: &component.Container{Contents: []types.EntityID{5, 6}}}},
		5: {ID: 5},
		6: {ID: 6, Components: component.Set{Position: &component.Position{RoomID: 2}}},
		7: {ID: 7, Components: component.Set{Position: &component.Position{RoomID: 2}}},
	}}
	v := w.CheckContainment()
	require.Len(t, v, 2)
	assert.Equal(t, types.EntityID(2), v[0].EntityID)
	assert.Equal(t, types.EntityID(7), v[1].EntityID)
	assert.Contains(t, v[1].String(), "listed 0 times")
}

// Random sequences of create, move, detach and remove never leave a
// one-sided containment link.
func TestContainmentHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	w := twoRooms()
	for step := 0; step < 2000; step++ {
		ids := w.IDs()
		pick := func() types.EntityID { return ids[rng.IntN(len(ids))] }
		switch rng.IntN(5) {
		case 0:
			var c component.Set
			if rng.IntN(2) == 0 {
				c.Container = &component.Container{}
			}
			if rng.IntN(2) == 0 {
				c.Position = &component.Position{RoomID: pick()}
			}
			w, _ = w.Create(Template{Components: c})
		case 1, 2:
			w = w.Move(pick(), pick())
		case 3:
			w = w.Detach(pick())
		case 4:
			if id := pick(); id != types.PlayerID {
				w = w.Remove(id)
			}
		}
		require.Empty(t, w.CheckContainment(), "step %d", step)
	}
}
