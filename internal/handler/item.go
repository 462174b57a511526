package handler

import (
	"context"
	"slices"

	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/world"
)

// HandleTake moves an item from the room into the player's inventory,
// honouring the inventory capacity.
func HandleTake(_ context.Context, r *command.Reader, deps *Deps) error {
	e, ok := deps.near(r.Rest())
	if !ok {
		return nil
	}
	st := deps.state()
	pid := st.PlayerID()
	if where, _ := st.World().ContainerOf(e.ID); where == pid {
		deps.printf("You already have the %s.\n", e.Name())
		return nil
	}
	if !world.IsItem(e) || e.Components.Portable == nil {
		deps.printf("The %s will not budge.\n", e.Name())
		return nil
	}
	player, ok := st.Player()
	if !ok || player.Components.Container == nil {
		deps.println("You have nowhere to put it.")
		return nil
	}
	if c := player.Components.Container; c.Capacity > 0 && len(c.Contents) >= c.Capacity {
		deps.Session.Narrate("Your hands are full.")
		return nil
	}

	next := deps.Session.Dispatch(world.MoveEntity{EntityID: e.ID, TargetContainerID: pid})
	if where, _ := next.World().ContainerOf(e.ID); where != pid {
		deps.printf("You cannot take the %s.\n", e.Name())
		return nil
	}
	deps.Session.Narrate("You take the %s.", e.Name())
	return nil
}

// HandleDrop puts a carried item down in the current room.
func HandleDrop(_ context.Context, r *command.Reader, deps *Deps) error {
	word := r.Rest()
	st := deps.state()
	e, ok := carried(st, word)
	if !ok {
		deps.printf("You are not carrying %q.\n", word)
		return nil
	}
	room, ok := st.PlayerRoom()
	if !ok {
		deps.println("There is nowhere to drop it.")
		return nil
	}
	deps.Session.Dispatch(world.MoveEntity{EntityID: e.ID, TargetContainerID: room})
	deps.Session.Narrate("You drop the %s.", e.Name())
	return nil
}

// HandleUnlock opens a locked fixture when the player carries its key.
func HandleUnlock(_ context.Context, r *command.Reader, deps *Deps) error {
	e, ok := deps.near(r.Rest())
	if !ok {
		return nil
	}
	if !locked(e) {
		deps.printf("The %s is not locked.\n", e.Name())
		return nil
	}
	st := deps.state()
	need := e.Components.Prop.RequiredKey
	if need == 0 || !slices.Contains(st.World().Contents(st.PlayerID()), need) {
		deps.Session.Narrate("You lack the key for the %s.", e.Name())
		return nil
	}
	prop := *e.Components.Prop
	prop.Locked = false
	deps.Session.Dispatch(world.UpdateEntity{
		EntityID: e.ID,
		Data:     ecs.Patch{Components: component.Set{Prop: &prop}},
	})
	key, _ := st.World().Get(need)
	deps.Session.Narrate("You unlock the %s with the %s.", e.Name(), key.Name())
	return nil
}

func carried(st world.State, word string) (ecs.Entity, bool) {
	key := ecs.FoldAlias(word)
	if key == "" {
		return ecs.Entity{}, false
	}
	for _, e := range st.Inventory() {
		if ecs.FoldAlias(e.Alias) == key || ecs.FoldAlias(e.Name()) == key || e.ID.String() == key {
			return e, true
		}
	}
	return ecs.Entity{}, false
}
