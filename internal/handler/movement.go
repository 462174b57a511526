package handler

import (
	"context"
	"strconv"

	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/world"
)

// HandleGo moves the player through an exit of the current room. The exit
// is named by its list number, alias, label, or the name of the room it
// leads to.
func HandleGo(_ context.Context, r *command.Reader, deps *Deps) error {
	word := r.Rest()
	if word == "" {
		deps.println("Go where?")
		return nil
	}
	st := deps.state()
	roomID, ok := st.PlayerRoom()
	if !ok {
		deps.println("You are nowhere; there is nowhere to go.")
		return nil
	}
	exit, ok := findExit(st, roomID, word)
	if !ok {
		deps.printf("There is no exit %q here.\n", word)
		return nil
	}
	if locked(exit) {
		deps.Session.Narrate("%s is locked.", exit.Name())
		return nil
	}

	// A successful move always costs time, even through an exit that loops
	// back into the same room.
	next := deps.Session.Dispatch(world.MovePlayer{ExitEntityID: exit.ID})
	if next.Tick() == st.Tick() {
		deps.Session.Narrate("%s leads nowhere you can go.", exit.Name())
		return nil
	}
	describeRoom(deps)
	return nil
}

func findExit(st world.State, roomID types.EntityID, word string) (ecs.Entity, bool) {
	exits := st.Exits(roomID)
	if n, err := strconv.Atoi(word); err == nil && n >= 1 && n <= len(exits) {
		return exits[n-1], true
	}
	key := ecs.FoldAlias(word)
	for _, e := range exits {
		if ecs.FoldAlias(e.Alias) == key || ecs.FoldAlias(e.Name()) == key {
			return e, true
		}
	}
	for _, e := range exits {
		if target, ok := st.World().Get(e.Components.Exit.TargetRoomID); ok {
			if ecs.FoldAlias(target.Alias) == key || ecs.FoldAlias(target.Name()) == key {
				return e, true
			}
		}
	}
	return ecs.Entity{}, false
}
