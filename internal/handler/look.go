package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/world"
)

// HandleLook describes the player's room: name, description, what can be
// interacted with, and the exits.
func HandleLook(_ context.Context, _ *command.Reader, deps *Deps) error {
	describeRoom(deps)
	return nil
}

func describeRoom(deps *Deps) {
	st := deps.state()
	roomID, ok := st.PlayerRoom()
	if !ok {
		deps.println("You are nowhere at all.")
		return
	}
	room, _ := st.World().Get(roomID)
	deps.printf("\n== %s ==\n", room.Name())
	if room.Components.Identity != nil && room.Components.Identity.Description != "" {
		deps.println(room.Components.Identity.Description)
	}

	if things := st.Interactables(roomID); len(things) > 0 {
		deps.printf("You see: %s.\n", joinNames(things))
	}
	exits := st.Exits(roomID)
	if len(exits) == 0 {
		deps.println("There is no way out.")
		return
	}
	labels := make([]string, len(exits))
	for i, e := range exits {
		labels[i] = fmt.Sprintf("[%d] %s", i+1, e.Name())
		if locked(e) {
			labels[i] += " (locked)"
		}
	}
	deps.printf("Exits: %s\n", strings.Join(labels, ", "))
}

// HandleExamine prints an entity's description and, for containers, what
// they hold.
func HandleExamine(_ context.Context, r *command.Reader, deps *Deps) error {
	word := r.Rest()
	if word == "" || strings.EqualFold(word, world.PlayerTarget) || strings.EqualFold(word, "me") {
		word = world.PlayerTarget
	}
	st := deps.state()
	var (
		e  ecs.Entity
		ok bool
	)
	if word == world.PlayerTarget {
		e, ok = st.Player()
	} else {
		e, ok = deps.near(word)
	}
	if !ok {
		return nil
	}

	deps.printf("%s: ", e.Name())
	if e.Components.Identity != nil && e.Components.Identity.Description != "" {
		deps.println(e.Components.Identity.Description)
	} else {
		deps.println(ecs.PlaceholderDescription)
	}
	if s := e.Components.Stats; s != nil {
		deps.printf("  Health %d/%d, strength %d.\n", s.Health, s.MaxHealth, s.Strength)
	}
	if locked(e) {
		deps.println("  It is locked.")
	}
	if e.ID != st.PlayerID() && e.Components.Container != nil {
		if inside := st.RoomEntities(e.ID); len(inside) > 0 {
			deps.printf("  It holds: %s.\n", joinNames(inside))
		}
	}
	return nil
}

// HandleInventory lists what the player carries.
func HandleInventory(_ context.Context, _ *command.Reader, deps *Deps) error {
	st := deps.state()
	items := st.Inventory()
	if len(items) == 0 {
		deps.println("You carry nothing.")
		return nil
	}
	deps.printf("You carry: %s.", joinNames(items))
	if p, ok := st.Player(); ok && p.Components.Container != nil && p.Components.Container.Capacity > 0 {
		deps.printf(" (%d/%d)", len(items), p.Components.Container.Capacity)
	}
	deps.println("")
	return nil
}

// HandleTime prints the in-world clock.
func HandleTime(_ context.Context, _ *command.Reader, deps *Deps) error {
	c := deps.state().Clock()
	deps.printf("%s (%s)\n", c, c.Phase)
	return nil
}

func joinNames(es []ecs.Entity) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Name()
	}
	return strings.Join(names, ", ")
}

func locked(e ecs.Entity) bool {
	return e.Components.Prop != nil && e.Components.Prop.Locked
}
