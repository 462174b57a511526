package world

import (
	"fmt"
	"strings"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
)

// PlayerTarget is the reserved target word for the player entity.
const PlayerTarget = "player"

// RoomEntities returns the entities listed by a container, in contents
// order. Dangling IDs are skipped.
func (s State) RoomEntities(roomID types.EntityID) []ecs.Entity {
	ids := s.world.Contents(roomID)
	out := make([]ecs.Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.world.Get(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// Exits returns the exit entities inside a room.
func (s State) Exits(roomID types.EntityID) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range s.RoomEntities(roomID) {
		if e.Components.Exit != nil {
			out = append(out, e)
		}
	}
	return out
}

// Interactables returns the visible, interactable entities in a room,
// excluding the player and exits.
func (s State) Interactables(roomID types.EntityID) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range s.RoomEntities(roomID) {
		if e.ID == s.playerID || e.Components.Exit != nil || !e.Visible {
			continue
		}
		if IsInteractable(e) {
			out = append(out, e)
		}
	}
	return out
}

// Inventory returns what the player carries.
func (s State) Inventory() []ecs.Entity {
	return s.RoomEntities(s.playerID)
}

func IsItem(e ecs.Entity) bool {
	return e.Components.Portable != nil || e.Archetype == ecs.ArchetypeItem
}

func IsNPC(e ecs.Entity) bool {
	return e.Components.Stats != nil || e.Archetype == ecs.ArchetypeNPC
}

// IsInteractable reports whether the entity reacts to interaction: it has
// interaction scripts, is a fixture, or is an item or NPC.
func IsInteractable(e ecs.Entity) bool {
	if len(e.Components.Scripts[component.TriggerInteract]) > 0 {
		return true
	}
	return e.Components.Prop != nil || IsItem(e) || IsNPC(e)
}

// ResolveTarget maps a target word to an entity: "player" first, then an
// alias, then a numeric ID.
func (s State) ResolveTarget(target string) (ecs.Entity, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return ecs.Entity{}, false
	}
	if strings.EqualFold(target, PlayerTarget) {
		return s.Player()
	}
	if e, ok := s.world.FindByAlias(target); ok {
		return e, true
	}
	if id, err := types.ParseEntityID(target); err == nil {
		return s.world.Get(id)
	}
	return ecs.Entity{}, false
}

// FindNear resolves a word against the player's surroundings: the room's
// contents and the inventory, matching alias or display name. It falls back
// to ResolveTarget for anything reachable by ID or alias.
func (s State) FindNear(word string) (ecs.Entity, bool) {
	key := ecs.FoldAlias(word)
	if key == "" {
		return ecs.Entity{}, false
	}
	var pool []ecs.Entity
	if room, ok := s.PlayerRoom(); ok {
		pool = append(pool, s.RoomEntities(room)...)
	}
	pool = append(pool, s.Inventory()...)
	for _, e := range pool {
		if e.ID == s.playerID {
			continue
		}
		if ecs.FoldAlias(e.Alias) == key || ecs.FoldAlias(e.Name()) == key {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// Preview is the one-line save slot summary, e.g. "Grand Atrium - Day 1".
func (s State) Preview() string {
	room := "Nowhere"
	if id, ok := s.PlayerRoom(); ok {
		if e, ok := s.world.Get(id); ok {
			room = e.Name()
		}
	}
	return fmt.Sprintf("%s - Day %d", room, s.Clock().Day)
}
