package world

import (
	"maps"
	"slices"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
)

// Reduce applies one action and returns the next state. It is total: an
// action that references missing entities, or that would break containment,
// yields s unchanged. It never panics on well-typed input.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AdvanceTime:
		s.tick += act.Ticks
		return s

	case MovePlayer:
		return movePlayer(s, act.ExitEntityID)

	case TeleportPlayer:
		return teleportPlayer(s, act.RoomID)

	case CreateEntity:
		s.world, _ = s.world.Create(act.Entity)
		return s

	case UpdateEntity:
		next, ok := s.world.Update(act.EntityID, act.Data)
		if !ok {
			return s
		}
		s.world = next
		return s

	case RemoveEntity:
		if act.EntityID == s.playerID {
			return s
		}
		s.world = s.world.Remove(act.EntityID)
		return s

	case MoveEntity:
		s.world = s.world.Move(act.EntityID, act.TargetContainerID)
		return s

	case SetVariable:
		vars := maps.Clone(s.variables)
		if vars == nil {
			vars = make(map[string]any)
		}
		vars[act.Key] = act.Value
		s.variables = vars
		return s

	case AddMessage:
		s.messages = append(slices.Clip(s.messages), act.Text)
		return s

	case SetRoomPosition:
		return setRoomPosition(s, act)

	case LoadWorld:
		return FromDefinition(act.Definition)

	case LoadGame:
		return FromSnapshot(act.State)
	}
	return s
}

// Apply reduces actions in order.
func Apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func movePlayer(s State, exitID types.EntityID) State {
	exit, ok := s.world.Get(exitID)
	if !ok || exit.Components.Exit == nil {
		return s
	}
	target := exit.Components.Exit.TargetRoomID
	next := teleportPlayer(s, target)
	if room, ok := next.PlayerRoom(); !ok || room != target {
		return s
	}
	next.tick += MoveCost
	return next
}

func teleportPlayer(s State, roomID types.EntityID) State {
	if !s.world.Has(s.playerID) || !s.world.IsContainer(roomID) {
		return s
	}
	s.world = s.world.Move(s.playerID, roomID)
	return s
}

func setRoomPosition(s State, act SetRoomPosition) State {
	room, ok := s.world.Get(act.RoomID)
	if !ok || room.Components.Room == nil {
		return s
	}
	r := *room.Components.Room
	r.MapPosition = &component.Point{X: act.X, Y: act.Y}
	next, ok := s.world.Update(act.RoomID, ecs.Patch{Components: component.Set{Room: &r}})
	if !ok {
		return s
	}
	s.world = next
	return s
}
