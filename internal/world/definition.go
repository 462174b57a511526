package world

import (
	"maps"

	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
)

// Definition is the static, distributable form of a world.
type Definition struct {
	Meta      Meta                          `json:"meta" yaml:"meta"`
	Entities  map[types.EntityID]ecs.Entity `json:"entities" yaml:"entities"`
	Start     Start                         `json:"start" yaml:"start"`
	Variables map[string]any                `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Start says where a fresh game begins. Player is used only when the entity
// table carries no player entity of its own.
type Start struct {
	RoomID types.EntityID `json:"roomId" yaml:"roomId"`
	Player *ecs.Entity    `json:"player,omitempty" yaml:"player,omitempty"`
}

// FromDefinition builds a fresh state: tick zero, empty log, the
// definition's variables, and a copy of its entities. The player
// is always the reserved player ID.
func FromDefinition(def Definition) State {
	entities := make(map[types.EntityID]ecs.Entity, len(def.Entities)+1)
	for id, e := range def.Entities {
		entities[id] = e.Clone()
	}
	if _, ok := entities[types.PlayerID]; !ok && def.Start.Player != nil {
		p := def.Start.Player.Clone()
		p.ID = types.PlayerID
		if p.Archetype == "" {
			p.Archetype = ecs.ArchetypePlayer
		}
		entities[types.PlayerID] = p
	}

	w := ecs.NewWorld(entities, types.FirstDynamicID)
	if _, placed := w.ContainerOf(types.PlayerID); !placed && def.Start.RoomID != types.NilEntityID {
		w = w.Move(types.PlayerID, def.Start.RoomID)
	}

	vars := maps.Clone(def.Variables)
	if vars == nil {
		vars = make(map[string]any)
	}
	return State{
		world:     w,
		playerID:  types.PlayerID,
		variables: vars,
		messages:  []string{},
		meta:      def.Meta,
	}
}

// Definition projects the state into its persisted shape. The start
// descriptor captures the player's current room and components so a reload
// resumes from the player's last known state.
func (s State) Definition() Definition {
	def := Definition{
		Meta:      s.meta,
		Entities:  s.world.Entities(),
		Variables: maps.Clone(s.variables),
	}
	if room, ok := s.PlayerRoom(); ok {
		def.Start.RoomID = room
	}
	if p, ok := s.Player(); ok {
		def.Start.Player = &p
	}
	return def
}

// Clone returns a deep copy of the definition.
func (def Definition) Clone() Definition {
	out := def
	if def.Entities != nil {
		out.Entities = make(map[types.EntityID]ecs.Entity, len(def.Entities))
		for id, e := range def.Entities {
			out.Entities[id] = e.Clone()
		}
	}
	if def.Start.Player != nil {
		p := def.Start.Player.Clone()
		out.Start.Player = &p
	}
	out.Variables = maps.Clone(def.Variables)
	return out
}
