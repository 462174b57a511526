package world

import (
	"maps"
	"slices"

	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
)

// Snapshot is the persisted form of a running session. Unlike Definition it
// keeps the clock, the log and the ID counter.
type Snapshot struct {
	Meta       Meta                          `json:"meta"`
	PlayerID   types.EntityID                `json:"playerId"`
	Time       int64                         `json:"time"`
	NextID     types.EntityID                `json:"nextId"`
	Variables  map[string]any                `json:"variables"`
	MessageLog []string                      `json:"messageLog"`
	Entities   map[types.EntityID]ecs.Entity `json:"entities"`
}

// Snapshot captures the state for a save slot.
func (s State) Snapshot() Snapshot {
	vars := maps.Clone(s.variables)
	if vars == nil {
		vars = make(map[string]any)
	}
	msgs := slices.Clone(s.messages)
	if msgs == nil {
		msgs = []string{}
	}
	return Snapshot{
		Meta:       s.meta,
		PlayerID:   s.playerID,
		Time:       s.tick,
		NextID:     s.world.NextID(),
		Variables:  vars,
		MessageLog: msgs,
		Entities:   s.world.Entities(),
	}
}

// FromSnapshot restores a session. The ID counter never moves backwards
// past a stored entity, and containment is reconciled from positions.
func FromSnapshot(snap Snapshot) State {
	pid := snap.PlayerID
	if pid == types.NilEntityID {
		pid = types.PlayerID
	}
	vars := maps.Clone(snap.Variables)
	if vars == nil {
		vars = make(map[string]any)
	}
	msgs := slices.Clone(snap.MessageLog)
	if msgs == nil {
		msgs = []string{}
	}
	return State{
		world:     ecs.NewWorld(snap.Entities, snap.NextID),
		playerID:  pid,
		tick:      snap.Time,
		variables: vars,
		messages:  msgs,
		meta:      snap.Meta,
	}
}
