package event

import (
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/world"
)

// ActionApplied is emitted for every action the session reduced, in
// dispatch order.
type ActionApplied struct {
	Action world.Action
	Tick   int64
}

// ScriptFired is emitted when a trigger matched a script on an entity.
type ScriptFired struct {
	EntityID types.EntityID
	Trigger  string
	Actions  int
}

// WorldLoaded is emitted when the session starts over from a definition.
type WorldLoaded struct {
	Meta world.Meta
}

// GameSaved is emitted after a slot write completed.
type GameSaved struct {
	Slot     string
	Autosave bool
}

// GameLoaded is emitted after a slot snapshot replaced the state.
type GameLoaded struct {
	Slot string
}
