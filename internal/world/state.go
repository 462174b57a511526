package world

import (
	"maps"
	"slices"

	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
)

// Meta describes the loaded world definition.
type Meta struct {
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// State is one immutable snapshot of a game session. Reduce is the only way
// to derive a new State; holders of an older value keep a consistent view.
type State struct {
	world     ecs.World
	playerID  types.EntityID
	tick      int64
	variables map[string]any
	messages  []string
	meta      Meta
}

func (s State) World() ecs.World         { return s.world }
func (s State) PlayerID() types.EntityID { return s.playerID }
func (s State) Tick() int64              { return s.tick }
func (s State) Meta() Meta               { return s.meta }

// Player returns a copy of the player entity.
func (s State) Player() (ecs.Entity, bool) {
	return s.world.Get(s.playerID)
}

// PlayerRoom returns the ID of the container the player occupies.
func (s State) PlayerRoom() (types.EntityID, bool) {
	return s.world.ContainerOf(s.playerID)
}

// Variable returns a global variable set by scripts or actions.
func (s State) Variable(key string) (any, bool) {
	v, ok := s.variables[key]
	return v, ok
}

// Flag reports the truthiness of a variable; absent variables are false.
func (s State) Flag(key string) bool {
	return Truthy(s.variables[key])
}

func (s State) Variables() map[string]any {
	return maps.Clone(s.variables)
}

// Messages returns the narration log, oldest first.
func (s State) Messages() []string {
	return slices.Clone(s.messages)
}

// MessageCount is the log length, handy for printing only new lines.
func (s State) MessageCount() int { return len(s.messages) }

// Truthy follows the flag convention of world files: false, zero, the empty
// string and nil are false, anything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
