package component

import "github.com/diegesis/engine/internal/core/types"

// Set is the closed collection of component slots an entity may carry.
// A nil slot means the capability is absent. Pure data, the only methods
// live in clone.go.
type Set struct {
	Identity  *Identity  `json:"identity,omitempty" yaml:"identity,omitempty"`
	Room      *Room      `json:"room,omitempty" yaml:"room,omitempty"`
	Container *Container `json:"container,omitempty" yaml:"container,omitempty"`
	Position  *Position  `json:"position,omitempty" yaml:"position,omitempty"`
	Portable  *Portable  `json:"portable,omitempty" yaml:"portable,omitempty"`
	Prop      *Prop      `json:"prop,omitempty" yaml:"prop,omitempty"`
	Stats     *Stats     `json:"stats,omitempty" yaml:"stats,omitempty"`
	Exit      *Exit      `json:"exit,omitempty" yaml:"exit,omitempty"`
	Scripts   Scripts    `json:"scripts,omitempty" yaml:"scripts,omitempty"`
}

// Identity is carried by every entity.
type Identity struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Room marks an entity as a location.
type Room struct {
	Theme       string `json:"theme,omitempty" yaml:"theme,omitempty"`
	MapPosition *Point `json:"mapPosition,omitempty" yaml:"mapPosition,omitempty"`
}

// Container holds other entities by ID, in insertion order.
// Contents is owned by the containment subsystem in core/ecs.
type Container struct {
	Contents []types.EntityID `json:"contents" yaml:"contents"`
	Capacity int              `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// Position points at the container entity this entity occupies.
// RoomID is owned by the containment subsystem in core/ecs.
type Position struct {
	RoomID types.EntityID `json:"roomId" yaml:"roomId"`
	Coords *Point         `json:"coords,omitempty" yaml:"coords,omitempty"`
}

// Point is a display coordinate, used by map and scene renderers only.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Portable struct {
	Weight float64 `json:"weight" yaml:"weight"`
	Value  float64 `json:"value" yaml:"value"`
}

// Prop marks a fixture. A locked prop opens only for a holder of RequiredKey.
type Prop struct {
	Locked      bool           `json:"locked,omitempty" yaml:"locked,omitempty"`
	RequiredKey types.EntityID `json:"requiredKey,omitempty" yaml:"requiredKey,omitempty"`
}

type Stats struct {
	Strength  int `json:"strength" yaml:"strength"`
	Health    int `json:"health" yaml:"health"`
	MaxHealth int `json:"maxHealth" yaml:"maxHealth"`
}

// Exit marks a passage. Exits are ordinary entities placed in a room.
type Exit struct {
	TargetRoomID types.EntityID `json:"targetRoomId" yaml:"targetRoomId"`
}
