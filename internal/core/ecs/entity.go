package ecs

import (
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/types"
)

// Archetype is an advisory classification tag. Behaviour keys off
// components, never off the archetype.
type Archetype string

const (
	ArchetypeRoom   Archetype = "room"
	ArchetypeNPC    Archetype = "npc"
	ArchetypeItem   Archetype = "item"
	ArchetypeProp   Archetype = "prop"
	ArchetypePlayer Archetype = "player"
)

// Entity is the universal world object.
type Entity struct {
	ID         types.EntityID `json:"id" yaml:"id"`
	Alias      string         `json:"alias" yaml:"alias"`
	Archetype  Archetype      `json:"type" yaml:"type"`
	Visible    bool           `json:"visible" yaml:"visible"`
	Components component.Set  `json:"components" yaml:"components"`
}

// entityFields has Entity's fields without its decode methods.
type entityFields Entity

// UnmarshalJSON decodes an entity. An absent "visible" means visible.
func (e *Entity) UnmarshalJSON(data []byte) error {
	f := entityFields{Visible: true}
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*e = Entity(f)
	return nil
}

// UnmarshalYAML decodes an entity. An absent visible key means visible.
func (e *Entity) UnmarshalYAML(node *yaml.Node) error {
	f := entityFields{Visible: true}
	if err := node.Decode(&f); err != nil {
		return err
	}
	*e = Entity(f)
	return nil
}

// Clone returns a deep copy safe to hand outside the store.
func (e Entity) Clone() Entity {
	e.Components = e.Components.Clone()
	return e
}

// Name returns the identity name, or the alias when identity is missing.
func (e Entity) Name() string {
	if e.Components.Identity != nil && e.Components.Identity.Name != "" {
		return e.Components.Identity.Name
	}
	return e.Alias
}

// Template is the caller-supplied shape for a new entity. The ID is always
// assigned by the store.
type Template struct {
	Alias      string        `json:"alias,omitempty" yaml:"alias,omitempty"`
	Archetype  Archetype     `json:"type,omitempty" yaml:"type,omitempty"`
	Visible    *bool         `json:"visible,omitempty" yaml:"visible,omitempty"`
	Components component.Set `json:"components" yaml:"components"`
}

// Patch is a partial update. Nil fields are left untouched; each non-nil
// component slot replaces the stored slot wholesale.
type Patch struct {
	Alias      *string       `json:"alias,omitempty" yaml:"alias,omitempty"`
	Archetype  *Archetype    `json:"type,omitempty" yaml:"type,omitempty"`
	Visible    *bool         `json:"visible,omitempty" yaml:"visible,omitempty"`
	Components component.Set `json:"components" yaml:"components"`
}

// Placeholder identity for entities created without one.
const (
	PlaceholderName        = "Unnamed"
	PlaceholderDescription = "Nothing remarkable."
)
