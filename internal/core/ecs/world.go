package ecs

import (
	"maps"
	"slices"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/types"
)

// World is the canonical entity table plus the ID counter. It is an
// immutable value: every mutating method returns a new World and leaves the
// receiver untouched. Component payloads are shared between versions and are
// never modified after they are stored.
type World struct {
	entities map[types.EntityID]Entity
	nextID   types.EntityID
}

// NewWorld builds a world from a copy of entities. The counter
// starts at nextID or past the highest stored ID, whichever is larger.
// Map keys are authoritative for IDs, missing identities get the
// placeholder, and containment is reconciled with position as the source
// of truth.
func NewWorld(entities map[types.EntityID]Entity, nextID types.EntityID) World {
	w := World{
		entities: make(map[types.EntityID]Entity, len(entities)),
		nextID:   nextID,
	}
	for id, e := range entities {
		e = e.Clone()
		e.ID = id
		if e.Components.Identity == nil {
			e.Components.Identity = placeholderIdentity()
		}
		w.entities[id] = e
		if id >= w.nextID {
			w.nextID = id + 1
		}
	}
	if w.nextID <= types.PlayerID {
		w.nextID = types.PlayerID + 1
	}
	w.reconcile()
	return w
}

// NextID is the ID the next created entity will receive.
func (w World) NextID() types.EntityID { return w.nextID }

func (w World) Len() int { return len(w.entities) }

func (w World) Has(id types.EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// Get returns a deep copy of the entity.
func (w World) Get(id types.EntityID) (Entity, bool) {
	e, ok := w.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.Clone(), true
}

// IDs returns all entity IDs in ascending order.
func (w World) IDs() []types.EntityID {
	return slices.Sorted(maps.Keys(w.entities))
}

// Entities returns a deep copy of the whole table.
func (w World) Entities() map[types.EntityID]Entity {
	out := make(map[types.EntityID]Entity, len(w.entities))
	for id, e := range w.entities {
		out[id] = e.Clone()
	}
	return out
}

// Create allocates the next ID and stores a new entity built from t.
// Caller components override the defaults per slot. Container contents are
// never taken from the template, and a template position is applied through
// Move so both sides of the link are written together.
func (w World) Create(t Template) (World, Entity) {
	id := w.nextID
	if id <= types.PlayerID {
		id = types.PlayerID + 1
	}
	visible := true
	if t.Visible != nil {
		visible = *t.Visible
	}
	comps := t.Components.Clone()
	if comps.Identity == nil {
		comps.Identity = placeholderIdentity()
	}
	if comps.Container != nil {
		comps.Container.Contents = []types.EntityID{}
	}
	place := comps.Position
	comps.Position = nil

	out := w.clone()
	out.nextID = id + 1
	out.entities[id] = Entity{
		ID:         id,
		Alias:      t.Alias,
		Archetype:  t.Archetype,
		Visible:    visible,
		Components: comps,
	}
	if place != nil {
		out = out.place(id, place.RoomID, place.Coords)
	}
	e, _ := out.Get(id)
	return out, e
}

// Update merges p into the entity. Top-level fields are replaced when set,
// component slots are replaced per kind. Relational fields are not writable
// here: a patch whose position.roomId or container.contents differs from the
// stored value is rejected and the receiver is returned with ok=false.
func (w World) Update(id types.EntityID, p Patch) (World, bool) {
	cur, ok := w.entities[id]
	if !ok {
		return w, false
	}
	pc := p.Components.Clone()
	if pc.Position != nil {
		if cur.Components.Position == nil || cur.Components.Position.RoomID != pc.Position.RoomID {
			return w, false
		}
	}
	if pc.Container != nil {
		var stored []types.EntityID
		if cur.Components.Container != nil {
			stored = cur.Components.Container.Contents
		}
		if pc.Container.Contents != nil && !slices.Equal(pc.Container.Contents, stored) {
			return w, false
		}
		pc.Container.Contents = slices.Clone(stored)
		if pc.Container.Contents == nil {
			pc.Container.Contents = []types.EntityID{}
		}
	}

	next := cur
	if p.Alias != nil {
		next.Alias = *p.Alias
	}
	if p.Archetype != nil {
		next.Archetype = *p.Archetype
	}
	if p.Visible != nil {
		next.Visible = *p.Visible
	}
	next.Components = mergeSet(cur.Components, pc)

	out := w.clone()
	out.entities[id] = next
	return out, true
}

// Remove detaches the entity and deletes it. Entities it contained are moved
// to its own container when it has one, otherwise they are left unplaced.
// Removing an absent ID returns the receiver unchanged.
func (w World) Remove(id types.EntityID) World {
	e, ok := w.entities[id]
	if !ok {
		return w
	}
	var parent types.EntityID
	if e.Components.Position != nil {
		parent = e.Components.Position.RoomID
	}
	out := w.detach(id)
	if e.Components.Container != nil {
		for _, child := range e.Components.Container.Contents {
			if parent != types.NilEntityID && out.hasContainer(parent) {
				out = out.move(child, parent)
			} else {
				out = out.detach(child)
			}
		}
	}
	out = out.clone()
	delete(out.entities, id)
	return out
}

// clone copies the entity map so the result can be written without touching
// the receiver. Entity values are copied, component pointers are shared.
func (w World) clone() World {
	m := maps.Clone(w.entities)
	if m == nil {
		m = make(map[types.EntityID]Entity)
	}
	return World{entities: m, nextID: w.nextID}
}

func mergeSet(base, p component.Set) component.Set {
	if p.Identity != nil {
		base.Identity = p.Identity
	}
	if p.Room != nil {
		base.Room = p.Room
	}
	if p.Container != nil {
		base.Container = p.Container
	}
	if p.Position != nil {
		base.Position = p.Position
	}
	if p.Portable != nil {
		base.Portable = p.Portable
	}
	if p.Prop != nil {
		base.Prop = p.Prop
	}
	if p.Stats != nil {
		base.Stats = p.Stats
	}
	if p.Exit != nil {
		base.Exit = p.Exit
	}
	if p.Scripts != nil {
		base.Scripts = p.Scripts
	}
	return base
}

func placeholderIdentity() *component.Identity {
	return &component.Identity{Name: PlaceholderName, Description: PlaceholderDescription}
}
