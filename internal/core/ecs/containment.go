package ecs

import (
	"fmt"
	"slices"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/types"
)

// This file is the only writer of Position.RoomID and Container.Contents.
// Every path below computes the add against the already-detached world, so
// an entity is never listed by two containers.

// Move relocates the entity into target's container and points its position
// at target. It returns the receiver unchanged when either entity is missing,
// when target has no container, or when the move would put a container
// inside itself.
func (w World) Move(id, target types.EntityID) World {
	return w.move(id, target)
}

// Detach removes the entity from its current container and clears its
// position. Detaching an absent or unplaced entity is a no-op.
func (w World) Detach(id types.EntityID) World {
	return w.detach(id)
}

// ContainerOf returns the ID of the container holding the entity.
func (w World) ContainerOf(id types.EntityID) (types.EntityID, bool) {
	e, ok := w.entities[id]
	if !ok || e.Components.Position == nil {
		return types.NilEntityID, false
	}
	return e.Components.Position.RoomID, true
}

// Contents returns a copy of the container's contents in insertion order.
func (w World) Contents(id types.EntityID) []types.EntityID {
	e, ok := w.entities[id]
	if !ok || e.Components.Container == nil {
		return nil
	}
	return slices.Clone(e.Components.Container.Contents)
}

func (w World) move(id, target types.EntityID) World {
	var coords *component.Point
	if e, ok := w.entities[id]; ok && e.Components.Position != nil {
		coords = e.Components.Position.Coords
	}
	return w.place(id, target, coords)
}

func (w World) place(id, target types.EntityID, coords *component.Point) World {
	if _, ok := w.entities[id]; !ok {
		return w
	}
	if !w.hasContainer(target) || w.encloses(id, target) {
		return w
	}
	if cur, ok := w.ContainerOf(id); ok && cur == target && slices.Contains(w.entities[target].Components.Container.Contents, id) {
		return w
	}

	out := w.detach(id).clone()

	host := out.entities[target]
	c := *host.Components.Container
	if !slices.Contains(c.Contents, id) {
		c.Contents = append(slices.Clone(c.Contents), id)
	}
	host.Components.Container = &c
	out.entities[target] = host

	e := out.entities[id]
	e.Components.Position = &component.Position{RoomID: target, Coords: coords}
	out.entities[id] = e
	return out
}

func (w World) detach(id types.EntityID) World {
	e, ok := w.entities[id]
	if !ok || e.Components.Position == nil {
		return w
	}
	out := w.clone()
	parent := e.Components.Position.RoomID
	if host, ok := out.entities[parent]; ok && host.Components.Container != nil {
		c := *host.Components.Container
		c.Contents = slices.DeleteFunc(slices.Clone(c.Contents), func(x types.EntityID) bool { return x == id })
		host.Components.Container = &c
		out.entities[parent] = host
	}
	e.Components.Position = nil
	out.entities[id] = e
	return out
}

func (w World) hasContainer(id types.EntityID) bool {
	e, ok := w.entities[id]
	return ok && e.Components.Container != nil
}

// encloses reports whether target is id itself or sits somewhere inside id.
func (w World) encloses(id, target types.EntityID) bool {
	seen := make(map[types.EntityID]bool)
	for cur := target; !seen[cur]; {
		if cur == id {
			return true
		}
		seen[cur] = true
		parent, ok := w.ContainerOf(cur)
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}

// reconcile rebuilds container contents from positions. It runs only while a
// world is being constructed and writes the receiver's own fresh map.
func (w World) reconcile() {
	ids := w.IDs()
	for _, id := range ids {
		e := w.entities[id]
		if e.Components.Container == nil {
			continue
		}
		kept := make([]types.EntityID, 0, len(e.Components.Container.Contents))
		for _, child := range e.Components.Container.Contents {
			ce, ok := w.entities[child]
			if !ok || ce.Components.Position == nil || ce.Components.Position.RoomID != id || slices.Contains(kept, child) {
				continue
			}
			kept = append(kept, child)
		}
		c := *e.Components.Container
		c.Contents = kept
		e.Components.Container = &c
		w.entities[id] = e
	}
	for _, id := range ids {
		e := w.entities[id]
		if e.Components.Position == nil {
			continue
		}
		parent := e.Components.Position.RoomID
		if parent == id || !w.hasContainer(parent) {
			e.Components.Position = nil
			w.entities[id] = e
			continue
		}
		host := w.entities[parent]
		if !slices.Contains(host.Components.Container.Contents, id) {
			c := *host.Components.Container
			c.Contents = append(c.Contents, id)
			host.Components.Container = &c
			w.entities[parent] = host
		}
	}
}

// Violation describes one broken containment link.
type Violation struct {
	EntityID types.EntityID
	Reason   string
}

func (v Violation) String() string {
	return fmt.Sprintf("entity %d: %s", v.EntityID, v.Reason)
}

// CheckContainment verifies both directions of the position/contents link
// and returns every violation found, in ID order.
func (w World) CheckContainment() []Violation {
	var out []Violation
	for _, id := range w.IDs() {
		e := w.entities[id]
		if e.Components.Position != nil {
			parent := e.Components.Position.RoomID
			host, ok := w.entities[parent]
			switch {
			case !ok:
				out = append(out, Violation{id, fmt.Sprintf("positioned in missing entity %d", parent)})
			case host.Components.Container == nil:
				out = append(out, Violation{id, fmt.Sprintf("positioned in %d which has no container", parent)})
			default:
				n := 0
				for _, x := range host.Components.Container.Contents {
					if x == id {
						n++
					}
				}
				if n != 1 {
					out = append(out, Violation{id, fmt.Sprintf("listed %d times by container %d", n, parent)})
				}
			}
		}
		if e.Components.Container != nil {
			for _, child := range e.Components.Container.Contents {
				ce, ok := w.entities[child]
				if !ok {
					out = append(out, Violation{id, fmt.Sprintf("contains missing entity %d", child)})
					continue
				}
				if ce.Components.Position == nil || ce.Components.Position.RoomID != id {
					out = append(out, Violation{id, fmt.Sprintf("contains %d whose position points elsewhere", child)})
				}
			}
		}
	}
	return out
}
