package ecs

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/diegesis/engine/internal/core/types"
)

// Each calls fn with a copy of every entity, in ascending ID order.
func (w World) Each(fn func(Entity)) {
	for _, id := range w.IDs() {
		fn(w.entities[id].Clone())
	}
}

// Filter returns copies of the entities matching pred, in ascending ID order.
func (w World) Filter(pred func(Entity) bool) []Entity {
	var out []Entity
	for _, id := range w.IDs() {
		if e := w.entities[id].Clone(); pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// FindByAlias returns the lowest-ID entity whose alias matches, comparing
// case-folded NFC forms. Aliases are not unique.
func (w World) FindByAlias(alias string) (Entity, bool) {
	key := FoldAlias(alias)
	if key == "" {
		return Entity{}, false
	}
	for _, id := range w.IDs() {
		e := w.entities[id]
		if FoldAlias(e.Alias) == key {
			return e.Clone(), true
		}
	}
	return Entity{}, false
}

// FoldAlias normalises an alias or name for matching.
func FoldAlias(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// IsContainer reports whether the entity exists and can hold other entities.
func (w World) IsContainer(id types.EntityID) bool {
	return w.hasContainer(id)
}
