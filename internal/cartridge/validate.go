package cartridge

import (
	"fmt"
	"maps"
	"slices"

	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/world"
)

// Lint reports authoring problems that loading would silently repair or
// that leave parts of the world unreachable. A definition with lint
// findings is still loadable.
func Lint(def world.Definition) []string {
	var out []string
	ids := slices.Sorted(maps.Keys(def.Entities))
	hasContainer := func(id types.EntityID) bool {
		e, ok := def.Entities[id]
		return ok && e.Components.Container != nil
	}

	if def.Meta.Version == "" {
		out = append(out, "meta.version is empty")
	}
	if _, ok := def.Entities[types.PlayerID]; !ok && def.Start.Player == nil {
		out = append(out, fmt.Sprintf("no player: entity %d is missing and start.player is unset", types.PlayerID))
	}
	if def.Start.RoomID != types.NilEntityID && !hasContainer(def.Start.RoomID) {
		out = append(out, fmt.Sprintf("start.roomId %d is not a container", def.Start.RoomID))
	}

	for _, id := range ids {
		e := def.Entities[id]
		c := e.Components
		if c.Identity == nil {
			out = append(out, fmt.Sprintf("entity %d has no identity", id))
		}
		if c.Position != nil {
			parent := c.Position.RoomID
			switch {
			case parent == id:
				out = append(out, fmt.Sprintf("entity %d is positioned inside itself", id))
			case !hasContainer(parent):
				out = append(out, fmt.Sprintf("entity %d is positioned in %d which is not a container", id, parent))
			case !slices.Contains(def.Entities[parent].Components.Container.Contents, id):
				out = append(out, fmt.Sprintf("entity %d is missing from the contents of %d", id, parent))
			}
		}
		if c.Container != nil {
			for _, child := range c.Container.Contents {
				ce, ok := def.Entities[child]
				if !ok {
					out = append(out, fmt.Sprintf("entity %d lists missing entity %d", id, child))
					continue
				}
				if ce.Components.Position == nil || ce.Components.Position.RoomID != id {
					out = append(out, fmt.Sprintf("entity %d lists %d whose position points elsewhere", id, child))
				}
			}
		}
		if c.Exit != nil && !hasContainer(c.Exit.TargetRoomID) {
			out = append(out, fmt.Sprintf("exit %d leads to %d which is not a room", id, c.Exit.TargetRoomID))
		}
		if c.Prop != nil && c.Prop.RequiredKey != types.NilEntityID {
			if _, ok := def.Entities[c.Prop.RequiredKey]; !ok {
				out = append(out, fmt.Sprintf("prop %d requires missing key %d", id, c.Prop.RequiredKey))
			}
		}
		out = append(out, lintScripts(id, c.Scripts)...)
	}
	return out
}

func lintScripts(id types.EntityID, scripts component.Scripts) []string {
	var out []string
	for _, trigger := range slices.Sorted(maps.Keys(scripts)) {
		for i, sc := range scripts[trigger] {
			for _, cond := range sc.Conditions {
				switch cond.Type {
				case component.ConditionFlagTrue, component.ConditionFlagFalse:
				default:
					out = append(out, fmt.Sprintf("entity %d %s[%d]: unknown condition %q", id, trigger, i, cond.Type))
				}
			}
			for _, fx := range sc.Effects {
				switch fx.Type {
				case component.EffectSetFlag, component.EffectShowDialogue:
				default:
					out = append(out, fmt.Sprintf("entity %d %s[%d]: unknown effect %q", id, trigger, i, fx.Type))
				}
			}
		}
	}
	return out
}
