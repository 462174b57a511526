package handler

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/world"
)

// HandleDispatch applies a raw action record, e.g.
// @dispatch {"type":"SET_VARIABLE","payload":{"key":"door_open","value":true}}
// A LOAD_WORLD definition goes through the cartridge decoder first, so a
// record without meta or entities is rejected before it reaches the state.
func HandleDispatch(ctx context.Context, r *command.Reader, deps *Deps) error {
	raw := r.Raw()
	if raw == "" {
		deps.println(`usage: @dispatch {"type":"...","payload":{...}}`)
		return nil
	}
	a, err := world.UnmarshalAction([]byte(raw))
	if err != nil {
		deps.printf("Rejected: %v\n", err)
		return nil
	}
	if a.Type() == world.ActionLoadWorld {
		def, err := loadWorldPayload(raw)
		if err == nil {
			err = deps.Session.LoadWorld(ctx, def)
		}
		if err != nil {
			deps.printf("Rejected: %v\n", err)
			return nil
		}
	} else {
		deps.Session.Dispatch(a)
	}
	deps.Log.Info("editor dispatch", zap.String("type", string(a.Type())))
	deps.printf("%s applied.\n", a.Type())
	return nil
}

func loadWorldPayload(raw string) (world.Definition, error) {
	var rec struct {
		Payload struct {
			Definition json.RawMessage `json:"definition"`
		} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return world.Definition{}, fmt.Errorf("%w: %v", cartridge.ErrMalformed, err)
	}
	return cartridge.Decode(rec.Payload.Definition)
}

// HandleTeleport moves the player into any container by alias or ID.
func HandleTeleport(_ context.Context, r *command.Reader, deps *Deps) error {
	word := r.Rest()
	target, ok := deps.state().ResolveTarget(word)
	if !ok {
		deps.printf("No entity %q.\n", word)
		return nil
	}
	next := deps.Session.Dispatch(world.TeleportPlayer{RoomID: target.ID})
	if room, _ := next.PlayerRoom(); room != target.ID {
		deps.printf("%s cannot hold the player.\n", target.Name())
		return nil
	}
	describeRoom(deps)
	return nil
}

// HandleExport writes the current state as a world definition.
func HandleExport(_ context.Context, r *command.Reader, deps *Deps) error {
	path := r.Rest()
	if path == "" {
		deps.println("Export to which file?")
		return nil
	}
	if err := cartridge.WriteFile(path, deps.state().Definition()); err != nil {
		deps.printf("Export failed: %v\n", err)
		return nil
	}
	deps.printf("Wrote %s.\n", path)
	return nil
}

// HandleImport validates a cartridge and restarts the session from it. A
// malformed file leaves the current state untouched.
func HandleImport(ctx context.Context, r *command.Reader, deps *Deps) error {
	path := r.Rest()
	if path == "" {
		deps.println("Import which file?")
		return nil
	}
	def, err := cartridge.LoadFile(path)
	if err != nil {
		deps.printf("Import failed: %v\n", err)
		return nil
	}
	for _, w := range cartridge.Lint(def) {
		deps.printf("  warning: %s\n", w)
	}
	if err := deps.Session.LoadWorld(ctx, def); err != nil {
		deps.printf("Import failed: %v\n", err)
		return nil
	}
	deps.printf("Loaded %q v%s by %s.\n", def.Meta.Title, def.Meta.Version, def.Meta.Author)
	describeRoom(deps)
	return nil
}

// HandleCheck verifies the containment links of the live world.
func HandleCheck(_ context.Context, _ *command.Reader, deps *Deps) error {
	w := deps.state().World()
	violations := w.CheckContainment()
	if len(violations) == 0 {
		deps.printf("Containment OK across %d entities (next id %s).\n", w.Len(), w.NextID())
		return nil
	}
	for _, v := range violations {
		deps.printf("  %s\n", v)
	}
	return nil
}

// HandleVars lists global variables in key order.
func HandleVars(_ context.Context, _ *command.Reader, deps *Deps) error {
	vars := deps.state().Variables()
	if len(vars) == 0 {
		deps.println("No variables set.")
		return nil
	}
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		deps.printf("  %s = %s\n", k, fmt.Sprint(vars[k]))
	}
	return nil
}
