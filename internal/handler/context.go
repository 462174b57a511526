package handler

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/session"
	"github.com/diegesis/engine/internal/world"
)

// Deps holds shared dependencies injected into all command handlers.
type Deps struct {
	Session  *session.Session
	Registry *command.Registry
	Out      io.Writer
	Log      *zap.Logger

	// Privilege is the console's access level, used to filter help.
	Privilege command.Privilege
}

func (d *Deps) printf(format string, args ...any) {
	fmt.Fprintf(d.Out, format, args...)
}

func (d *Deps) println(s string) {
	fmt.Fprintln(d.Out, s)
}

func (d *Deps) state() world.State { return d.Session.State() }

// near resolves a word against the player's room and inventory, then by
// alias or ID anywhere. It prints a hint when nothing matches.
func (d *Deps) near(word string) (ecs.Entity, bool) {
	if word == "" {
		d.println("What?")
		return ecs.Entity{}, false
	}
	st := d.state()
	if e, ok := st.FindNear(word); ok {
		return e, true
	}
	if e, ok := st.ResolveTarget(word); ok && reachable(st, e) {
		return e, true
	}
	d.printf("You see no %q here.\n", word)
	return ecs.Entity{}, false
}

// reachable reports whether e is in the player's room or carried.
func reachable(st world.State, e ecs.Entity) bool {
	where, ok := st.World().ContainerOf(e.ID)
	if !ok {
		return false
	}
	if where == st.PlayerID() {
		return true
	}
	room, ok := st.PlayerRoom()
	return ok && where == room
}

var (
	anyone     = []command.Privilege{command.PrivPlayer, command.PrivEditor}
	editorOnly = []command.Privilege{command.PrivEditor}
)

// bind adapts a handler to the registry's callback signature.
func bind(deps *Deps, fn func(context.Context, *command.Reader, *Deps) error) command.HandlerFunc {
	return func(ctx context.Context, r *command.Reader) error {
		return fn(ctx, r, deps)
	}
}

// RegisterAll registers every verb into the registry.
func RegisterAll(reg *command.Registry, deps *Deps) {
	deps.Registry = reg

	// Looking around
	reg.Register("look", []string{"l"}, anyone, "describe the room", bind(deps, HandleLook))
	reg.Register("examine", []string{"x", "inspect"}, anyone, "examine <thing>", bind(deps, HandleExamine))
	reg.Register("inventory", []string{"i", "inv"}, anyone, "list what you carry", bind(deps, HandleInventory))
	reg.Register("time", nil, anyone, "show the in-world time", bind(deps, HandleTime))

	// Acting
	reg.Register("go", []string{"move", "walk", "enter"}, anyone, "go <exit>", bind(deps, HandleGo))
	reg.Register("take", []string{"get", "pick"}, anyone, "take <item>", bind(deps, HandleTake))
	reg.Register("drop", nil, anyone, "drop <item>", bind(deps, HandleDrop))
	reg.Register("talk", []string{"interact", "use", "touch"}, anyone, "talk <someone> / use <thing>", bind(deps, HandleTalk))
	reg.Register("unlock", []string{"open"}, anyone, "unlock <thing>", bind(deps, HandleUnlock))
	reg.Register("wait", []string{"z"}, anyone, "wait [minutes]", bind(deps, HandleWait))

	// Session
	reg.Register("save", nil, anyone, "save [slot]", bind(deps, HandleSave))
	reg.Register("load", []string{"restore"}, anyone, "load [slot]", bind(deps, HandleLoad))
	reg.Register("slots", nil, anyone, "list save slots", bind(deps, HandleSlots))
	reg.Register("delete", nil, anyone, "delete <slot>", bind(deps, HandleDelete))
	reg.Register("help", []string{"?"}, anyone, "list verbs", bind(deps, HandleHelp))
	reg.Register("quit", []string{"exit", "q"}, anyone, "leave the game", bind(deps, HandleQuit))

	// Editor
	reg.Register("@dispatch", nil, editorOnly, "@dispatch <action json>", bind(deps, HandleDispatch))
	reg.Register("@teleport", []string{"@tp"}, editorOnly, "@teleport <room>", bind(deps, HandleTeleport))
	reg.Register("@export", nil, editorOnly, "@export <file.json|file.yaml>", bind(deps, HandleExport))
	reg.Register("@import", nil, editorOnly, "@import <file.json|file.yaml>", bind(deps, HandleImport))
	reg.Register("@check", nil, editorOnly, "verify containment", bind(deps, HandleCheck))
	reg.Register("@vars", nil, editorOnly, "list global variables", bind(deps, HandleVars))
}
