package handler

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/persist"
	"github.com/diegesis/engine/internal/session"
	"github.com/diegesis/engine/internal/world"
)

// QuickSlot is used by save and load when no slot is named.
const QuickSlot = "quicksave"

// waitDefault is the number of minutes "wait" passes without an argument.
const waitDefault = 10

// HandleWait lets time pass.
func HandleWait(_ context.Context, r *command.Reader, deps *Deps) error {
	n := int64(waitDefault)
	if w := r.Next(); w != "" {
		v, err := strconv.ParseInt(w, 10, 64)
		if err != nil || v <= 0 {
			deps.println("Wait how many minutes?")
			return nil
		}
		n = v
	}
	next := deps.Session.Dispatch(world.AdvanceTime{Ticks: n * world.TicksPerMinute})
	deps.Session.Narrate("Time passes. It is now %s.", next.Clock())
	return nil
}

func HandleSave(ctx context.Context, r *command.Reader, deps *Deps) error {
	slot := slotArg(r)
	if err := deps.Session.Save(ctx, slot); err != nil {
		reportSlotError(deps, slot, err)
		return nil
	}
	deps.printf("Saved to %q (%s).\n", slot, deps.state().Preview())
	return nil
}

func HandleLoad(ctx context.Context, r *command.Reader, deps *Deps) error {
	slot := slotArg(r)
	if err := deps.Session.Load(ctx, slot); err != nil {
		reportSlotError(deps, slot, err)
		return nil
	}
	deps.printf("Loaded %q.\n", slot)
	describeRoom(deps)
	return nil
}

func HandleSlots(ctx context.Context, _ *command.Reader, deps *Deps) error {
	slots, err := deps.Session.Slots(ctx)
	if err != nil {
		reportSlotError(deps, "", err)
		return nil
	}
	if len(slots) == 0 {
		deps.println("No saved games.")
		return nil
	}
	for _, s := range slots {
		deps.printf("  %-16s %s  %s\n", s.ID, s.Timestamp.Local().Format("2006-01-02 15:04"), s.Preview)
	}
	return nil
}

func HandleDelete(ctx context.Context, r *command.Reader, deps *Deps) error {
	slot := r.Next()
	if slot == "" {
		deps.println("Delete which slot?")
		return nil
	}
	if err := deps.Session.DeleteSlot(ctx, slot); err != nil {
		reportSlotError(deps, slot, err)
		return nil
	}
	deps.printf("Deleted %q.\n", slot)
	return nil
}

// HandleHelp lists the verbs available at the console's privilege.
func HandleHelp(_ context.Context, _ *command.Reader, deps *Deps) error {
	for _, v := range deps.Registry.Verbs(deps.Privilege) {
		deps.printf("  %-10s %s\n", v.Name, v.Help)
	}
	return nil
}

// HandleQuit ends the console loop; the caller closes the session.
func HandleQuit(_ context.Context, _ *command.Reader, deps *Deps) error {
	deps.Log.Info("player quit", zap.Int64("tick", deps.state().Tick()))
	return command.ErrQuit
}

func slotArg(r *command.Reader) string {
	if s := r.Next(); s != "" {
		return s
	}
	return QuickSlot
}

func reportSlotError(deps *Deps, slot string, err error) {
	switch {
	case errors.Is(err, persist.ErrSlotNotFound):
		deps.printf("There is no save called %q.\n", slot)
	case errors.Is(err, persist.ErrInvalidSlotID):
		deps.println("Slot names may use letters, digits, '-' and '_'.")
	case errors.Is(err, session.ErrNoStore):
		deps.println("Saving is not available in this session.")
	case errors.Is(err, persist.ErrChecksum):
		deps.printf("The save %q is damaged and cannot be loaded.\n", slot)
	default:
		deps.printf("Could not complete that: %v\n", err)
		deps.Log.Error("slot operation failed", zap.String("slot", slot), zap.Error(err))
	}
}
