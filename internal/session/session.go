// Package session owns the single live game state. It applies actions in
// dispatch order, runs entity scripts, publishes what happened on the event
// bus and hands persistence to the configured slot store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/component"
	"github.com/diegesis/engine/internal/core/event"
	coresys "github.com/diegesis/engine/internal/core/system"
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/persist"
	"github.com/diegesis/engine/internal/scripting"
	"github.com/diegesis/engine/internal/system"
	"github.com/diegesis/engine/internal/world"
)

// DefaultFallback is narrated when an interaction matches no script.
const DefaultFallback = "Nothing happens."

// ErrNoStore is returned by slot operations on a session without storage.
var ErrNoStore = errors.New("no save storage configured")

// Options configures a session. Zero values are usable: no storage, the
// built-in world, and the default fallback message.
type Options struct {
	// Seed, when set, is the definition the session starts from. It bypasses
	// the persisted active world and its version gate.
	Seed *world.Definition
	// ExpectedVersion gates auto-loading of the store's active world.
	ExpectedVersion string
	FallbackMessage string

	Store         persist.SlotStore
	PersistWorld  bool // record the active world on start and on LoadWorld
	AutosaveSlot  string
	AutosaveEvery int

	// Journal, when set, receives every applied action at the end of a turn.
	Journal persist.Journal

	Log *zap.Logger
}

// Session is the one logical owner of the current state. It is not safe for
// concurrent use; drive it from a single goroutine.
type Session struct {
	state    world.State
	scripts  *scripting.Engine
	bus      *event.Bus
	runner   *coresys.Runner
	autosave *system.AutosaveSystem
	journal  *system.JournalSystem
	store    persist.SlotStore
	opts     Options
	log      *zap.Logger
	lastTurn time.Time
}

// New bootstraps a session: from Seed when given, else from the store's
// active world if its version matches ExpectedVersion, else from the
// built-in world.
func New(ctx context.Context, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.FallbackMessage == "" {
		opts.FallbackMessage = DefaultFallback
	}

	s := &Session{
		scripts:  scripting.NewEngine(log.Named("script")),
		bus:      event.NewBus(),
		runner:   coresys.NewRunner(log.Named("systems")),
		store:    opts.Store,
		opts:     opts,
		log:      log,
		lastTurn: time.Now(),
	}
	s.runner.Register(system.NewEventDispatchSystem(s.bus))
	if s.store != nil && opts.AutosaveEvery > 0 {
		s.autosave = system.NewAutosaveSystem(s, s.store, s.bus, opts.AutosaveSlot, opts.AutosaveEvery, log.Named("autosave"))
		s.runner.Register(s.autosave)
	}
	if opts.Journal != nil {
		s.journal = system.NewJournalSystem(opts.Journal, s.bus, log.Named("journal"))
		s.runner.Register(s.journal)
	}

	def, err := s.bootstrapDefinition(ctx)
	if err != nil {
		s.Close(ctx)
		return nil, err
	}
	s.state = world.FromDefinition(def)
	event.Emit(s.bus, event.WorldLoaded{Meta: def.Meta})
	if err := s.recordWorld(ctx, def); err != nil {
		log.Warn("record active world", zap.Error(err))
	}
	log.Info("session started",
		zap.String("title", def.Meta.Title),
		zap.String("version", def.Meta.Version),
		zap.Int("entities", s.state.World().Len()),
	)
	return s, nil
}

func (s *Session) bootstrapDefinition(ctx context.Context) (world.Definition, error) {
	if s.opts.Seed != nil {
		return s.opts.Seed.Clone(), nil
	}
	if s.store == nil {
		return cartridge.Default(), nil
	}
	persisted, err := s.store.LoadWorld(ctx)
	if err != nil {
		return world.Definition{}, fmt.Errorf("load active world: %w", err)
	}
	return cartridge.Resolve(persisted, s.opts.ExpectedVersion, s.log), nil
}

// State returns the current state. Earlier values stay valid as stale
// snapshots.
func (s *Session) State() world.State { return s.state }

// Bus exposes the event bus for subscribers.
func (s *Session) Bus() *event.Bus { return s.bus }

// Dispatch reduces the actions strictly in order and returns the resulting
// state. Each action is published as ActionApplied.
func (s *Session) Dispatch(actions ...world.Action) world.State {
	for _, a := range actions {
		if a == nil {
			continue
		}
		s.state = world.Reduce(s.state, a)
		event.Emit(s.bus, event.ActionApplied{Action: a, Tick: s.state.Tick()})
	}
	return s.state
}

// Narrate appends a line to the message log.
func (s *Session) Narrate(format string, args ...any) {
	s.Dispatch(world.AddMessage{Text: fmt.Sprintf(format, args...)})
}

// EndTurn runs the turn systems: event delivery, then autosave.
func (s *Session) EndTurn() {
	now := time.Now()
	s.runner.Tick(now.Sub(s.lastTurn))
	s.lastTurn = now
}

// Interact fires the entity's ON_INTERACT scripts. When no script matches,
// the fallback message is narrated instead. It reports whether a script
// fired.
func (s *Session) Interact(id types.EntityID) bool {
	e, ok := s.state.World().Get(id)
	if !ok {
		return false
	}
	sc, ok := s.scripts.Match(s.state, e.Components.Scripts, component.TriggerInteract)
	if !ok {
		s.Narrate("%s", s.opts.FallbackMessage)
		return false
	}
	actions := s.scripts.ProcessEffects(sc.Effects)
	s.Dispatch(actions...)
	event.Emit(s.bus, event.ScriptFired{EntityID: id, Trigger: component.TriggerInteract, Actions: len(actions)})
	return true
}

// LoadWorld resets the session to def. A definition that fails
// cartridge.Check is rejected and the current state kept. Recording the
// new active world is best effort: a store failure is logged, the loaded
// world stays.
func (s *Session) LoadWorld(ctx context.Context, def world.Definition) error {
	if err := cartridge.Check(def); err != nil {
		return err
	}
	s.Dispatch(world.LoadWorld{Definition: def.Clone()})
	event.Emit(s.bus, event.WorldLoaded{Meta: def.Meta})
	s.log.Info("world loaded", zap.String("title", def.Meta.Title), zap.String("version", def.Meta.Version))
	if err := s.recordWorld(ctx, def); err != nil {
		s.log.Warn("record active world", zap.Error(err))
	}
	return nil
}

func (s *Session) recordWorld(ctx context.Context, def world.Definition) error {
	if s.store == nil || !s.opts.PersistWorld {
		return nil
	}
	return s.store.SaveWorld(ctx, def)
}

// Save writes the current state to a slot.
func (s *Session) Save(ctx context.Context, slot string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Save(ctx, slot, s.state.Snapshot(), s.state.Preview()); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	event.Emit(s.bus, event.GameSaved{Slot: slot})
	return nil
}

// Load replaces the state with a slot's snapshot. On error the current
// state is kept.
func (s *Session) Load(ctx context.Context, slot string) error {
	if s.store == nil {
		return ErrNoStore
	}
	snap, err := s.store.Load(ctx, slot)
	if err != nil {
		return fmt.Errorf("load %s: %w", slot, err)
	}
	s.Dispatch(world.LoadGame{State: snap})
	event.Emit(s.bus, event.GameLoaded{Slot: slot})
	return nil
}

func (s *Session) Slots(ctx context.Context) ([]persist.Slot, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.List(ctx)
}

func (s *Session) DeleteSlot(ctx context.Context, slot string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.Delete(ctx, slot)
}

// Close delivers pending events, writes the journal tail, flushes a dirty
// autosave and stops the background writer. The store itself is closed by
// its owner.
func (s *Session) Close(ctx context.Context) error {
	s.runner.TickPhase(coresys.PhaseEvents, 0)
	var errs []error
	if s.journal != nil {
		if err := s.journal.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush journal: %w", err))
		}
	}
	if s.autosave != nil {
		if err := s.autosave.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("final autosave: %w", err))
		}
		s.autosave.Close()
	}
	return errors.Join(errs...)
}
