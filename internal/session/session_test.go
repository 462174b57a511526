package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/core/event"
	"github.com/diegesis/engine/internal/core/types"
	"github.com/diegesis/engine/internal/persist"
	"github.com/diegesis/engine/internal/world"
)

func newStore(t *testing.T) *persist.FileStore {
	t.Helper()
	store, err := persist.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func start(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func lastMessage(s *Session) string {
	msgs := s.State().Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func TestNewWithoutStoreUsesBuiltinWorld(t *testing.T) {
	s := start(t, Options{})
	assert.Equal(t, cartridge.Default().Meta, s.State().Meta())
	assert.Equal(t, world.FromDefinition(cartridge.Default()), s.State())
}

func TestNewHonoursVersionGate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	saved := cartridge.Default()
	saved.Meta.Title = "Persisted"
	saved.Meta.Version = "1.0.0"
	require.NoError(t, store.SaveWorld(ctx, saved))

	core, logs := observer.New(zapcore.InfoLevel)
	s := start(t, Options{Store: store, ExpectedVersion: "2.0.1", Log: zap.New(core)})
	assert.Equal(t, "The Abandoned Station", s.State().Meta().Title)
	assert.Equal(t, 1, logs.FilterMessage("persisted world version mismatch, using built-in world").Len())

	s2 := start(t, Options{Store: store, ExpectedVersion: "1.0.0"})
	assert.Equal(t, "Persisted", s2.State().Meta().Title)
}

func TestSeedBypassesStoredWorld(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	stored := cartridge.Default()
	stored.Meta.Title = "Stored"
	require.NoError(t, store.SaveWorld(ctx, stored))

	seed := cartridge.Default()
	seed.Meta.Title = "Seed"
	seed.Meta.Version = "9.9.9"
	s := start(t, Options{Store: store, Seed: &seed, ExpectedVersion: "2.0.1", PersistWorld: true})
	assert.Equal(t, "Seed", s.State().Meta().Title)

	def, err := store.LoadWorld(ctx)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Seed", def.Meta.Title, "the seed becomes the active world")
}

func TestDispatchPublishesActions(t *testing.T) {
	s := start(t, Options{})
	var got []world.ActionType
	event.Subscribe(s.Bus(), func(e event.ActionApplied) { got = append(got, e.Action.Type()) })

	st := s.Dispatch(world.MovePlayer{ExitEntityID: 21}, nil, world.AddMessage{Text: "hi"})
	room, _ := st.PlayerRoom()
	assert.Equal(t, types.EntityID(4), room)
	assert.Empty(t, got, "events are delivered at end of turn")

	s.EndTurn()
	assert.Equal(t, []world.ActionType{world.ActionMovePlayer, world.ActionAddMessage}, got)
}

func TestInteractRunsScriptsThenFallsBack(t *testing.T) {
	s := start(t, Options{FallbackMessage: "Nothing stirs."})
	var fired []types.EntityID
	event.Subscribe(s.Bus(), func(e event.ScriptFired) { fired = append(fired, e.EntityID) })

	s.Dispatch(world.TeleportPlayer{RoomID: 3})
	assert.True(t, s.Interact(8))
	assert.Contains(t, lastMessage(s), "Organic lifeform detected")
	assert.True(t, s.State().Flag("met_gardener"))

	assert.True(t, s.Interact(8))
	assert.Equal(t, "Unit-734 buzzes angrily at you.", lastMessage(s))

	assert.False(t, s.Interact(5))
	assert.Equal(t, "Nothing stirs.", lastMessage(s))

	n := s.State().MessageCount()
	assert.False(t, s.Interact(404))
	assert.Equal(t, n, s.State().MessageCount())

	s.EndTurn()
	assert.Equal(t, []types.EntityID{8, 8}, fired)
}

func TestInteractDefaultFallback(t *testing.T) {
	s := start(t, Options{})
	s.Interact(5)
	assert.Equal(t, DefaultFallback, lastMessage(s))
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := start(t, Options{Store: newStore(t)})

	s.Dispatch(world.MovePlayer{ExitEntityID: 20}, world.SetVariable{Key: "k", Value: "v"})
	want := s.State()
	require.NoError(t, s.Save(ctx, "slot1"))

	s.Dispatch(world.MovePlayer{ExitEntityID: 22}, world.AddMessage{Text: "later"})
	require.NoError(t, s.Load(ctx, "slot1"))

	got := s.State()
	room, _ := got.PlayerRoom()
	assert.Equal(t, types.EntityID(3), room)
	assert.Equal(t, want.Tick(), got.Tick())
	assert.True(t, got.Flag("k"))

	slots, err := s.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Overgrown Garden - Day 1", slots[0].Preview)

	require.NoError(t, s.DeleteSlot(ctx, "slot1"))
	err = s.Load(ctx, "slot1")
	assert.ErrorIs(t, err, persist.ErrSlotNotFound)
	assert.Equal(t, got, s.State(), "a failed load keeps the state")
}

func TestSlotOperationsNeedStore(t *testing.T) {
	ctx := context.Background()
	s := start(t, Options{})
	assert.ErrorIs(t, s.Save(ctx, "x"), ErrNoStore)
	assert.ErrorIs(t, s.Load(ctx, "x"), ErrNoStore)
	assert.ErrorIs(t, s.DeleteSlot(ctx, "x"), ErrNoStore)
	_, err := s.Slots(ctx)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestLoadWorld(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := start(t, Options{Store: store, PersistWorld: true})
	s.Dispatch(world.AdvanceTime{Ticks: 99})

	def := cartridge.Default()
	def.Meta.Title = "Second Station"
	require.NoError(t, s.LoadWorld(ctx, def))
	assert.Equal(t, "Second Station", s.State().Meta().Title)
	assert.Equal(t, int64(0), s.State().Tick())

	stored, err := store.LoadWorld(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Second Station", stored.Meta.Title)

	err = s.LoadWorld(ctx, world.Definition{Meta: def.Meta})
	assert.ErrorIs(t, err, cartridge.ErrMalformed)
	assert.Equal(t, "Second Station", s.State().Meta().Title)

	err = s.LoadWorld(ctx, world.Definition{Entities: def.Entities})
	assert.ErrorIs(t, err, cartridge.ErrMalformed)
	assert.Equal(t, "Second Station", s.State().Meta().Title)
}

// readOnlyWorld accepts slots but refuses to record the active world.
type readOnlyWorld struct {
	*persist.FileStore
}

func (readOnlyWorld) SaveWorld(context.Context, world.Definition) error {
	return errors.New("disk full")
}

func TestLoadWorldKeepsWorldWhenRecordingFails(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	s := start(t, Options{Store: readOnlyWorld{newStore(t)}, PersistWorld: true, Log: zap.New(core)})

	def := cartridge.Default()
	def.Meta.Title = "Second Station"
	require.NoError(t, s.LoadWorld(ctx, def))
	assert.Equal(t, "Second Station", s.State().Meta().Title)

	warned := logs.FilterMessage("record active world").All()
	require.NotEmpty(t, warned)
	assert.Equal(t, "disk full", warned[len(warned)-1].ContextMap()["error"])
}

func TestAutosaveAfterInterval(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s, err := New(ctx, Options{Store: store, AutosaveSlot: "auto", AutosaveEvery: 2})
	require.NoError(t, err)

	s.Dispatch(world.AdvanceTime{Ticks: 1})
	s.EndTurn()
	s.Dispatch(world.AdvanceTime{Ticks: 1})
	s.EndTurn()
	require.NoError(t, s.Close(ctx))

	snap, err := store.Load(ctx, "auto")
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Time)
}

func TestCloseFlushesPendingChanges(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s, err := New(ctx, Options{Store: store, AutosaveSlot: "auto", AutosaveEvery: 100})
	require.NoError(t, err)

	s.Dispatch(world.AdvanceTime{Ticks: 7})
	require.NoError(t, s.Close(ctx))

	snap, err := store.Load(ctx, "auto")
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.Time)
}

func TestJournalRecordsDispatchedActions(t *testing.T) {
	ctx := context.Background()
	j, err := persist.NewFileJournal(t.TempDir())
	require.NoError(t, err)
	s, err := New(ctx, Options{Journal: j})
	require.NoError(t, err)

	s.Dispatch(world.MovePlayer{ExitEntityID: 21})
	s.EndTurn()
	s.Interact(5)
	require.NoError(t, s.Close(ctx))

	entries, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, world.ActionMovePlayer, entries[0].Type)
	assert.Equal(t, int64(world.MoveCost), entries[0].Tick)
	a, err := entries[1].Action()
	require.NoError(t, err)
	assert.Equal(t, world.AddMessage{Text: DefaultFallback}, a)
}
