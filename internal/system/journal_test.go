package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegesis/engine/internal/core/event"
	"github.com/diegesis/engine/internal/persist"
	"github.com/diegesis/engine/internal/world"
)

type memJournal struct {
	entries []persist.JournalEntry
	fail    bool
}

func (m *memJournal) Append(_ context.Context, entries []persist.JournalEntry) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memJournal) Recent(_ context.Context, _ int) ([]persist.JournalEntry, error) {
	return m.entries, nil
}

func TestJournalWritesOneBatchPerTurn(t *testing.T) {
	mem := &memJournal{}
	bus := event.NewBus()
	events := NewEventDispatchSystem(bus)
	js := NewJournalSystem(mem, bus, nil)

	event.Emit(bus, event.ActionApplied{Action: world.MovePlayer{ExitEntityID: 21}, Tick: 10})
	event.Emit(bus, event.ActionApplied{Action: world.AddMessage{Text: "hi"}, Tick: 10})
	js.Update(0)
	assert.Empty(t, mem.entries, "events arrive at end of turn")

	events.Update(0)
	js.Update(0)
	require.Len(t, mem.entries, 2)
	assert.Equal(t, world.ActionMovePlayer, mem.entries[0].Type)
	assert.Equal(t, int64(10), mem.entries[1].Tick)
	a, err := mem.entries[1].Action()
	require.NoError(t, err)
	assert.Equal(t, world.AddMessage{Text: "hi"}, a)
	assert.Equal(t, 0, js.Pending())
}

func TestJournalRetriesFailedBatch(t *testing.T) {
	mem := &memJournal{fail: true}
	bus := event.NewBus()
	events := NewEventDispatchSystem(bus)
	js := NewJournalSystem(mem, bus, nil)

	event.Emit(bus, event.ActionApplied{Action: world.AdvanceTime{Ticks: 5}, Tick: 5})
	events.Update(0)
	js.Update(0)
	assert.Equal(t, 1, js.Pending())

	mem.fail = false
	require.NoError(t, js.Flush(context.Background()))
	assert.Len(t, mem.entries, 1)
	assert.Equal(t, 0, js.Pending())
}
