package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegesis/engine/internal/world"
)

func entry(t *testing.T, tick int64, a world.Action) JournalEntry {
	t.Helper()
	rec, err := world.MarshalAction(a)
	require.NoError(t, err)
	return JournalEntry{Tick: tick, Type: a.Type(), Record: rec, At: time.Unix(1700000000, 0).UTC()}
}

func TestFileJournalAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	j, err := NewFileJournal(dir)
	require.NoError(t, err)

	require.NoError(t, j.Append(ctx, []JournalEntry{
		entry(t, 10, world.MovePlayer{ExitEntityID: 21}),
		entry(t, 10, world.AddMessage{Text: "hi"}),
	}))
	require.NoError(t, j.Append(ctx, []JournalEntry{entry(t, 11, world.AdvanceTime{Ticks: 1})}))
	require.NoError(t, j.Append(ctx, nil))

	all, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	last, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, world.ActionAddMessage, last[0].Type)

	a, err := last[1].Action()
	require.NoError(t, err)
	assert.Equal(t, world.AdvanceTime{Ticks: 1}, a)

	reopened, err := NewFileJournal(dir)
	require.NoError(t, err)
	require.NoError(t, reopened.Append(ctx, []JournalEntry{entry(t, 12, world.AddMessage{Text: "again"})}))
	all, err = reopened.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all[0].Seq, "numbering resumes after reopen")
}

func TestFileJournalEmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	j, err := NewFileJournal(dir)
	require.NoError(t, err)

	got, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, journalFile), []byte("{broken\n"), 0o644))
	_, err = j.Recent(ctx, 5)
	assert.ErrorContains(t, err, "journal line 1")
	_, err = NewFileJournal(dir)
	assert.Error(t, err)
}
