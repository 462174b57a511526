package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/core/event"
	coresys "github.com/diegesis/engine/internal/core/system"
	"github.com/diegesis/engine/internal/persist"
	"github.com/diegesis/engine/internal/world"
)

// JournalSystem appends every applied action to the action journal, one
// batch per turn. A failed batch is kept and retried on the next turn.
// Phase Persist.
type JournalSystem struct {
	journal persist.Journal
	log     *zap.Logger
	pending []persist.JournalEntry
	now     func() time.Time
}

func NewJournalSystem(journal persist.Journal, bus *event.Bus, log *zap.Logger) *JournalSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &JournalSystem{journal: journal, log: log, now: time.Now}
	event.Subscribe(bus, func(ev event.ActionApplied) {
		rec, err := world.MarshalAction(ev.Action)
		if err != nil {
			s.log.Warn("action not journaled", zap.Error(err))
			return
		}
		s.pending = append(s.pending, persist.JournalEntry{
			Tick:   ev.Tick,
			Type:   ev.Action.Type(),
			Record: rec,
			At:     s.now().UTC(),
		})
	})
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.log.Error("journal write failed", zap.Int("pending", len(s.pending)), zap.Error(err))
	}
}

// Flush writes everything pending. Used by Update and at shutdown.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.journal.Append(ctx, s.pending); err != nil {
		return err
	}
	s.log.Debug("journal appended", zap.Int("entries", len(s.pending)))
	s.pending = s.pending[:0]
	return nil
}

// Pending returns the number of entries not yet written.
func (s *JournalSystem) Pending() int { return len(s.pending) }
