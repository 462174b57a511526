package system

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/core/event"
	coresys "github.com/diegesis/engine/internal/core/system"
	"github.com/diegesis/engine/internal/persist"
	"github.com/diegesis/engine/internal/world"
)

// StateSource exposes the session's current state.
type StateSource interface {
	State() world.State
}

type saveJob struct {
	snap    world.Snapshot
	preview string
}

// AutosaveSystem writes the session to a save slot after every N applied
// actions. Writes run on a background goroutine; when a write is still in
// flight the newest pending snapshot replaces any older one, so Update
// never blocks the turn. Phase Persist.
type AutosaveSystem struct {
	src      StateSource
	store    persist.SlotStore
	slot     string
	interval int
	log      *zap.Logger

	actions int
	dirty   bool

	jobs  chan saveJob
	done  chan struct{}
	once  sync.Once
	saved atomic.Int64
}

// NewAutosaveSystem subscribes to applied actions on bus and starts the
// writer goroutine. interval <= 0 disables the periodic save; Flush still
// works.
func NewAutosaveSystem(src StateSource, store persist.SlotStore, bus *event.Bus, slot string, interval int, log *zap.Logger) *AutosaveSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &AutosaveSystem{
		src:      src,
		store:    store,
		slot:     slot,
		interval: interval,
		log:      log,
		jobs:     make(chan saveJob, 1),
		done:     make(chan struct{}),
	}
	event.Subscribe(bus, func(event.ActionApplied) {
		s.actions++
		s.dirty = true
	})
	go s.writer()
	return s
}

func (s *AutosaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *AutosaveSystem) Update(_ time.Duration) {
	if s.interval <= 0 || !s.dirty || s.actions < s.interval {
		return
	}
	s.actions = 0
	s.dirty = false
	st := s.src.State()
	s.enqueue(saveJob{snap: st.Snapshot(), preview: st.Preview()})
}

// Saved counts completed background writes.
func (s *AutosaveSystem) Saved() int64 { return s.saved.Load() }

// Dirty reports whether actions were applied since the last save.
func (s *AutosaveSystem) Dirty() bool { return s.dirty }

// Flush saves synchronously if anything changed. Used at shutdown.
func (s *AutosaveSystem) Flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	st := s.src.State()
	if err := s.store.Save(ctx, s.slot, st.Snapshot(), st.Preview()); err != nil {
		return err
	}
	s.actions = 0
	s.dirty = false
	return nil
}

// Close stops the writer after it finished any queued save.
func (s *AutosaveSystem) Close() {
	s.once.Do(func() {
		close(s.jobs)
		<-s.done
	})
}

func (s *AutosaveSystem) enqueue(job saveJob) {
	for {
		select {
		case s.jobs <- job:
			return
		default:
		}
		// Drop the stale pending job and retry.
		select {
		case <-s.jobs:
		default:
		}
	}
}

func (s *AutosaveSystem) writer() {
	defer close(s.done)
	for job := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.store.Save(ctx, s.slot, job.snap, job.preview)
		cancel()
		if err != nil {
			s.log.Error("autosave failed", zap.String("slot", s.slot), zap.Error(err))
			continue
		}
		s.saved.Add(1)
		s.log.Debug("autosaved", zap.String("slot", s.slot), zap.String("preview", job.preview))
	}
}
