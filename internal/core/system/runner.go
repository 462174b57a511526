package system

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Runner runs the registered systems in phase order at the end of each
// player turn. A panicking system is logged and skipped for that turn; the
// rest of the turn still runs.
type Runner struct {
	systems []System
	turns   int64
	log     *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Register inserts s after every system of the same or an earlier phase,
// so registration order breaks ties.
func (r *Runner) Register(s System) {
	i := sort.Search(len(r.systems), func(i int) bool {
		return r.systems[i].Phase() > s.Phase()
	})
	r.systems = append(r.systems, nil)
	copy(r.systems[i+1:], r.systems[i:])
	r.systems[i] = s
}

// Tick ends a turn. dt is the wall time since the previous turn.
func (r *Runner) Tick(dt time.Duration) {
	r.turns++
	for _, s := range r.systems {
		r.run(s, dt)
	}
}

// TickPhase runs only the systems of one phase without counting a turn.
// Session close uses it to deliver events before the final flushes.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	for _, s := range r.systems {
		if s.Phase() == phase {
			r.run(s, dt)
		}
	}
}

// Turns reports how many full turns have run.
func (r *Runner) Turns() int64 { return r.turns }

func (r *Runner) run(s System, dt time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("system panicked",
				zap.String("system", fmt.Sprintf("%T", s)),
				zap.Int("phase", int(s.Phase())),
				zap.Int64("turn", r.turns),
				zap.Any("panic", rec),
			)
		}
	}()
	s.Update(dt)
}
