package system

import "time"

// Phase orders systems within one turn.
type Phase int

const (
	PhaseEvents  Phase = iota // deliver the turn's events
	PhaseUpdate               // world-facing bookkeeping
	PhasePersist              // autosave and journal writes
)

// System runs once at the end of every player turn.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
