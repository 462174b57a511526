package system

import (
	"time"

	"github.com/diegesis/engine/internal/core/event"
	coresys "github.com/diegesis/engine/internal/core/system"
)

// EventDispatchSystem publishes the turn's events to subscribers.
// Runs first so later phases observe the turn's effects.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
