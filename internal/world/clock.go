package world

import "fmt"

const (
	TicksPerMinute = 1
	MinutesPerHour = 60
	HoursPerDay    = 24
	TicksPerDay    = TicksPerMinute * MinutesPerHour * HoursPerDay

	// StartOffset puts tick zero at 08:00 on day one.
	StartOffset = 8 * MinutesPerHour
)

// Phase is the coarse time of day.
type Phase string

const (
	PhaseMorning Phase = "morning"
	PhaseDay     Phase = "day"
	PhaseEvening Phase = "evening"
	PhaseNight   Phase = "night"
)

// Clock is the in-world calendar derived from elapsed ticks.
type Clock struct {
	Day    int64
	Hour   int64
	Minute int64
	Phase  Phase
}

// ClockAt converts elapsed ticks into calendar time.
func ClockAt(ticks int64) Clock {
	adjusted := ticks + StartOffset
	if adjusted < 0 {
		adjusted = 0
	}
	today := adjusted % TicksPerDay
	c := Clock{
		Day:    adjusted/TicksPerDay + 1,
		Hour:   today / (TicksPerMinute * MinutesPerHour),
		Minute: today / TicksPerMinute % MinutesPerHour,
	}
	switch {
	case c.Hour >= 5 && c.Hour < 12:
		c.Phase = PhaseMorning
	case c.Hour >= 12 && c.Hour < 17:
		c.Phase = PhaseDay
	case c.Hour >= 17 && c.Hour < 21:
		c.Phase = PhaseEvening
	default:
		c.Phase = PhaseNight
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("Day %d, %02d:%02d", c.Day, c.Hour, c.Minute)
}

// Clock returns the state's calendar time.
func (s State) Clock() Clock { return ClockAt(s.tick) }
