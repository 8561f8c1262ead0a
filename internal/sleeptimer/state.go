package sleeptimer

import (
	"time"

	"github.com/google/uuid"
)

// Event is an input to the timer state machine: a caller Message or an expiry.
type Event interface {
	event()
}

// Message is a control message callers send to the coordinator inbox.
type Message interface {
	Event
	message()
}

// StartTimer arms the timer, replacing any pending arm.
type StartTimer struct {
	Duration time.Duration
}

func (StartTimer) event()   {}
func (StartTimer) message() {}

// Cancel disarms a pending timer. It is a no-op when idle.
type Cancel struct{}

func (Cancel) event()   {}
func (Cancel) message() {}

// Expired is produced by the run loop when the remaining time reaches zero.
type Expired struct{}

func (Expired) event() {}

// Effect is the side effect a transition asks the run loop to perform.
type Effect int

const (
	// EffectNone means the transition needs no side effect
	EffectNone Effect = iota
	// EffectFade asks the loop to fade out and pause the player
	EffectFade
)

// State is the single timer slot. The zero value is Idle.
type State struct {
	armed    bool
	duration time.Duration
	start    time.Time
	armID    uuid.UUID
}

// Idle returns the disarmed state.
func Idle() State { return State{} }

// Armed returns a state armed for d starting at start.
func Armed(d time.Duration, start time.Time) State {
	return State{armed: true, duration: d, start: start, armID: uuid.New()}
}

// IsArmed reports whether a countdown is running
func (s State) IsArmed() bool { return s.armed }

// Duration is the requested countdown length
func (s State) Duration() time.Duration { return s.duration }

// Start is the instant the timer was armed
func (s State) Start() time.Time { return s.start }

// ArmID identifies one arming. It is uuid.Nil when idle.
func (s State) ArmID() uuid.UUID { return s.armID }

// Deadline is the instant the timer expires. Zero when idle.
func (s State) Deadline() time.Time {
	if !s.armed {
		return time.Time{}
	}
	return s.start.Add(s.duration)
}

// Remaining is recomputed from start and duration on every call so time
// spent outside the wait is never lost. It never returns a negative value.
func (s State) Remaining(now time.Time) time.Duration {
	if !s.armed {
		return 0
	}
	r := s.duration - now.Sub(s.start)
	if r < 0 {
		return 0
	}
	return r
}

// Step is the pure transition function of the timer.
func Step(s State, ev Event, now time.Time) (State, Effect) {
	switch e := ev.(type) {
	case StartTimer:
		return Armed(e.Duration, now), EffectNone
	case Cancel:
		return Idle(), EffectNone
	case Expired:
		if !s.armed {
			return s, EffectNone
		}
		return Idle(), EffectFade
	default:
		return s, EffectNone
	}
}
