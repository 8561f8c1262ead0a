package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PlayState represents the playback state reported by the player
type PlayState string

const (
	// StatePlaying indicates the player is currently playing
	StatePlaying PlayState = "play"
	// StatePaused indicates playback is paused
	StatePaused PlayState = "pause"
	// StateStopped indicates playback is stopped
	StateStopped PlayState = "stop"
)

// UnknownVolume is reported when the player has no mixer
const UnknownVolume = -1

// PlayerStatus is a fresh snapshot of the player read over a connection.
// It is never cached.
type PlayerStatus struct {
	// Volume in the player-defined range, conventionally 0-100
	Volume int
	// State is the current play/pause state
	State PlayState
}

var (
	// ErrConnection means the player could not be reached
	ErrConnection = errors.New("player connection failed")
	// ErrCommand means a command failed on an established connection
	ErrCommand = errors.New("player command failed")
)

// TimerEventKind names a sleep timer transition
type TimerEventKind string

const (
	// EventArmed is sent when an idle timer is armed
	EventArmed TimerEventKind = "armed"
	// EventRearmed is sent when a running timer is replaced
	EventRearmed TimerEventKind = "rearmed"
	// EventCancelled is sent when a running timer is disarmed
	EventCancelled TimerEventKind = "cancelled"
	// EventFadeStarted is sent when the timer expires and the fade begins
	EventFadeStarted TimerEventKind = "fade_started"
	// EventFadeFinished is sent once playback is paused and the volume restored
	EventFadeFinished TimerEventKind = "fade_finished"
	// EventFadeFailed is sent when the fade could not complete
	EventFadeFailed TimerEventKind = "fade_failed"
	// EventStopped is sent when the coordinator loop exits
	EventStopped TimerEventKind = "stopped"
)

// TimerEvent describes a transition of the sleep timer coordinator
type TimerEvent struct {
	Kind     TimerEventKind
	ArmID    uuid.UUID
	Duration time.Duration
	// Deadline is the wall-clock expiry, zero when not armed
	Deadline time.Time
	At       time.Time
	// Err holds the failure text for EventFadeFailed
	Err string
}
