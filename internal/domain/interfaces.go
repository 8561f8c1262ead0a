package domain

import (
	"context"
	"time"
)

// PlayerControl opens connections to the playback daemon.
// A connection is opened per operation and closed right after.
//
//go:generate mockgen -destination=mocks/player_mock.go -package=mocks github.com/genricoloni/mpdsleep/internal/domain PlayerControl,PlayerConn
type PlayerControl interface {
	// Open connects to the player. Failures wrap ErrConnection.
	Open(ctx context.Context) (PlayerConn, error)
}

// PlayerConn performs atomic commands on an open player connection.
// Command failures wrap ErrCommand.
type PlayerConn interface {
	// Status reads the current volume and play state
	Status(ctx context.Context) (PlayerStatus, error)

	// SetVolume sets the playback volume
	SetVolume(ctx context.Context, volume int) error

	// SetPause pauses (true) or resumes (false) playback
	SetPause(ctx context.Context, paused bool) error

	// TogglePause flips between playing and paused
	TogglePause(ctx context.Context) error

	// Close releases the connection
	Close() error
}

// SleepTimer is the fire-and-forget contract request handlers use to reach
// the timer coordinator.
type SleepTimer interface {
	// StartTimer arms (or re-arms) the timer for d
	StartTimer(ctx context.Context, d time.Duration) error

	// Cancel disarms a pending timer
	Cancel(ctx context.Context) error
}

// Notifier receives timer events for outbound delivery.
// Publish must not block the caller.
type Notifier interface {
	Publish(ev TimerEvent)
}

// Config defines the interface for application configuration
type Config interface {
	// GetListenAddr returns the HTTP listen address
	GetListenAddr() string

	// GetInboxSize returns the coordinator inbox buffer size
	GetInboxSize() int

	// GetFadeFloor returns the volume the fade ramps down to
	GetFadeFloor() int

	// GetFadeStep returns the pause between fade steps
	GetFadeStep() time.Duration
}
