package sleeptimer

import (
	"context"
	"fmt"
	"time"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultFadeFloor = 40
	DefaultFadeStep  = 100 * time.Millisecond
)

// Fader ramps the volume down to a floor, pauses, then restores the
// original volume so the next play starts at the level the listener chose.
type Fader struct {
	logger *zap.Logger
	player domain.PlayerControl
	floor  int
	step   time.Duration
}

// NewFader creates a fader for the given player
func NewFader(logger *zap.Logger, player domain.PlayerControl, floor int, step time.Duration) *Fader {
	return &Fader{
		logger: logger,
		player: player,
		floor:  floor,
		step:   step,
	}
}

// FadeAndPause runs the full sequence on a fresh connection.
// A failed step aborts the rest; a partial fade is not rolled back.
func (f *Fader) FadeAndPause(ctx context.Context) (err error) {
	conn, err := f.player.Open(ctx)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(conn))

	status, err := conn.Status(ctx)
	if err != nil {
		return fmt.Errorf("read volume: %w", err)
	}
	volume := status.Volume

	f.logger.Info("Fading out",
		zap.Int("volume", volume),
		zap.Int("floor", f.floor),
		zap.String("state", string(status.State)))

	for v := volume - 1; v >= f.floor; v-- {
		if err := conn.SetVolume(ctx, v); err != nil {
			return fmt.Errorf("fade step %d: %w", v, err)
		}
		if err := sleep(ctx, f.step); err != nil {
			return fmt.Errorf("fade interrupted at %d: %w", v, err)
		}
	}

	if err := conn.SetPause(ctx, true); err != nil {
		return fmt.Errorf("pause: %w", err)
	}

	if volume == domain.UnknownVolume {
		f.logger.Debug("Player has no mixer, skipping volume restore")
		return nil
	}
	if err := conn.SetVolume(ctx, volume); err != nil {
		return fmt.Errorf("restore volume %d: %w", volume, err)
	}

	f.logger.Info("Playback paused", zap.Int("restoredVolume", volume))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
