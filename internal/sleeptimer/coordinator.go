package sleeptimer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"go.uber.org/zap"
)

// DefaultInboxSize is the inbox buffer used when none is configured
const DefaultInboxSize = 16

var (
	// ErrInboxClosed is returned to senders once the coordinator stopped accepting messages
	ErrInboxClosed = errors.New("sleep timer inbox closed")
	// ErrInvalidDuration is returned for negative timer durations
	ErrInvalidDuration = errors.New("sleep timer duration must not be negative")
)

// FadeSequence is what the coordinator runs when the timer expires
type FadeSequence interface {
	FadeAndPause(ctx context.Context) error
}

// Coordinator owns the single sleep timer slot.
// It is the only reader of the inbox and the only writer of the timer state.
type Coordinator struct {
	logger   *zap.Logger
	fader    FadeSequence
	notifier domain.Notifier
	now      func() time.Time

	inbox     chan Message
	closing   chan struct{} // closed first so blocked senders give up the read lock
	closeOnce sync.Once
	mu        sync.RWMutex // held for reading by senders, for writing by Close
	closed    bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewCoordinator creates a coordinator with an inbox of the given size.
// notifier may be nil.
func NewCoordinator(logger *zap.Logger, fader FadeSequence, notifier domain.Notifier, inboxSize int) *Coordinator {
	if inboxSize < 0 {
		inboxSize = DefaultInboxSize
	}
	return &Coordinator{
		logger:   logger,
		fader:    fader,
		notifier: notifier,
		now:      time.Now,
		inbox:    make(chan Message, inboxSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Sender returns a handle for one caller. Handles are values and may be
// copied freely; they all feed the same inbox.
func (c *Coordinator) Sender() Sender {
	return Sender{c: c}
}

// Start launches the run loop in a goroutine and returns immediately.
func (c *Coordinator) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.logger.Info("Sleep timer coordinator starting")
	go func() {
		defer close(c.done)
		c.Run(runCtx)
	}()
	return nil
}

// Stop closes the inbox and waits for the loop to exit. If ctx expires
// first the loop context is cancelled, which aborts an in-progress fade.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.logger.Info("Sleep timer coordinator stopping...")
	c.Close()
	if c.cancel == nil {
		return nil
	}

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		c.logger.Warn("Sleep timer did not stop in time, aborting fade")
		c.cancel()
		<-c.done
		return ctx.Err()
	}
}

// Close closes the inbox. The loop drains what is already queued and then
// terminates for good. Safe to call more than once.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() { close(c.closing) })

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.inbox)
}

func (c *Coordinator) send(ctx context.Context, msg Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrInboxClosed
	}
	select {
	case c.inbox <- msg:
		return nil
	case <-c.closing:
		return ErrInboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run is the coordinator loop. It returns when the inbox is closed or ctx
// is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	state := Idle()

	for {
		var expiry <-chan time.Time
		var timer *time.Timer

		if state.IsArmed() {
			remaining := state.Remaining(c.now())
			if remaining <= 0 {
				state = c.apply(ctx, state, Expired{})
				continue
			}
			timer = time.NewTimer(remaining)
			expiry = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			c.logger.Info("Sleep timer loop stopped")
			c.publish(domain.TimerEvent{Kind: domain.EventStopped, At: time.Now()})
			return

		case msg, ok := <-c.inbox:
			stopTimer(timer)
			if !ok {
				if state.IsArmed() {
					c.logger.Info("Inbox closed, discarding pending timer",
						zap.Stringer("armID", state.ArmID()),
						zap.Duration("remaining", state.Remaining(c.now())))
				} else {
					c.logger.Info("Inbox closed")
				}
				c.publish(domain.TimerEvent{Kind: domain.EventStopped, At: time.Now()})
				return
			}
			state = c.apply(ctx, state, msg)

		case <-expiry:
			state = c.apply(ctx, state, Expired{})
		}
	}
}

// apply runs one transition and its effect, logging the outcome
func (c *Coordinator) apply(ctx context.Context, state State, ev Event) State {
	next, effect := Step(state, ev, c.now())

	switch ev.(type) {
	case StartTimer:
		kind := domain.EventArmed
		if state.IsArmed() {
			kind = domain.EventRearmed
			c.logger.Info("Sleep timer replaced",
				zap.Stringer("previous", state.ArmID()),
				zap.Stringer("armID", next.ArmID()),
				zap.Duration("duration", next.Duration()))
		} else {
			c.logger.Info("Sleep timer armed",
				zap.Stringer("armID", next.ArmID()),
				zap.Duration("duration", next.Duration()))
		}
		c.publish(domain.TimerEvent{
			Kind:     kind,
			ArmID:    next.ArmID(),
			Duration: next.Duration(),
			Deadline: next.Deadline(),
			At:       time.Now(),
		})

	case Cancel:
		if !state.IsArmed() {
			c.logger.Debug("Cancel received while idle")
			break
		}
		c.logger.Info("Sleep timer cancelled",
			zap.Stringer("armID", state.ArmID()),
			zap.Duration("remaining", state.Remaining(c.now())))
		c.publish(domain.TimerEvent{
			Kind:     domain.EventCancelled,
			ArmID:    state.ArmID(),
			Duration: state.Duration(),
			At:       time.Now(),
		})
	}

	if effect == EffectFade {
		c.runFade(ctx, state)
	}
	return next
}

// runFade executes the fade synchronously. The outcome never re-arms the timer.
func (c *Coordinator) runFade(ctx context.Context, expired State) {
	c.logger.Info("Sleep timer expired, starting fade",
		zap.Stringer("armID", expired.ArmID()),
		zap.Duration("duration", expired.Duration()))
	c.publish(domain.TimerEvent{
		Kind:     domain.EventFadeStarted,
		ArmID:    expired.ArmID(),
		Duration: expired.Duration(),
		At:       time.Now(),
	})

	if err := c.fader.FadeAndPause(ctx); err != nil {
		c.logger.Error("Fade and pause failed", zap.Stringer("armID", expired.ArmID()), zap.Error(err))
		c.publish(domain.TimerEvent{
			Kind:  domain.EventFadeFailed,
			ArmID: expired.ArmID(),
			At:    time.Now(),
			Err:   err.Error(),
		})
		return
	}

	c.publish(domain.TimerEvent{
		Kind:  domain.EventFadeFinished,
		ArmID: expired.ArmID(),
		At:    time.Now(),
	})
}

func (c *Coordinator) publish(ev domain.TimerEvent) {
	if c.notifier != nil {
		c.notifier.Publish(ev)
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

var _ domain.SleepTimer = Sender{}

// Sender is a caller-side handle to the coordinator inbox.
type Sender struct {
	c *Coordinator
}

// StartTimer enqueues a StartTimer message. A zero duration expires at once.
func (s Sender) StartTimer(ctx context.Context, d time.Duration) error {
	if d < 0 {
		return ErrInvalidDuration
	}
	return s.c.send(ctx, StartTimer{Duration: d})
}

// Cancel enqueues a Cancel message.
func (s Sender) Cancel(ctx context.Context) error {
	return s.c.send(ctx, Cancel{})
}
