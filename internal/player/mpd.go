package player

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/genricoloni/mpdsleep/internal/domain"
	"go.uber.org/zap"
)

// MPDClient is the subset of *mpd.Client the player needs.
//
//go:generate mockgen -destination=mocks/mpd_client_mock.go -package=mocks github.com/genricoloni/mpdsleep/internal/player MPDClient
type MPDClient interface {
	Status() (mpd.Attrs, error)
	SetVolume(volume int) error
	Pause(pause bool) error
	Close() error
}

// MPDDialer opens a client connection to MPD
type MPDDialer func(network, addr, password string) (MPDClient, error)

// MPDControl talks to MPD over its text protocol. Every Open dials a new
// connection so a dead daemon only fails the operation at hand.
type MPDControl struct {
	logger   *zap.Logger
	network  string
	addr     string
	password string
	dial     MPDDialer
}

// NewMPDControl creates an MPD-backed player. network is "tcp" or "unix".
func NewMPDControl(logger *zap.Logger, network, addr, password string) *MPDControl {
	return &MPDControl{
		logger:   logger,
		network:  network,
		addr:     addr,
		password: password,
		dial:     dialMPD,
	}
}

func dialMPD(network, addr, password string) (MPDClient, error) {
	var (
		c   *mpd.Client
		err error
	)
	if password != "" {
		c, err = mpd.DialAuthenticated(network, addr, password)
	} else {
		c, err = mpd.Dial(network, addr)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Open dials MPD
func (m *MPDControl) Open(ctx context.Context) (domain.PlayerConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	client, err := m.dial(m.network, m.addr, m.password)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrConnection, m.network, m.addr, err)
	}

	m.logger.Debug("MPD connection opened",
		zap.String("network", m.network),
		zap.String("addr", m.addr))
	return &mpdConn{client: client}, nil
}

type mpdConn struct {
	client MPDClient
}

func (c *mpdConn) Status(ctx context.Context) (domain.PlayerStatus, error) {
	attrs, err := c.client.Status()
	if err != nil {
		return domain.PlayerStatus{}, fmt.Errorf("%w: status: %w", domain.ErrCommand, err)
	}
	return parseStatus(attrs)
}

func (c *mpdConn) SetVolume(ctx context.Context, volume int) error {
	if err := c.client.SetVolume(volume); err != nil {
		return fmt.Errorf("%w: setvol %d: %w", domain.ErrCommand, volume, err)
	}
	return nil
}

func (c *mpdConn) SetPause(ctx context.Context, paused bool) error {
	if err := c.client.Pause(paused); err != nil {
		return fmt.Errorf("%w: pause %t: %w", domain.ErrCommand, paused, err)
	}
	return nil
}

// TogglePause flips play and pause. A stopped player is left stopped,
// matching what MPD does with a bare "pause".
func (c *mpdConn) TogglePause(ctx context.Context) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	switch status.State {
	case domain.StatePlaying:
		return c.SetPause(ctx, true)
	case domain.StatePaused:
		return c.SetPause(ctx, false)
	default:
		return nil
	}
}

func (c *mpdConn) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrConnection, err)
	}
	return nil
}

// parseStatus converts MPD status attributes. A missing or -1 volume means
// MPD has no mixer configured.
func parseStatus(attrs mpd.Attrs) (domain.PlayerStatus, error) {
	status := domain.PlayerStatus{Volume: domain.UnknownVolume}

	if raw, ok := attrs["volume"]; ok && raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PlayerStatus{}, fmt.Errorf("%w: invalid volume %q", domain.ErrCommand, raw)
		}
		status.Volume = v
	}

	switch attrs["state"] {
	case "play":
		status.State = domain.StatePlaying
	case "pause":
		status.State = domain.StatePaused
	case "stop":
		status.State = domain.StateStopped
	default:
		return domain.PlayerStatus{}, fmt.Errorf("%w: invalid state %q", domain.ErrCommand, attrs["state"])
	}

	return status, nil
}
