package player

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisObjectPath = "/org/mpris/MediaPlayer2"
	mprisPlayer     = "org.mpris.MediaPlayer2.Player"
)

// MprisControl drives any MPRIS-capable player over the session bus.
// MPRIS volume is a 0.0-1.0 double, mapped here to 0-100.
type MprisControl struct {
	logger  *zap.Logger
	busName string // empty selects the first player found on the bus
	connect func() (DBusClient, error)
}

// NewMprisControl creates an MPRIS-backed player
func NewMprisControl(logger *zap.Logger, busName string) *MprisControl {
	return &MprisControl{
		logger:  logger,
		busName: busName,
		connect: NewStdDBusClient,
	}
}

// Open connects to the session bus and resolves the target player
func (m *MprisControl) Open(ctx context.Context) (domain.PlayerConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	client, err := m.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: session bus: %w", domain.ErrConnection, err)
	}

	name, err := m.resolvePlayer(client)
	if err != nil {
		if cerr := client.Close(); cerr != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(cerr))
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	m.logger.Debug("MPRIS player selected", zap.String("player", name))
	return &mprisConn{client: client, dest: name}, nil
}

// resolvePlayer returns the configured bus name if it is present, or the
// first MPRIS player on the bus
func (m *MprisControl) resolvePlayer(client DBusClient) (string, error) {
	names, err := client.ListNames()
	if err != nil {
		return "", fmt.Errorf("failed to list bus names: %w", err)
	}

	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		if m.busName == "" || name == m.busName {
			return name, nil
		}
	}

	if m.busName != "" {
		return "", fmt.Errorf("player %s not on the bus", m.busName)
	}
	return "", fmt.Errorf("no MPRIS player on the bus")
}

type mprisConn struct {
	client DBusClient
	dest   string
}

func (c *mprisConn) Status(ctx context.Context) (domain.PlayerStatus, error) {
	volVariant, err := c.client.GetProperty(c.dest, mprisObjectPath, mprisPlayer+".Volume")
	if err != nil {
		return domain.PlayerStatus{}, fmt.Errorf("%w: get Volume: %w", domain.ErrCommand, err)
	}
	// SAFE CAST: some players omit Volume or report it with a wrong type
	volume := domain.UnknownVolume
	if v, ok := volVariant.Value().(float64); ok {
		volume = int(math.Round(v * 100))
	}

	statusVariant, err := c.client.GetProperty(c.dest, mprisObjectPath, mprisPlayer+".PlaybackStatus")
	if err != nil {
		return domain.PlayerStatus{}, fmt.Errorf("%w: get PlaybackStatus: %w", domain.ErrCommand, err)
	}
	raw, ok := statusVariant.Value().(string)
	if !ok {
		return domain.PlayerStatus{}, fmt.Errorf("%w: invalid playback status format", domain.ErrCommand)
	}

	status := domain.PlayerStatus{Volume: volume}
	switch raw {
	case "Playing":
		status.State = domain.StatePlaying
	case "Paused":
		status.State = domain.StatePaused
	default:
		status.State = domain.StateStopped
	}
	return status, nil
}

func (c *mprisConn) SetVolume(ctx context.Context, volume int) error {
	value := dbus.MakeVariant(float64(volume) / 100)
	if err := c.client.SetProperty(c.dest, mprisObjectPath, mprisPlayer+".Volume", value); err != nil {
		return fmt.Errorf("%w: set Volume %d: %w", domain.ErrCommand, volume, err)
	}
	return nil
}

func (c *mprisConn) SetPause(ctx context.Context, paused bool) error {
	method := mprisPlayer + ".Play"
	if paused {
		method = mprisPlayer + ".Pause"
	}
	if err := c.client.Call(c.dest, mprisObjectPath, method); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrCommand, method, err)
	}
	return nil
}

func (c *mprisConn) TogglePause(ctx context.Context) error {
	if err := c.client.Call(c.dest, mprisObjectPath, mprisPlayer+".PlayPause"); err != nil {
		return fmt.Errorf("%w: PlayPause: %w", domain.ErrCommand, err)
	}
	return nil
}

func (c *mprisConn) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrConnection, err)
	}
	return nil
}
