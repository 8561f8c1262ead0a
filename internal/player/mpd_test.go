package player

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/genricoloni/mpdsleep/internal/domain"
	"github.com/genricoloni/mpdsleep/internal/player/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestMPD(client MPDClient, dialErr error) *MPDControl {
	m := NewMPDControl(zap.NewNop(), "tcp", "127.0.0.1:6600", "")
	m.dial = func(network, addr, password string) (MPDClient, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return client, nil
	}
	return m
}

func TestMPDControl_Open(t *testing.T) {
	t.Run("Dial error wraps ErrConnection", func(t *testing.T) {
		m := newTestMPD(nil, fmt.Errorf("dial tcp 127.0.0.1:6600: connect: connection refused"))
		_, err := m.Open(context.Background())
		if !errors.Is(err, domain.ErrConnection) {
			t.Fatalf("expected ErrConnection, got %v", err)
		}
	})

	t.Run("Cancelled context does not dial", func(t *testing.T) {
		m := NewMPDControl(zap.NewNop(), "tcp", "127.0.0.1:6600", "")
		m.dial = func(string, string, string) (MPDClient, error) {
			t.Fatal("dial must not be called")
			return nil, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := m.Open(ctx); !errors.Is(err, domain.ErrConnection) {
			t.Fatalf("expected ErrConnection, got %v", err)
		}
	})

	t.Run("Password is passed to the dialer", func(t *testing.T) {
		var got string
		m := NewMPDControl(zap.NewNop(), "unix", "/run/mpd/socket", "hunter2")
		m.dial = func(network, addr, password string) (MPDClient, error) {
			got = network + " " + addr + " " + password
			return nil, fmt.Errorf("stop here")
		}
		_, _ = m.Open(context.Background())
		if got != "unix /run/mpd/socket hunter2" {
			t.Errorf("unexpected dial arguments: %q", got)
		}
	})
}

func TestMPDConn_Status(t *testing.T) {
	tests := []struct {
		name        string
		attrs       mpd.Attrs
		statusErr   error
		expected    domain.PlayerStatus
		expectError bool
	}{
		{
			name:     "Playing",
			attrs:    mpd.Attrs{"volume": "45", "state": "play"},
			expected: domain.PlayerStatus{Volume: 45, State: domain.StatePlaying},
		},
		{
			name:     "Paused",
			attrs:    mpd.Attrs{"volume": "100", "state": "pause"},
			expected: domain.PlayerStatus{Volume: 100, State: domain.StatePaused},
		},
		{
			name:     "No mixer",
			attrs:    mpd.Attrs{"volume": "-1", "state": "stop"},
			expected: domain.PlayerStatus{Volume: domain.UnknownVolume, State: domain.StateStopped},
		},
		{
			name:     "Volume missing",
			attrs:    mpd.Attrs{"state": "stop"},
			expected: domain.PlayerStatus{Volume: domain.UnknownVolume, State: domain.StateStopped},
		},
		{
			name:        "Garbage volume",
			attrs:       mpd.Attrs{"volume": "loud", "state": "play"},
			expectError: true,
		},
		{
			name:        "Unknown state",
			attrs:       mpd.Attrs{"volume": "10"},
			expectError: true,
		},
		{
			name:        "Command failure",
			statusErr:   fmt.Errorf("broken pipe"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockMPDClient(ctrl)
			client.EXPECT().Status().Return(tt.attrs, tt.statusErr)

			conn, err := newTestMPD(client, nil).Open(context.Background())
			if err != nil {
				t.Fatalf("open: %v", err)
			}

			status, err := conn.Status(context.Background())
			if tt.expectError {
				if !errors.Is(err, domain.ErrCommand) {
					t.Errorf("expected ErrCommand, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, status)
			}
		})
	}
}

func TestMPDConn_TogglePause(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		setupMock func(*mocks.MockMPDClient)
	}{
		{
			name:  "Playing pauses",
			state: "play",
			setupMock: func(m *mocks.MockMPDClient) {
				m.EXPECT().Pause(true).Return(nil)
			},
		},
		{
			name:  "Paused resumes",
			state: "pause",
			setupMock: func(m *mocks.MockMPDClient) {
				m.EXPECT().Pause(false).Return(nil)
			},
		},
		{
			name:      "Stopped stays stopped",
			state:     "stop",
			setupMock: func(m *mocks.MockMPDClient) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockMPDClient(ctrl)
			client.EXPECT().Status().Return(mpd.Attrs{"volume": "50", "state": tt.state}, nil)
			tt.setupMock(client)

			conn, err := newTestMPD(client, nil).Open(context.Background())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if err := conn.TogglePause(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMPDConn_CommandErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockMPDClient(ctrl)
	client.EXPECT().SetVolume(41).Return(fmt.Errorf("ACK [52@0] {setvol} problems setting volume"))
	client.EXPECT().Pause(true).Return(fmt.Errorf("connection reset"))
	client.EXPECT().Close().Return(fmt.Errorf("already closed"))

	conn, err := newTestMPD(client, nil).Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := conn.SetVolume(context.Background(), 41); !errors.Is(err, domain.ErrCommand) {
		t.Errorf("SetVolume: expected ErrCommand, got %v", err)
	}
	if err := conn.SetPause(context.Background(), true); !errors.Is(err, domain.ErrCommand) {
		t.Errorf("SetPause: expected ErrCommand, got %v", err)
	}
	if err := conn.Close(); !errors.Is(err, domain.ErrConnection) {
		t.Errorf("Close: expected ErrConnection, got %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		expectType  string
		expectError bool
	}{
		{name: "Default is MPD", opts: Options{}, expectType: "*player.MPDControl"},
		{name: "MPD", opts: Options{Backend: BackendMPD}, expectType: "*player.MPDControl"},
		{name: "MPRIS", opts: Options{Backend: BackendMPRIS}, expectType: "*player.MprisControl"},
		{name: "Unknown", opts: Options{Backend: "winamp"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(zap.NewNop(), tt.opts)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fmt.Sprintf("%T", p); got != tt.expectType {
				t.Errorf("expected %s, got %s", tt.expectType, got)
			}
		})
	}
}
