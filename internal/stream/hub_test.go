package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(h *Hub, name string, buf int) *client {
	return &client{
		hub:        h,
		send:       make(chan []byte, buf),
		remoteAddr: name,
		logger:     zap.NewNop(),
	}
}

func startHub(t *testing.T, cfg Config) *Hub {
	t.Helper()
	h := NewHub(zap.NewNop(), cfg)
	require.NoError(t, h.Start(t.Context()))
	t.Cleanup(func() { _ = h.Stop(context.Background()) })
	return h
}

func registerClient(t *testing.T, h *Hub, c *client) {
	t.Helper()
	h.register <- c
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		_, ok := h.clients[c]
		return ok
	}, 500*time.Millisecond, 5*time.Millisecond, "client %s not registered", c.remoteAddr)
}

func TestHub_FanOut(t *testing.T) {
	h := startHub(t, Config{SendBuf: 4, BroadcastBuf: 8})

	c1 := newTestClient(h, "c1", 4)
	c2 := newTestClient(h, "c2", 4)
	registerClient(t, h, c1)
	registerClient(t, h, c2)

	msg := []byte(`{"type":"armed"}`)
	h.broadcast <- msg

	for _, c := range []*client{c1, c2} {
		select {
		case got := <-c.send:
			assert.Equal(t, string(msg), string(got))
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("%s did not receive the broadcast", c.remoteAddr)
		}
	}
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	h := startHub(t, Config{SendBuf: 1, BroadcastBuf: 8})

	slow := newTestClient(h, "slow", 1)
	fast := newTestClient(h, "fast", 8)
	registerClient(t, h, slow)
	registerClient(t, h, fast)

	slow.send <- []byte(`"queued"`)
	h.broadcast <- []byte(`{"type":"cancelled"}`)

	select {
	case <-fast.send:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("fast client did not receive the broadcast")
	}

	<-slow.send
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-slow.send:
			return !ok
		default:
			return false
		}
	}, 750*time.Millisecond, 5*time.Millisecond, "slow client send channel not closed")
	assert.Equal(t, 1, h.ClientCount())
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub(zap.NewNop(), Config{})
	require.NoError(t, h.Start(t.Context()))

	c := newTestClient(h, "c", 1)
	registerClient(t, h, c)

	require.NoError(t, h.Stop(t.Context()))
	_, ok := <-c.send
	assert.False(t, ok)
	assert.Zero(t, h.ClientCount())
}

func TestHub_PublishEncoding(t *testing.T) {
	h := NewHub(zap.NewNop(), Config{BroadcastBuf: 1})

	armID := uuid.MustParse("6f1c2c8e-2b0c-4b7e-9d55-3f0d8d2f1a10")
	at := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	h.Publish(domain.TimerEvent{
		Kind:     domain.EventArmed,
		ArmID:    armID,
		Duration: 30 * time.Minute,
		Deadline: at.Add(30 * time.Minute),
		At:       at,
	})

	var got struct {
		Type string    `json:"type"`
		Ts   time.Time `json:"ts"`
		Data struct {
			ArmID      string    `json:"arm_id"`
			DurationMS int64     `json:"duration_ms"`
			Deadline   time.Time `json:"deadline"`
			Error      string    `json:"error"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-h.broadcast, &got))

	assert.Equal(t, "armed", got.Type)
	assert.True(t, got.Ts.Equal(at))
	assert.Equal(t, armID.String(), got.Data.ArmID)
	assert.Equal(t, int64(1800000), got.Data.DurationMS)
	assert.True(t, got.Data.Deadline.Equal(at.Add(30*time.Minute)))
	assert.Empty(t, got.Data.Error)
}

func TestHub_PublishDropsWhenFull(t *testing.T) {
	h := NewHub(zap.NewNop(), Config{BroadcastBuf: 1})

	h.Publish(domain.TimerEvent{Kind: domain.EventCancelled})
	h.Publish(domain.TimerEvent{Kind: domain.EventStopped})

	assert.Len(t, h.broadcast, 1)
	assert.Contains(t, string(<-h.broadcast), `"type":"cancelled"`)
}

func TestHub_WebsocketRoundTrip(t *testing.T) {
	h := startHub(t, Config{})
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	h.Publish(domain.TimerEvent{Kind: domain.EventFadeFailed, Err: "player connection failed"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msgType, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	assert.Contains(t, string(payload), `"type":"fade_failed"`)
	assert.Contains(t, string(payload), `"error":"player connection failed"`)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.ClientCount() == 0 },
		time.Second, 5*time.Millisecond)
}
