package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans sleep timer events out to websocket clients.
// Frames are JSON text messages with an envelope: {type, ts, data}.
// Clients that cannot keep up are disconnected.
type Hub struct {
	logger *zap.Logger

	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu      sync.Mutex
	clients map[*client]struct{}
	sendBuf int

	cancel context.CancelFunc
	done   chan struct{}
}

// Config sizes the hub queues. Zero values select defaults.
type Config struct {
	SendBuf      int
	BroadcastBuf int
}

type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type timerEventData struct {
	ArmID      string     `json:"arm_id,omitempty"`
	DurationMS int64      `json:"duration_ms,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Error      string     `json:"error,omitempty"`
}

var _ domain.Notifier = (*Hub)(nil)

// NewHub constructs a hub. Run it with Start or Run.
func NewHub(logger *zap.Logger, cfg Config) *Hub {
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 32
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 128
	}

	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *client, 64),
		unregister: make(chan *client, 64),
		clients:    make(map[*client]struct{}),
		sendBuf:    sendBuf,
		done:       make(chan struct{}),
	}
}

// Start runs the hub in the background
func (h *Hub) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		defer close(h.done)
		h.Run(runCtx)
	}()
	return nil
}

// Stop disconnects all clients and waits for the hub loop to exit
func (h *Hub) Stop(ctx context.Context) error {
	if h.cancel == nil {
		return nil
	}
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes hub events until ctx is cancelled.
// Only this goroutine closes client send channels.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Debug("Event hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			h.logger.Debug("Event hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Event stream client connected",
				zap.String("remoteAddr", c.remoteAddr),
				zap.Int("clients", n))

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.removeClient(c, "slow client")
			}
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) removeClient(c *client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	close(c.send)

	h.logger.Info("Event stream client disconnected",
		zap.String("remoteAddr", c.remoteAddr),
		zap.String("reason", reason),
		zap.Int("clients", n))
}

// Publish encodes ev and queues it for every client. It never blocks;
// events are dropped when the hub queue is full.
func (h *Hub) Publish(ev domain.TimerEvent) {
	ts := ev.At
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()

	data := timerEventData{Error: ev.Err}
	if ev.Duration > 0 {
		data.DurationMS = ev.Duration.Milliseconds()
	}
	if ev.ArmID != uuid.Nil {
		data.ArmID = ev.ArmID.String()
	}
	if !ev.Deadline.IsZero() {
		d := ev.Deadline.UTC()
		data.Deadline = &d
	}

	msg, err := json.Marshal(envelope{Type: string(ev.Kind), Ts: &ts, Data: data})
	if err != nil {
		h.logger.Warn("Failed to encode timer event", zap.String("type", string(ev.Kind)), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Event hub queue full, dropping event", zap.String("type", string(ev.Kind)))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request and registers the client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, h.sendBuf),
		remoteAddr: r.RemoteAddr,
		logger:     h.logger,
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	// The pumps outlive the request; net/http cancels r.Context() when
	// this handler returns.
	go c.writePump()
	go c.readPump()
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

type client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte

	remoteAddr string
	logger     *zap.Logger
}

func closeStatus(err error) (code int, text string, ok bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *client) logExit(pump string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Debug("Websocket closed",
			zap.String("pump", pump),
			zap.String("remoteAddr", c.remoteAddr),
			zap.Int("code", code),
			zap.String("reason", text))
		return
	}
	c.logger.Debug("Websocket error",
		zap.String("pump", pump),
		zap.String("remoteAddr", c.remoteAddr),
		zap.Error(err))
}

// writePump exits on write error or when send is closed by the hub
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("write", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("write", err)
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters the client on error
func (c *client) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logExit("read", err)
			select {
			case c.hub.unregister <- c:
			case <-c.hub.done:
			}
			return
		}
	}
}
