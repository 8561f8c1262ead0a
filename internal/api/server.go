package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	playerTimeout   = 5 * time.Second
	shutdownTimeout = 3 * time.Second
)

// maxSeconds keeps seconds*time.Second inside an int64
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Server is the HTTP control surface of the daemon
type Server struct {
	logger *zap.Logger
	addr   string
	timer  domain.SleepTimer
	player domain.PlayerControl
	events http.Handler

	srv   *http.Server
	ln    net.Listener
	errCh chan error
}

// StatusResponse is the body of GET /sleep/status
type StatusResponse struct {
	Volume int    `json:"volume"`
	State  string `json:"state"`
}

// NewServer creates the HTTP server. events serves the websocket stream
// and may be nil.
func NewServer(logger *zap.Logger, cfg domain.Config, timer domain.SleepTimer, player domain.PlayerControl, events http.Handler) *Server {
	return &Server{
		logger: logger,
		addr:   cfg.GetListenAddr(),
		timer:  timer,
		player: player,
		events: events,
	}
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sleep/start/{seconds}", s.handleStart)
	mux.HandleFunc("GET /sleep/cancel", s.handleCancel)
	mux.HandleFunc("GET /sleep/status", s.handleStatus)
	mux.HandleFunc("GET /pause", s.handlePause)
	if s.events != nil {
		mux.Handle("GET /sleep/events", s.events)
	}
	mux.HandleFunc("/", s.handleNotFound)
	return s.logRequests(mux)
}

// Start binds the listen address and serves in the background.
// Bind errors are returned so startup fails fast.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.errCh = make(chan error, 1)

	go func() {
		// Serve returns http.ErrServerClosed on Shutdown
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
			s.errCh <- err
			return
		}
		s.errCh <- nil
	}()

	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	<-s.errCh
	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the bound address, nil before Start
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Port returns the bound TCP port, 0 before Start
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("seconds")
	seconds, err := parseSeconds(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid number of seconds: %q", raw), http.StatusBadRequest)
		return
	}

	d := time.Duration(seconds) * time.Second
	if err := s.timer.StartTimer(r.Context(), d); err != nil {
		s.logger.Warn("Failed to enqueue sleep timer", zap.Duration("duration", d), zap.Error(err))
		http.Error(w, "Sleep timer unavailable", http.StatusServiceUnavailable)
		return
	}

	writeText(w, fmt.Sprintf("Sleeping for %d seconds…", seconds))
}

// parseSeconds accepts ASCII digits only, no sign
func parseSeconds(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.New("empty")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unexpected character %q", r)
		}
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if seconds > maxSeconds {
		return 0, fmt.Errorf("%d seconds overflows a duration", seconds)
	}
	return seconds, nil
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.timer.Cancel(r.Context()); err != nil {
		s.logger.Warn("Failed to enqueue cancel", zap.Error(err))
		http.Error(w, "Sleep timer unavailable", http.StatusServiceUnavailable)
		return
	}

	writeText(w, "Canceling sleep timer…")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status domain.PlayerStatus
	err := s.withPlayer(r.Context(), func(ctx context.Context, conn domain.PlayerConn) error {
		var err error
		status, err = conn.Status(ctx)
		return err
	})
	if err != nil {
		s.playerError(w, "status", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(StatusResponse{Volume: status.Volume, State: string(status.State)}); err != nil {
		s.logger.Debug("Failed to write status response", zap.Error(err))
	}
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var status domain.PlayerStatus
	err := s.withPlayer(r.Context(), func(ctx context.Context, conn domain.PlayerConn) error {
		if err := conn.TogglePause(ctx); err != nil {
			return err
		}
		var err error
		status, err = conn.Status(ctx)
		return err
	})
	if err != nil {
		s.playerError(w, "pause", err)
		return
	}

	s.logger.Info("Pause toggled", zap.String("state", string(status.State)))
	writeText(w, fmt.Sprintf("State is now %s!", status.State))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Route not found", http.StatusNotFound)
}

// withPlayer opens a connection for a single request and always closes it
func (s *Server) withPlayer(ctx context.Context, fn func(context.Context, domain.PlayerConn) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, playerTimeout)
	defer cancel()

	conn, err := s.player.Open(ctx)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(conn))

	return fn(ctx, conn)
}

func (s *Server) playerError(w http.ResponseWriter, op string, err error) {
	s.logger.Warn("Player request failed", zap.String("op", op), zap.Error(err))
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func writeText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, msg)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is needed by the websocket upgrade
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.status = http.StatusSwitchingProtocols
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("remoteAddr", r.RemoteAddr))
	})
}
