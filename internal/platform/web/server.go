// Package web serves the snake game to browsers: a JSON API over the score
// store and a WebSocket endpoint that runs one game session per connection.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// ScoreReader lists finished games.
type ScoreReader interface {
	TopGames(limit int) ([]storage.GameRecord, error)
	RecentGames(player string, limit int) ([]storage.GameRecord, error)
}

// Options configures a Server.
type Options struct {
	Factory  *session.Factory
	Scores   ScoreReader       // optional
	Sessions *session.Registry // optional
	Logger   *log.Logger       // optional

	// AllowedOrigins lists the origins allowed to open a WebSocket.
	// Empty allows same-origin requests only; "*" allows any origin.
	AllowedOrigins []string
}

// Server bundles the router and the game dependencies.
type Server struct {
	r        *chi.Mux
	factory  *session.Factory
	scores   ScoreReader
	sessions *session.Registry
	logger   *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server

	// baseCtx parents every request context so Shutdown can end hijacked
	// WebSocket sessions, which http.Server.Shutdown does not track.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		factory:  opts.Factory,
		scores:   opts.Scores,
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())
	if s.sessions == nil {
		s.sessions = session.NewRegistry()
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake-web",
		})
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/", s.handleIndex)
	s.r.Get("/ws", s.handlePlay)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/healthz", s.handleHealth)
		r.Get("/api/best", s.handleBest)
		r.Get("/api/scores", s.handleScores)
		r.Get("/api/sessions", s.handleSessions)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ListenAndServe serves HTTP on addr and blocks until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}
	s.logger.Info("starting HTTP server", "address", addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and ends open WebSocket sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// requestLogger logs every request with its status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// originChecker returns the WebSocket origin policy. A nil func makes
// gorilla/websocket enforce same-origin.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		return slices.Contains(allowed, r.Header.Get("Origin"))
	}
}

// bestKey returns the best-score slot of a player.
func (s *Server) bestKey(player string) string {
	return snake.PlayerBestScoreKey(s.factory.Config.Storage.BestScoreKey, player)
}
