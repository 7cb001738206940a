package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/config"
	"github.com/lazypower/widgetry/internal/gallery"
	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/logging"
	"github.com/lazypower/widgetry/internal/metrics"
	"github.com/lazypower/widgetry/internal/player"
)

// DefaultSession is the calculator session that always exists. It persists
// under the unprefixed keys shared with the CLI.
const DefaultSession = "default"

// Server is the widgetry HTTP API server.
type Server struct {
	store   kv.Store
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	router  chi.Router
	version string
	started time.Time

	mu          sync.Mutex
	sessions    map[string]*session
	maxSessions int

	galleryMu sync.Mutex
	gallery   *gallery.Gallery

	playerMu sync.Mutex
	player   *player.Player
}

// session serialises access to one calculator.
type session struct {
	mu   sync.Mutex
	calc *calc.Calculator
}

type Option func(*Server)

// WithConfig supplies the gallery catalogue, playlist and history cap.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithLogger sets the server and widget logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics sets the metrics sink served on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new Server persisting through store.
func New(store kv.Store, version string, opts ...Option) *Server {
	s := &Server{
		store:    store,
		cfg:      config.Default(),
		log:      logging.NewNop(),
		version:  version,
		started:  time.Now(),
		sessions: make(map[string]*session),

		maxSessions: MaxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	ctx := context.Background()

	var images []gallery.Image
	if len(s.cfg.Gallery.Images) > 0 {
		images = s.cfg.Gallery.Images
	}
	s.gallery = gallery.New(store, images, gallery.WithLogger(s.log))
	s.gallery.Load(ctx)

	var tracks []player.Track
	if len(s.cfg.Player.Tracks) > 0 {
		tracks = s.cfg.Player.Tracks
	}
	s.player = player.New(store, tracks, player.WithLogger(s.log))
	s.player.Load(ctx)

	if _, err := s.addSession(ctx, DefaultSession, store); err != nil {
		s.log.Error("default session unavailable", "error", err)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.metrics.Instrument)
		r.Get("/health", s.handleHealth)

		r.Post("/calc", s.handleCalcCreate)
		r.Route("/calc/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleCalcGet)
			r.Post("/tokens", s.handleCalcTokens)
			r.Post("/keys", s.handleCalcKey)
			r.Post("/compact", s.handleCalcCompact)
			r.Delete("/history", s.handleCalcClearHistory)
		})

		r.Get("/gallery", s.handleGalleryGet)
		r.Post("/gallery/filter", s.handleGalleryFilter)
		r.Post("/gallery/search", s.handleGallerySearch)
		r.Post("/gallery/shuffle", s.handleGalleryShuffle)
		r.Post("/gallery/favorites", s.handleGalleryFavorite)
		r.Post("/gallery/lightbox/{action}", s.handleLightbox)

		r.Get("/player", s.handlePlayerGet)
		r.Post("/player/{action}", s.handlePlayerAction)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	storeOK := true
	if _, err := s.store.Get(r.Context(), "health-probe"); err != nil && !errors.Is(err, kv.ErrNotFound) {
		storeOK = false
		s.log.Warn("health probe failed", "error", err)
	}

	s.mu.Lock()
	sessions := len(s.sessions)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"uptime":   time.Since(s.started).Seconds(),
		"store":    storeOK,
		"backend":  s.cfg.Store.Backend,
		"sessions": sessions,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode response failed", "error", err)
		httpError(w, "encode response failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(body, '\n'))
}

func httpError(w http.ResponseWriter, msg string, code int) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(body), code)
}

// decodeBody reads an optional JSON body into v. An empty body is allowed.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
