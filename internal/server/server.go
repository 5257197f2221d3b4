package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/recorder"
)

// Scorer computes composite scores.
type Scorer interface {
	Score(ctx context.Context, ticker string, live bool) (model.CompositeResult, error)
}

// PeerTable computes ranked peer comparisons.
type PeerTable interface {
	Comparison(ctx context.Context, ticker, sector string, live bool) []model.PeerRow
}

// Config holds server dependencies.
type Config struct {
	Addr     string
	Scorer   Scorer
	Peers    PeerTable
	Provider collector.Provider
	Store    recorder.Store
	Metrics  *metrics.Registry
	Log      zerolog.Logger
}

// Server is the presentation API.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	scorer   Scorer
	peers    PeerTable
	provider collector.Provider
	store    recorder.Store
	metrics  *metrics.Registry
	now      func() time.Time
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	store := cfg.Store
	if store == nil {
		store = recorder.NewNoopStore()
	}
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		scorer:   cfg.Scorer,
		peers:    cfg.Peers,
		provider: cfg.Provider,
		store:    store,
		metrics:  cfg.Metrics,
		now:      time.Now,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	// A live score fans out to ~20 upstream calls.
	s.router.Use(middleware.Timeout(75 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/score/{ticker}", s.handleScore)
		r.Get("/peers/{ticker}", s.handlePeers)
		r.Get("/backtest/{ticker}", s.handleBacktest)
		r.Get("/regime/{ticker}", s.handleRegime)
		r.Get("/pulse", s.handlePulse)
		r.Get("/lookup", s.handleLookup)
		r.Get("/export/{file}", s.handleExport)
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
