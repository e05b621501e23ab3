// Package server exposes the prediction board, strategy proxy and health
// probes over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/notiabet/internal/board"
	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/metrics"
	"github.com/yourusername/notiabet/internal/models"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// PredictionService is the remote service surface the server proxies.
// *ml.Client satisfies it.
type PredictionService interface {
	CheckHealth(ctx context.Context) *models.HealthStatus
	OptimizeStrategy(ctx context.Context, bankroll float64) *models.StrategyPlan
	GetHistory(ctx context.Context, limit int, day timebucket.DayKey) *models.HistoryPage
	GetStats(ctx context.Context) *models.PredictionStats
	MockMode() bool
	SetMockMode(enabled bool)
}

// Boards serves analysed boards. *board.Board satisfies it.
type Boards interface {
	Get(ctx context.Context, day timebucket.DayKey, sportsbook string) *board.Snapshot
	Current() *board.Snapshot
	Invalidate()
}

// Config holds the configuration for the HTTP server.
type Config struct {
	ServiceName    string
	Version        string
	Commit         string
	Port           int
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPath    string
	Logger         *logrus.Logger
	Service        PredictionService
	Boards         Boards
	Calendar       *timebucket.Calendar
}

// Server is the HTTP surface.
type Server struct {
	cfg    Config
	log    *logger.ServerLogger
	router chi.Router
	server *http.Server
}

// NewServer creates a server and builds its routes.
func NewServer(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Calendar == nil {
		cfg.Calendar = timebucket.NewCalendarIn(time.UTC)
	}

	s := &Server{
		cfg: cfg,
		log: logger.NewServerLogger(cfg.Logger),
	}
	s.router = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleLive)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", s.handleBoard)
		r.Get("/board/current", s.handleCurrentBoard)
		r.Get("/dates", s.handleDates)
		r.Post("/strategy/optimize", s.handleOptimize)
		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)
		r.Get("/mock-mode", s.handleGetMockMode)
		r.Put("/mock-mode", s.handleSetMockMode)
	})

	if s.cfg.MetricsEnabled {
		r.Handle(s.cfg.MetricsPath, metrics.Handler())
	}

	return r
}

// Start starts the server in the background and shuts it down when ctx ends.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.log.WithFields(logrus.Fields{
			"port":    s.cfg.Port,
			"service": s.cfg.ServiceName,
		}).Info("HTTP server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("HTTP server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.log.WithError(err).Warn("HTTP server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.log.Info("HTTP server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
