// Package server exposes the advisor over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	advisor "github.com/ourstudio-se/shopping-advisor"
)

// Advisor is the behaviour the API serves. *advisor.Advisor implements it.
type Advisor interface {
	Recommend(ctx context.Context, requirements, lang string) string
	Compare(ctx context.Context, names []string, profileSummary, lang string) string
	SaveProfile(ctx context.Context, userID, preferences, history string) error
	LoadProfile(ctx context.Context, userID string) (*advisor.UserProfile, error)
}

// Config for the server
type Config struct {
	// AllowedOrigins for CORS. Defaults to all origins.
	AllowedOrigins []string

	// RequestTimeout bounds each request, including model and catalog calls.
	// Defaults to 120 seconds.
	RequestTimeout time.Duration

	// MaxRequestBodySize defaults to 1 MiB.
	MaxRequestBodySize int64

	// ShutdownTimeout bounds graceful shutdown in Run. Defaults to 10 seconds.
	ShutdownTimeout time.Duration

	// MetricsHandler is served at /metrics. Defaults to the prometheus default registry.
	MetricsHandler http.Handler

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 120 * time.Second
	}
	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = 1 << 20
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MetricsHandler == nil {
		c.MetricsHandler = promhttp.Handler()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Server is the HTTP surface of the advisor.
type Server struct {
	router  *chi.Mux
	advisor Advisor
	cfg     Config
	logger  *slog.Logger
}

// New creates a server.
func New(adv Advisor, cfg Config) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		router:  chi.NewRouter(),
		advisor: adv,
		cfg:     cfg,
		logger:  cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestIDMiddleware)
	s.router.Use(recoveryMiddleware(s.logger))
	s.router.Use(loggingMiddleware(s.logger))
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(timeoutMiddleware(s.cfg.RequestTimeout))
	s.router.Use(bodySizeLimitMiddleware(s.cfg.MaxRequestBodySize))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthHandler)
	s.router.Method(http.MethodGet, "/metrics", s.cfg.MetricsHandler)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", s.recommendHandler)
		r.Post("/comparisons", s.compareHandler)
		r.Put("/profiles/{userID}", s.saveProfileHandler)
		r.Get("/profiles/{userID}", s.getProfileHandler)
		r.Get("/translations/{lang}", s.translationsHandler)
	})
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
