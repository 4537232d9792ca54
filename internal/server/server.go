// Package server exposes the analytics core over HTTP. It is a thin
// presentation layer: every handler decodes plain inputs, calls the pure
// analysis functions, and encodes plain results.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"optionsanalyzer/internal/analysis"
	"optionsanalyzer/internal/marketdata"
	"optionsanalyzer/internal/storage"
)

// Config carries the server settings.
type Config struct {
	Port      int
	AuthToken string
	Analysis  analysis.Config
}

// Server wires the router, market data provider and strategy store.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	provider  marketdata.Provider
	storage   storage.Interface
	logger    *logrus.Logger
	analysis  analysis.Config
	port      int
	authToken string
}

// NewServer builds the server and registers all routes.
func NewServer(cfg Config, provider marketdata.Provider, store storage.Interface, logger *logrus.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		provider:  provider,
		storage:   store,
		logger:    logger,
		analysis:  cfg.Analysis,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/health", s.handleHealth)

	s.router.Get("/api/stocks/{symbol}/quote", s.handleGetQuote)
	s.router.Get("/api/options/{symbol}/chain", s.handleGetChain)

	s.router.Post("/api/analysis", s.handleAnalyze)
	s.router.Post("/api/analysis/probability", s.handleProbability)
	s.router.Post("/api/analysis/scenario", s.handleScenario)
	s.router.Post("/api/analysis/recommendations", s.handleRecommendations)

	s.router.Post("/api/strategies", s.handleCreateStrategy)
	s.router.Get("/api/strategies", s.handleListStrategies)
	s.router.Get("/api/strategies/{id}", s.handleGetStrategy)
	s.router.Put("/api/strategies/{id}", s.handleUpdateStrategy)
	s.router.Delete("/api/strategies/{id}", s.handleDeleteStrategy)
	s.router.Post("/api/strategies/{id}/roll", s.handleRollStrategy)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token != s.authToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Infof("Starting analyzer server on port %d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
