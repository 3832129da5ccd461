// Package server exposes the loaded collection and the query engine as a
// small JSON HTTP API for headless use.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/state"
)

// Refetcher starts a new load cycle in the background.
type Refetcher interface {
	Refetch(ctx context.Context)
}

// TypeFetcher looks up the members of one type upstream.
type TypeFetcher interface {
	FetchType(ctx context.Context, name string) (pokeapi.TypeDetail, error)
}

// Options configure a Server.
type Options struct {
	// Context bounds cycles started through POST /api/refetch. Request
	// contexts end with the response, so they cannot be used.
	Context context.Context
	Store   *state.Store
	Loader  Refetcher
	Types   TypeFetcher
	Metrics http.Handler // served at /metrics when non-nil
	Logger  *slog.Logger
}

// Server holds the HTTP server dependencies.
type Server struct {
	ctx     context.Context
	store   *state.Store
	loader  Refetcher
	types   TypeFetcher
	metrics http.Handler
	logger  *slog.Logger
	router  chi.Router
}

// New creates a new API server.
func New(opts Options) *Server {
	s := &Server{
		ctx:     opts.Context,
		store:   opts.Store,
		loader:  opts.Loader,
		types:   opts.Types,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		router:  chi.NewRouter(),
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/pokemon", s.handleListPokemon)
		r.Get("/pokemon/{id}", s.handleGetPokemon)
		r.Get("/types", s.handleGetTypes)
		r.Get("/types/{name}", s.handleGetType)
		r.Get("/status", s.handleGetStatus)
		r.Post("/refetch", s.handleRefetch)
	})

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics)
	}

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
