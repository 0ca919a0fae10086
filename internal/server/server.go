// Package server exposes the knowledge graph over HTTP.
//
// The server holds one graph in memory, guarded by a mutex, and serves
// both the interactive visualization page and a JSON API for mutations.
// With autosave enabled every successful mutation is persisted through
// the configured store.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/atlas/pkg/config"
	"github.com/matzehuels/atlas/pkg/kgraph"
	"github.com/matzehuels/atlas/pkg/store"
)

// Server serves a single knowledge graph.
type Server struct {
	cfg    config.Server
	logger *log.Logger
	store  store.Store

	mu    sync.Mutex
	graph *kgraph.Graph
}

// New creates a server around an existing graph.
// The store may be nil, which disables save, backup, and autosave.
func New(g *kgraph.Graph, st store.Store, cfg config.Server, logger *log.Logger) *Server {
	if g == nil {
		g = kgraph.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		store:  st,
		graph:  g,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGetGraph)
		r.Put("/graph", s.handlePutGraph)
		r.Post("/nodes", s.handleAddNode)
		r.Get("/nodes/{id}", s.handleGetNode)
		r.Delete("/nodes/{id}", s.handleRemoveNode)
		r.Post("/edges", s.handleAddEdge)
		r.Delete("/edges", s.handleRemoveEdge)
		r.Post("/save", s.handleSave)
		r.Post("/backup", s.handleBackup)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully with a short drain window.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// autosave persists the graph after a mutation. Transient store failures
// are retried; a final failure is logged but does not fail the request,
// since the mutation already applied in memory.
func (s *Server) autosave(ctx context.Context) {
	if s.store == nil || !s.cfg.Autosave {
		return
	}
	err := store.RetryWithBackoff(ctx, func() error {
		if err := s.store.Save(ctx, s.graph); err != nil {
			return store.Retryable(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("autosave failed", "err", err)
	}
}
