// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /api/v1/layout                          raw placements for an event list
//	POST /api/v1/render?format=svg               pipeline options in, artifact out
//	GET  /api/v1/calendar/{view}/{date}.{format} the configured calendars
//
// Errors are returned as {"code", "message", "request_id"} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/calgrid/pkg/pipeline"
)

const (
	maxBodyBytes    = 4 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New creates a server. base carries the configured sources and defaults
// used by the calendar route; request bodies of the render route start
// from the same defaults.
func New(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{runner: runner, base: base, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Get("/calendar/{view}/{date}.{format}", s.handleCalendar)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
