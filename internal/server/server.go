// Package server implements the stackdraw HTTP API.
//
// Routes:
//
//	GET    /healthz                  liveness check
//	POST   /render?format=svg        render a posted document
//	POST   /diagrams?name=flow       store a document
//	GET    /diagrams                 list stored documents, newest first
//	GET    /diagrams/{id}            fetch a stored document
//	GET    /diagrams/{id}/render     render a stored document
//	DELETE /diagrams/{id}            delete a stored document
//
// Documents are TOML unless the request carries ?input=json or a JSON
// Content-Type. Errors are JSON objects {"error": ..., "code": ...}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackdraw/pkg/observability"
	"github.com/matzehuels/stackdraw/pkg/pipeline"
	"github.com/matzehuels/stackdraw/pkg/store"
)

// Defaults used when Options leaves a limit at zero.
const (
	DefaultMaxBodyBytes  = 1 << 20
	DefaultRenderTimeout = 30 * time.Second
)

// Options configures request limits and how long rendered artifacts are
// cached. A zero CacheTTL uses the cache default.
type Options struct {
	MaxBodyBytes  int64
	RenderTimeout time.Duration
	CacheTTL      time.Duration
}

// Server serves the HTTP API on top of a pipeline runner and a diagram store.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	opts   Options
}

// New creates a server. A nil logger means log.Default.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = DefaultRenderTimeout
	}
	return &Server{runner: runner, store: st, logger: logger, opts: opts}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/render", s.render)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.listDiagrams)
		r.Post("/", s.createDiagram)
		r.Get("/{id}", s.getDiagram)
		r.Delete("/{id}", s.deleteDiagram)
		r.Get("/{id}/render", s.renderDiagram)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      s.opts.RenderTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
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

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests logs one line per request at debug level, or at warn level
// for server errors, and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
		} else {
			s.logger.Debug("request", fields...)
		}
	})
}
