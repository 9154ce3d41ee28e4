// Package api serves the scynet pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build info
//	POST /v1/collapse      reaction network JSON → community network JSON
//	POST /v1/annotate      {"network": community, "flux": "<tsv>"} → community network JSON
//	POST /v1/layout        community network JSON → laid-out community network JSON
//	POST /v1/filter        {"network": annotated community, toggles} → filtered network
//	POST /v1/run           full pipeline, result stored under a run id
//	GET  /v1/runs/{id}     a stored run
//
// Every response carries an X-Run-ID header. Clients may send their own
// UUID in that header to correlate logs.
package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scynet/scynet/pkg/cache"
	"github.com/scynet/scynet/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 64 << 20

// Options configures a Server.
type Options struct {
	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner
	// Runs stores /v1/run results. Defaults to Runner.Cache.
	Runs cache.Cache
	// Defaults are applied where a request leaves an option unset.
	Defaults pipeline.Options
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
	// AllowedOrigin is sent as Access-Control-Allow-Origin; empty disables CORS.
	AllowedOrigin string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Logger        *log.Logger
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	runs     cache.Cache
	defaults pipeline.Options
	maxBody  int64
	origin   string
	read     time.Duration
	write    time.Duration
	logger   *log.Logger
}

// New creates a server. It panics if opts.Runner is nil.
func New(opts Options) *Server {
	if opts.Runner == nil {
		panic("api: Runner is required")
	}
	s := &Server{
		runner:   opts.Runner,
		runs:     opts.Runs,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
		origin:   opts.AllowedOrigin,
		read:     opts.ReadTimeout,
		write:    opts.WriteTimeout,
		logger:   opts.Logger,
	}
	if s.runs == nil {
		s.runs = opts.Runner.Cache
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.logger = s.logger.WithPrefix("api")
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.runID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.origin != "" {
		r.Use(s.cors)
	}

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/collapse", s.collapse)
		r.Post("/annotate", s.annotate)
		r.Post("/filter", s.filter)
		r.Post("/layout", s.layout)
		r.Post("/run", s.run)
		r.Get("/runs/{id}", s.getRun)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.read,
		WriteTimeout: s.write,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
