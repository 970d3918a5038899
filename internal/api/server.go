// Package api exposes the engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gosppt/domain/sppt"
	"gosppt/ports"
)

// Engine runs one bootstrap test and replays stored runs.
type Engine interface {
	Run(ctx context.Context, table *sppt.Table, opts sppt.Options) (*sppt.Result, error)
	Replay(ctx context.Context, prev *sppt.Result) (*sppt.Result, error)
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Engine       Engine
	Results      ports.ResultRepository
	Exporter     ports.ResultExporter
	Logger       *zap.Logger
	Defaults     sppt.Options // options applied before the request body
	MaxBodyBytes int64
}

// Server routes API requests to the engine and the result store.
type Server struct {
	router   *chi.Mux
	engine   Engine
	results  ports.ResultRepository
	exporter ports.ResultExporter
	logger   *zap.Logger
	defaults sppt.Options
	maxBody  int64
}

// NewServer creates the router with middleware and routes installed.
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 64 << 20
	}
	s := &Server{
		router:   chi.NewRouter(),
		engine:   deps.Engine,
		results:  deps.Results,
		exporter: deps.Exporter,
		logger:   deps.Logger,
		defaults: deps.Defaults,
		maxBody:  deps.MaxBodyBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/sppt", s.handleRun)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/report", s.handleReport)
		r.Get("/runs/{id}/export", s.handleExport)
		r.Post("/runs/{id}/replay", s.handleReplay)
	})
}

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
