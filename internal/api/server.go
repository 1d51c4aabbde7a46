package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackplan/pkg/observability"
	"github.com/matzehuels/stackplan/pkg/pipeline"
	"github.com/matzehuels/stackplan/pkg/render"
)

const (
	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultMaxBoxes limits the number of boxes per request.
	DefaultMaxBoxes = 64

	// DefaultTimeout caps the search time of a single request.
	DefaultTimeout = 30 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Runner       *pipeline.Runner
	Logger       *log.Logger
	MaxBoxes     int
	MaxBodyBytes int64
	Timeout      time.Duration

	// Metrics, when set, is published on GET /metrics. It only sees events
	// if it is also registered with observability.Use.
	Metrics *observability.Counters
}

// Server exposes the pipeline over HTTP. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxBoxes int
	maxBody  int64
	timeout  time.Duration
	svg      *render.Renderer
	metrics  *observability.Counters
}

// New creates a server. Zero limits take the package defaults; a nil
// Runner gets one without a cache.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		runner:   runner,
		logger:   logger,
		maxBoxes: opts.MaxBoxes,
		maxBody:  opts.MaxBodyBytes,
		timeout:  opts.Timeout,
		svg:      render.NewRenderer(),
		metrics:  opts.Metrics,
	}
	if s.maxBoxes <= 0 {
		s.maxBoxes = DefaultMaxBoxes
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.metrics != nil {
		r.Get("/metrics", s.handleMetrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sequence", s.handleSequence)
		r.Post("/graph", s.handleGraph)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and releases the graph renderer.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	defer s.svg.Close()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// observe reports requests to the HTTP hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed)
	})
}
