package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/lower"
	"github.com/elementary-go/elementary/pkg/middleware"
	"github.com/elementary-go/elementary/pkg/render"
	"github.com/elementary-go/elementary/pkg/world"
)

// IndexPage is the page served at "/".
const IndexPage = "index"

// Server serves the pages of a template set over HTTP. Every request gets
// its own component store, so requests never share built subtrees.
type Server struct {
	mu       sync.RWMutex
	set      *lower.Set
	registry *component.Registry

	components []func(*component.Registry) error
	renderer   *render.Renderer
	shell      func(name string) render.Page
	maxDepth   int
	debug      bool

	metrics     *middleware.Metrics
	metricsPath string
	gatherer    prometheus.Gatherer

	tracing     bool
	tracingOpts []middleware.TracingOption

	readTimeout     time.Duration
	shutdownTimeout time.Duration

	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer sets the renderer used for every page.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithMaxDepth sets the component nesting limit of each request's builder.
func WithMaxDepth(depth int) Option {
	return func(s *Server) {
		s.maxDepth = depth
	}
}

// WithComponents registers Go components alongside the markup components
// of the set. fn runs again on every Reload.
func WithComponents(fn func(*component.Registry) error) Option {
	return func(s *Server) {
		s.components = append(s.components, fn)
	}
}

// WithShell sets the document wrapped around each page. The returned Page's
// Body is replaced with the rendered template.
func WithShell(fn func(name string) render.Page) Option {
	return func(s *Server) {
		if fn != nil {
			s.shell = fn
		}
	}
}

// WithMetrics records request and render metrics in m and serves them at
// path from gatherer. A nil gatherer uses prometheus.DefaultGatherer.
func WithMetrics(m *middleware.Metrics, path string, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
		s.gatherer = gatherer
		if s.gatherer == nil {
			s.gatherer = prometheus.DefaultGatherer
		}
	}
}

// WithTracing wraps every request in an OpenTelemetry span.
func WithTracing(opts ...middleware.TracingOption) Option {
	return func(s *Server) {
		s.tracing = true
		s.tracingOpts = opts
	}
}

// WithDebug includes error details in 500 responses.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// WithTimeouts sets the request read timeout and the graceful shutdown timeout.
func WithTimeouts(read, shutdown time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if shutdown > 0 {
			s.shutdownTimeout = shutdown
		}
	}
}

// New creates a Server for set.
func New(set *lower.Set, opts ...Option) (*Server, error) {
	s := &Server{
		renderer:        render.NewRenderer(render.Config{}),
		shell:           defaultShell,
		maxDepth:        component.DefaultMaxDepth,
		readTimeout:     10 * time.Second,
		shutdownTimeout: 5 * time.Second,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	if err := s.Reload(set); err != nil {
		return nil, err
	}
	return s, nil
}

func defaultShell(name string) render.Page {
	return render.Page{Title: name}
}

// Reload swaps in a new template set. The component registry is rebuilt
// from the set and the WithComponents functions; on error the previous set
// stays in place.
func (s *Server) Reload(set *lower.Set) error {
	if set == nil {
		set = lower.NewSet()
	}

	reg := component.NewRegistry()
	for _, fn := range s.components {
		if err := fn(reg); err != nil {
			return err
		}
	}
	if err := set.Register(reg); err != nil {
		return err
	}

	s.mu.Lock()
	s.set = set
	s.registry = reg
	s.mu.Unlock()

	s.logger.Info("templates loaded",
		"pages", len(set.Pages()),
		"components", len(reg.Kinds()),
	)
	return nil
}

func (s *Server) snapshot() (*lower.Set, *component.Registry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set, s.registry
}

// Handler returns the HTTP handler:
//
//	GET /healthz   liveness probe
//	GET /metrics   Prometheus metrics, when enabled
//	GET /          the index page
//	GET /{page}    the named page, with query parameters as bindings
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	if s.tracing {
		r.Use(middleware.Tracing(s.tracingOpts...))
	}
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if s.metrics != nil && s.metricsPath != "" {
		r.Method(http.MethodGet, s.metricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.servePage(w, r, IndexPage)
	})
	r.Get("/{page}", func(w http.ResponseWriter, r *http.Request) {
		s.servePage(w, r, chi.URLParam(r, "page"))
	})

	return r
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	var buf bytes.Buffer
	err := s.Render(r.Context(), &buf, name, QueryBindings(r))
	if err != nil {
		s.writeError(w, r, name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Render lowers, builds and renders the page called name as a complete
// document. It uses a fresh store for each call and writes nothing to w
// on failure.
func (s *Server) Render(ctx context.Context, w io.Writer, name string, bindings lower.Bindings) error {
	set, reg := s.snapshot()

	t, ok := set.Page(name)
	if !ok {
		return errors.New(errors.CodeTemplateNotFound).WithDetailf("no page named %q", name)
	}

	start := time.Now()
	store := world.New()
	builder := component.NewBuilder(reg, store,
		component.WithMaxDepth(s.maxDepth),
		component.WithLogger(s.logger),
	)

	var res render.Result
	body, err := t.LowerRoot(builder, bindings)
	if err == nil {
		page := s.shell(name)
		page.Body = body
		res, err = s.renderer.RenderPageContext(ctx, w, page, store)
	}

	if s.metrics != nil {
		s.metrics.ObserveRender(time.Since(start), res.Components, err)
	}
	if err != nil {
		return err
	}
	s.logger.Debug("page rendered",
		"page", name,
		"components", res.Components,
		"expressions", res.Expressions,
		"duration", time.Since(start),
	)
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, name string, err error) {
	status := http.StatusInternalServerError
	if errors.CodeOf(err) == errors.CodeTemplateNotFound {
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("render failed",
			"page", name,
			"code", errors.CodeOf(err),
			"error", err,
			"request_id", chimw.GetReqID(r.Context()),
		)
	}

	body := http.StatusText(status)
	if s.debug || status == http.StatusNotFound {
		body = err.Error()
	}
	http.Error(w, body, status)
}

// QueryBindings exposes the request to templates:
//
//	{{ path }}          the URL path
//	{{ query.name }}    the first value of ?name=
//	{{ params.name }}   every value of ?name=, as a list
func QueryBindings(r *http.Request) lower.Bindings {
	values := r.URL.Query()
	query := make(map[string]any, len(values))
	params := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			query[k] = v[0]
		}
		params[k] = v
	}
	return lower.Bindings{
		"path":   r.URL.Path,
		"query":  query,
		"params": params,
	}
}

// ListenAndServe serves Handler on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return errors.New(errors.CodeServe).Wrap(err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		s.logger.Info("server shutdown complete")
		return nil
	}
}
