// Package middleware provides HTTP middleware for elementary servers.
//
// This package includes:
//   - Prometheus metrics for requests and render passes
//   - OpenTelemetry tracing with one server span per request
//   - slog request logging
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithNamespace("site"))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// Routes are labeled with their chi pattern. Render passes are recorded
// with ObserveRender, labeled by error category rather than message.
//
// # OpenTelemetry
//
//	r.Use(middleware.Tracing(
//	    middleware.WithTracerName("site"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The span is stored in the request context, so spans opened by
// render.RenderContext are nested under it.
package middleware
