// Package web provides the public HTTP API: the two form endpoints, the
// product catalog, spec-file serving, health and metrics.
package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/adapters/metrics"
	"github.com/marvilon/leadgate/app"
	"github.com/marvilon/leadgate/domain/catalog"
)

// Handler serves the public API.
type Handler struct {
	contact     *app.ContactService
	specRequest *app.SpecRequestService
	catalog     *catalog.Catalog
	specDir     string
	logger      zerolog.Logger
	metrics     *metrics.Collector
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Contact     *app.ContactService
	SpecRequest *app.SpecRequestService
	Catalog     *catalog.Catalog
	SpecDir     string // directory of spec PDFs; empty disables serving
	Logger      zerolog.Logger
	Metrics     *metrics.Collector // optional
}

// NewHandler creates the API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		contact:     deps.Contact,
		specRequest: deps.SpecRequest,
		catalog:     deps.Catalog,
		specDir:     deps.SpecDir,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// RouterConfig holds optional router settings.
type RouterConfig struct {
	MetricsRegistry *prometheus.Registry
	RequestTimeout  time.Duration
}

// NewRouter assembles the public router.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if h.metrics != nil {
		r.Use(NewMetricsMiddleware(h.metrics))
	}

	r.Get("/healthz", h.Health)
	if cfg.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", h.ContactSubmit)
		r.Post("/spec-request", h.SpecRequestSubmit)
		r.Get("/products", h.Products)
		r.Get("/products/{id}", h.Product)
	})

	// Spec PDFs: plain file serving; HEAD works out of the box, which is
	// what the gate's existence probe relies on.
	if h.specDir != "" {
		r.Handle("/specs/*", http.StripPrefix("/specs/",
			http.FileServer(http.Dir(h.specDir))))
	}

	return r
}

// NewLoggingMiddleware logs one line per request.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Skip logging for probes.
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

// NewMetricsMiddleware records request duration per endpoint.
func NewMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" ||
				strings.HasPrefix(r.URL.Path, "/specs/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m.RequestDuration.
				WithLabelValues(r.URL.Path, statusLabel(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}
