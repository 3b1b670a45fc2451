package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics represents the collection of refinement metrics
type Metrics struct {
	registry *prometheus.Registry

	// Scrape metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Game metrics
	SessionsStarted *prometheus.CounterVec
	CapturesTotal   *prometheus.CounterVec
	MissesTotal     *prometheus.CounterVec
	FileCompletion  *prometheus.GaugeVec
	FilesComplete   prometheus.Counter
	AudibleSources  prometheus.Gauge
}

// NewMetrics creates all metrics on a private registry so several
// instances can coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdr_sessions_started_total",
			Help: "Refinement sessions opened",
		},
		[]string{"file"},
	)

	m.CapturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdr_captures_total",
			Help: "Numbers sorted into their bin",
		},
		[]string{"file", "bin"},
	)

	m.MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdr_misses_total",
			Help: "Bin presses that captured nothing",
		},
		[]string{"file"},
	)

	m.FileCompletion = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mdr_file_completion_percent",
			Help: "Completion percentage per file",
		},
		[]string{"file"},
	)

	m.FilesComplete = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mdr_all_files_complete_total",
			Help: "Times every file reached full completion",
		},
	)

	m.AudibleSources = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mdr_audible_sources",
			Help: "Sources currently above zero volume",
		},
	)

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SessionsStarted,
		m.CapturesTotal,
		m.MissesTotal,
		m.FileCompletion,
		m.FilesComplete,
		m.AudibleSources,
	)

	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SessionStarted counts an opened file.
func (m *Metrics) SessionStarted(file string) {
	m.SessionsStarted.WithLabelValues(file).Inc()
}

// Captured counts a successful capture into bin (1-based).
func (m *Metrics) Captured(file string, bin int) {
	m.CapturesTotal.WithLabelValues(file, strconv.Itoa(bin)).Inc()
}

// Missed counts a press that matched no cell.
func (m *Metrics) Missed(file string) {
	m.MissesTotal.WithLabelValues(file).Inc()
}

// SetCompletion records the completion percentage of file.
func (m *Metrics) SetCompletion(file string, percent int) {
	m.FileCompletion.WithLabelValues(file).Set(float64(percent))
}

// AllComplete counts the transition to every file complete.
func (m *Metrics) AllComplete() {
	m.FilesComplete.Inc()
}

// SetAudible records how many sources are currently audible.
func (m *Metrics) SetAudible(n int) {
	m.AudibleSources.Set(float64(n))
}

// RequestTrackingMiddleware tracks requests served by next
func (m *Metrics) RequestTrackingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, http.StatusText(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// responseWriter is a wrapper to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Handler returns the Prometheus HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return m.RequestTrackingMiddleware(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
