// Package metrics instruments the HTTP surface and the tabu-search engine
// with Prometheus collectors, exposed for scraping via promhttp.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry wraps a dedicated Prometheus registry so the engine's collectors
// never collide with package-level defaults.
type Registry struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	solveDuration   prometheus.Histogram
	solveIterations prometheus.Histogram
	solveQuality    prometheus.Histogram
	solvesTotal     *prometheus.CounterVec
	activeEngines   prometheus.Gauge
}

// NewRegistry registers all collectors and returns the Registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "horario_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "horario_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	solveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "horario_solve_duration_seconds",
		Help:    "Wall-clock time spent inside tabu.Engine.Optimize",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
	})

	solveIterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "horario_solve_iterations",
		Help:    "Number of tabu-search iterations performed per solve",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	})

	solveQuality := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "horario_solve_quality",
		Help:    "Final evaluator.Result.Quality per completed solve",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	solvesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "horario_solves_total",
		Help: "Total solve attempts by terminal state",
	}, []string{"state"})

	activeEngines := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "horario_active_engines",
		Help: "Number of tabu.Engine instances currently running Optimize",
	})

	reg.MustRegister(requestDuration, requestTotal, solveDuration, solveIterations, solveQuality, solvesTotal, activeEngines)

	return &Registry{
		registry:        reg,
		handler:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		solveDuration:   solveDuration,
		solveIterations: solveIterations,
		solveQuality:    solveQuality,
		solvesTotal:     solvesTotal,
		activeEngines:   activeEngines,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// ObserveHTTPRequest records one completed HTTP request.
func (r *Registry) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	statusLabel := http.StatusText(status)
	if statusLabel == "" {
		statusLabel = "unknown"
	}
	r.requestDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
	r.requestTotal.WithLabelValues(method, path, statusLabel).Inc()
}

// EngineStarted marks the beginning of a solve, incrementing active engine
// count. Callers must call EngineFinished exactly once per EngineStarted.
func (r *Registry) EngineStarted() {
	if r == nil {
		return
	}
	r.activeEngines.Inc()
}

// EngineFinished records the terminal state and outcome of one solve.
func (r *Registry) EngineFinished(state string, duration time.Duration, iterations int, quality float64) {
	if r == nil {
		return
	}
	r.activeEngines.Dec()
	r.solvesTotal.WithLabelValues(state).Inc()
	r.solveDuration.Observe(duration.Seconds())
	r.solveIterations.Observe(float64(iterations))
	r.solveQuality.Observe(quality)
}
