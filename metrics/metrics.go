// Package metrics exposes Prometheus collectors for tracking and playback.
//
// Metrics:
//   - salestrack_samples_appended_total{agent} (counter)
//   - salestrack_playback_ticks_total (counter): marker positions sent to clients
//   - salestrack_playback_stops_total{reason} (counter)
//   - salestrack_playback_sessions_active (gauge)
//   - salestrack_geocode_failures_total (counter)
//   - salestrack_http_request_duration_seconds{method,path,status} (histogram)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salestrack"

// Metrics holds every collector.
type Metrics struct {
	registry *prometheus.Registry

	SamplesAppended *prometheus.CounterVec
	PlaybackTicks   prometheus.Counter
	PlaybackStops   *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	GeocodeFailures prometheus.Counter
	reqDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SamplesAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_appended_total",
			Help:      "Positions appended to agent logs.",
		}, []string{"agent"}),
		PlaybackTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_ticks_total",
			Help:      "Marker positions emitted by history playback.",
		}),
		PlaybackStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_stops_total",
			Help:      "Times playback went idle, by reason.",
		}, []string{"reason"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playback_sessions_active",
			Help:      "Open history playback sessions.",
		}),
		GeocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_failures_total",
			Help:      "Reverse geocoding lookups that fell back to raw coordinates.",
		}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
	}
	m.registry.MustRegister(
		m.SamplesAppended,
		m.PlaybackTicks,
		m.PlaybackStops,
		m.ActiveSessions,
		m.GeocodeFailures,
		m.reqDuration,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAppend counts one appended sample.
func (m *Metrics) ObserveAppend(agentID int) {
	m.SamplesAppended.WithLabelValues(strconv.Itoa(agentID)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with the request duration histogram. path is the
// route pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) Instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.reqDuration.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}
