package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bloom"

// Metrics owns a private registry so each App (and each test) starts from
// zero. All methods are safe on a nil receiver.
type Metrics struct {
	reg *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	contentRequests  *prometheus.CounterVec
	contentLatency   *prometheus.HistogramVec
	providerAttempts *prometheus.CounterVec
	providerRetries  *prometheus.CounterVec
	staleResults     *prometheus.CounterVec
	throttled        prometheus.Counter
	cooldownStarted  prometheus.Counter
	logEntries       prometheus.Counter
	playbacks        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_inflight_requests",
			Help:      "HTTP requests currently being served.",
		}),
		contentRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_requests_total",
			Help:      "Content requests by kind and outcome (success, fallback, error).",
		}, []string{"kind", "outcome"}),
		contentLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_request_duration_seconds",
			Help:      "Time from request start to settle, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"kind"}),
		providerAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Provider calls by kind and status (ok, rate_limited, error).",
		}, []string{"kind", "status"}),
		providerRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_retries_total",
			Help:      "Backoff waits scheduled after a rate-limited provider call.",
		}, []string{"kind"}),
		staleResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_stale_results_total",
			Help:      "Settled results discarded because a newer request of the same kind started.",
		}, []string{"kind"}),
		throttled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_throttled_total",
			Help:      "Image requests rejected locally by the cooldown.",
		}),
		cooldownStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_cooldowns_total",
			Help:      "Image cooldowns started after a successful fetch.",
		}),
		logEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_log_entries_total",
			Help:      "Activity log entries appended.",
		}),
		playbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narration_playbacks_total",
			Help:      "Narration playbacks by how they ended (finished, stopped, superseded).",
		}, []string{"end"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveContent(kind, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.contentRequests.WithLabelValues(kind, outcome).Inc()
	m.contentLatency.WithLabelValues(kind).Observe(dur.Seconds())
}

func (m *Metrics) IncProviderAttempt(kind, status string) {
	if m == nil {
		return
	}
	m.providerAttempts.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) IncProviderRetry(kind string) {
	if m == nil {
		return
	}
	m.providerRetries.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncStale(kind string) {
	if m == nil {
		return
	}
	m.staleResults.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncThrottled() {
	if m == nil {
		return
	}
	m.throttled.Inc()
}

func (m *Metrics) IncCooldownStarted() {
	if m == nil {
		return
	}
	m.cooldownStarted.Inc()
}

func (m *Metrics) IncLogEntry() {
	if m == nil {
		return
	}
	m.logEntries.Inc()
}

func (m *Metrics) IncPlayback(end string) {
	if m == nil {
		return
	}
	m.playbacks.WithLabelValues(end).Inc()
}
