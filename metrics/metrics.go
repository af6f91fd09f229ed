package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nobilis",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nobilis",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nobilis",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	llmCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nobilis",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of LLM calls by prompt kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	llmDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nobilis",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of LLM calls.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"kind"},
	)

	prazosVencidos = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nobilis",
			Subsystem: "processos",
			Name:      "prazo_vencido",
			Help:      "Processos em andamento com prazo vencido na última verificação.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpInFlight,
		httpRequests,
		httpDuration,
		llmCalls,
		llmDuration,
		prazosVencidos,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncInFlight() { httpInFlight.Inc() }
func DecInFlight() { httpInFlight.Dec() }

func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordLLMCall: outcome is "ok", "fallback" or "error".
func RecordLLMCall(kind, outcome string, d time.Duration) {
	llmCalls.WithLabelValues(kind, outcome).Inc()
	llmDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func SetPrazosVencidos(n int) {
	prazosVencidos.Set(float64(n))
}
