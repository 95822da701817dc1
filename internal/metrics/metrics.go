package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pulseping"

// Metrics holds the Prometheus collectors for collector and API processes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProbesTotal   *prometheus.CounterVec
	ProbeLatency  *prometheus.HistogramVec
	AppendsTotal  *prometheus.CounterVec
	RunsTotal     prometheus.Counter
	QueryRequests *prometheus.CounterVec
	WindowRecords prometheus.Histogram
}

// New registers the collectors on reg (prometheus.DefaultRegisterer in the
// binaries, a fresh registry in tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProbesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "probes_total",
			Help:      "Probes by outcome.",
		}, []string{"result"}), // result: up, down, error
		ProbeLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "probe_latency_ms",
			Help:      "Probe latency in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"url"}),
		AppendsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pinglog",
			Name:      "appends_total",
			Help:      "Partition appends by status.",
		}, []string{"status"}), // status: ok, error
		RunsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "runs_total",
			Help:      "Collector invocations.",
		}),
		QueryRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Query API requests by route and status code.",
		}, []string{"route", "code"}),
		WindowRecords: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "window_records",
			Help:      "Records returned per window query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

func (m *Metrics) ObserveProbe(url string, statusCode int, up bool, latencyMS float64) {
	if m == nil {
		return
	}
	result := "down"
	switch {
	case statusCode == 0:
		result = "error"
	case up:
		result = "up"
	}
	m.ProbesTotal.WithLabelValues(result).Inc()
	m.ProbeLatency.WithLabelValues(url).Observe(latencyMS)
}

func (m *Metrics) ObserveAppend(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.AppendsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRun() {
	if m == nil {
		return
	}
	m.RunsTotal.Inc()
}

func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.QueryRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveWindow(n int) {
	if m == nil {
		return
	}
	m.WindowRecords.Observe(float64(n))
}
