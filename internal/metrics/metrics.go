package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	MessagesSelected   *prometheus.CounterVec
	Replenishments     *prometheus.CounterVec
	DailyPicks         *prometheus.CounterVec
	Recommendations    prometheus.Counter
	GeneratorLatency   *prometheus.HistogramVec
	RateLimitRejected  *prometheus.CounterVec
	BackgroundFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindhaven",
			Name:      "contextual_messages_total",
			Help:      "Contextual message selections by source and final status.",
		}, []string{"source", "status"}),
		Replenishments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindhaven",
			Name:      "daily_replenishments_total",
			Help:      "Daily message pool replenishments by trigger mode and outcome.",
		}, []string{"mode", "outcome"}),
		DailyPicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindhaven",
			Name:      "daily_picks_total",
			Help:      "Daily message picks by outcome.",
		}, []string{"outcome"}),
		Recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mindhaven",
			Name:      "recommendations_computed_total",
			Help:      "Completed onboarding recommendation runs.",
		}),
		GeneratorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mindhaven",
			Name:      "generator_duration_seconds",
			Help:      "Latency of calls to text generation providers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "kind"}),
		RateLimitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindhaven",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter, by route.",
		}, []string{"route"}),
		BackgroundFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindhaven",
			Name:      "background_task_failures_total",
			Help:      "Detached background tasks that finished with an error.",
		}, []string{"task"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.MessagesSelected,
			m.Replenishments,
			m.DailyPicks,
			m.Recommendations,
			m.GeneratorLatency,
			m.RateLimitRejected,
			m.BackgroundFailures,
		)
	}
	return m
}

// ObserveTask is a background.Observer that counts failed tasks.
func (m *Metrics) ObserveTask(name string, err error) {
	if m == nil || err == nil {
		return
	}
	m.BackgroundFailures.WithLabelValues(name).Inc()
}
