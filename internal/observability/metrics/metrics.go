package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConsultationMetrics exposes counters/histograms for the consultant engine.
type ConsultationMetrics struct {
	repliesTotal     *prometheus.CounterVec
	strategyFailures *prometheus.CounterVec
	generationTime   *prometheus.HistogramVec
	conversations    prometheus.Gauge
	evictionsTotal   prometheus.Counter
}

func NewConsultationMetrics(reg prometheus.Registerer) *ConsultationMetrics {
	m := &ConsultationMetrics{
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultant",
			Subsystem: "engine",
			Name:      "replies_total",
			Help:      "Replies returned by the consultant engine, by producing strategy",
		}, []string{"strategy", "language"}),
		strategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultant",
			Subsystem: "engine",
			Name:      "strategy_failures_total",
			Help:      "Reply strategies that were unavailable or failed",
		}, []string{"strategy", "reason"}),
		generationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "consultant",
			Subsystem: "engine",
			Name:      "generation_seconds",
			Help:      "Latency of reply generation attempts",
			Buckets:   []float64{0.005, 0.05, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"strategy"}),
		conversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "consultant",
			Subsystem: "engine",
			Name:      "conversations",
			Help:      "Conversations currently held in memory",
		}),
		evictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consultant",
			Subsystem: "engine",
			Name:      "evictions_total",
			Help:      "Idle conversations evicted from memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.repliesTotal, m.strategyFailures, m.generationTime, m.conversations, m.evictionsTotal)
	return m
}

func (m *ConsultationMetrics) ObserveReply(strategy, language string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(strategy, language).Inc()
}

// ObserveStrategyFailure records a strategy that could not produce a reply.
// reason is one of unavailable, panic, empty, blocked, timeout or error.
func (m *ConsultationMetrics) ObserveStrategyFailure(strategy, reason string) {
	if m == nil {
		return
	}
	m.strategyFailures.WithLabelValues(strategy, reason).Inc()
}

func (m *ConsultationMetrics) ObserveGeneration(strategy string, seconds float64) {
	if m == nil {
		return
	}
	m.generationTime.WithLabelValues(strategy).Observe(seconds)
}

func (m *ConsultationMetrics) SetConversations(n int) {
	if m == nil {
		return
	}
	m.conversations.Set(float64(n))
}

func (m *ConsultationMetrics) ObserveEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictionsTotal.Add(float64(n))
}
