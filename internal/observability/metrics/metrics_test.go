package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConsultationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConsultationMetrics(reg)

	m.ObserveReply("rules", "en")
	m.ObserveReply("rules", "en")
	m.ObserveReply("llm", "ar")
	m.ObserveStrategyFailure("llm", "unavailable")
	m.ObserveGeneration("rules", 0.01)
	m.SetConversations(3)
	m.ObserveEvictions(2)
	m.ObserveEvictions(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.repliesTotal.WithLabelValues("rules", "en")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.repliesTotal.WithLabelValues("llm", "ar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.strategyFailures.WithLabelValues("llm", "unavailable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.conversations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.evictionsTotal))
}

func TestConsultationMetricsNilSafe(t *testing.T) {
	var m *ConsultationMetrics
	m.ObserveReply("static", "en")
	m.ObserveStrategyFailure("llm", "error")
	m.ObserveGeneration("llm", 0.1)
	m.SetConversations(1)
	m.ObserveEvictions(1)
}
