package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for complaint intake flows.
type IntakeMetrics struct {
	turnsTotal         *prometheus.CounterVec
	questionsTotal     *prometheus.CounterVec
	skipsTotal         *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	portFailures       *prometheus.CounterVec
	completionsTotal   *prometheus.CounterVec
	turnLatency        *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		}, []string{"phase"}),
		questionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "questions_total",
			Help:      "Total questions asked",
		}, []string{"field"}),
		skipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "skips_total",
			Help:      "Fields skipped by the user or force-skipped at the attempt ceiling",
		}, []string{"field", "forced"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "validation_failures_total",
			Help:      "Answers rejected by validation",
		}, []string{"field", "tier"}),
		portFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "nlu_failures_total",
			Help:      "Language-understanding calls that failed and degraded to a default",
		}, []string{"operation"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "completions_total",
			Help:      "Conversations finalized",
		}, []string{"urgency"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carebridge",
			Subsystem: "intake",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.questionsTotal, m.skipsTotal, m.validationFailures, m.portFailures, m.completionsTotal, m.turnLatency)
	return m
}

func (m *IntakeMetrics) ObserveTurn(phase string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(phase).Inc()
	m.turnLatency.WithLabelValues(phase).Observe(seconds)
}

func (m *IntakeMetrics) ObserveQuestion(field string) {
	if m == nil {
		return
	}
	m.questionsTotal.WithLabelValues(field).Inc()
}

func (m *IntakeMetrics) ObserveSkip(field string, forced bool) {
	if m == nil {
		return
	}
	label := "false"
	if forced {
		label = "true"
	}
	m.skipsTotal.WithLabelValues(field, label).Inc()
}

func (m *IntakeMetrics) ObserveValidationFailure(field, tier string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(field, tier).Inc()
}

func (m *IntakeMetrics) ObservePortFailure(operation string) {
	if m == nil {
		return
	}
	m.portFailures.WithLabelValues(operation).Inc()
}

func (m *IntakeMetrics) ObserveCompletion(urgency string) {
	if m == nil {
		return
	}
	m.completionsTotal.WithLabelValues(urgency).Inc()
}
