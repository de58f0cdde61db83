package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestIntakeMetricsObserve(t *testing.T) {
	m := NewIntakeMetrics(prometheus.NewRegistry())
	m.ObserveTurn("COLLECTING", 0.5)
	m.ObserveQuestion("event.date")
	m.ObserveSkip("event.date", false)
	m.ObserveValidationFailure("event.date", "deterministic")
	m.ObservePortFailure("classify")
	m.ObserveCompletion("LOW")
}

func TestIntakeMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveSkip("impact", true)
}

func TestIntakeMetricsNilSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveTurn("COLLECTING", 0.1)
	m.ObserveQuestion("field")
	m.ObserveSkip("field", false)
	m.ObserveValidationFailure("field", "tier")
	m.ObservePortFailure("op")
	m.ObserveCompletion("HIGH")
}
