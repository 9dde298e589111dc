package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RTOMetrics tracks return-to-origin workflow outcomes.
type RTOMetrics struct {
	triggers    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	restocked   prometheus.Counter
}

// NewRTOMetrics registers RTO workflow collectors on the provided registry.
func NewRTOMetrics(reg prometheus.Registerer) *RTOMetrics {
	factory := promauto.With(reg)
	return &RTOMetrics{
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipglide",
			Subsystem: "rto",
			Name:      "triggers_total",
			Help:      "RTO trigger attempts by outcome and reason.",
		}, []string{"outcome", "reason"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipglide",
			Subsystem: "rto",
			Name:      "transitions_total",
			Help:      "RTO status transitions by destination status.",
		}, []string{"to_status"}),
		restocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shipglide",
			Subsystem: "rto",
			Name:      "restocked_units_total",
			Help:      "Inventory units returned to stock by restocks.",
		}),
	}
}

// IncTrigger counts one trigger attempt.
func (m *RTOMetrics) IncTrigger(outcome, reason string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(normalizeLabel(outcome), normalizeLabel(reason)).Inc()
}

// IncTransition counts one status transition.
func (m *RTOMetrics) IncTransition(toStatus string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(toStatus)).Inc()
}

// AddRestockedUnits counts inventory units returned to stock.
func (m *RTOMetrics) AddRestockedUnits(units int) {
	if m == nil || units <= 0 {
		return
	}
	m.restocked.Add(float64(units))
}
