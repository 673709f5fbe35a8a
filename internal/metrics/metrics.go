package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeValid    = "valid"
	OutcomeNoMatch  = "no_match"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics tracks plate checks per operation and outcome.
type Metrics struct {
	PlateChecks        *prometheus.CounterVec
	PlateCheckDuration *prometheus.HistogramVec
	RegistryReloads    prometheus.Counter
}

// New registers the plate metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PlateChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plate_checks_total",
			Help: "Total number of plate checks by operation and outcome",
		}, []string{"operation", "outcome"}),
		PlateCheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plate_check_duration_seconds",
			Help:    "Duration of plate checks including the check log write",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
		RegistryReloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "plate_registry_reloads_total",
			Help: "Total number of sidecode registry reloads",
		}),
	}
}

// ObservePlateCheck records one check. Call with time.Now() taken at the start
// of the operation.
func (m *Metrics) ObservePlateCheck(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.PlateChecks.WithLabelValues(operation, outcome).Inc()
	m.PlateCheckDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRegistryReloads() {
	if m == nil {
		return
	}
	m.RegistryReloads.Inc()
}
