// Package metrics exposes optimizer and trainer state as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prefix is prepended to every metric name.
const Prefix = "scopt_"

// Metrics holds the collectors for one training run. All series carry the
// optimizer label.
type Metrics struct {
	iterations     *prometheus.CounterVec
	effectiveLR    *prometheus.GaugeVec
	loss           *prometheus.GaugeVec
	stepDuration   *prometheus.HistogramVec
	accumulatorMax *prometheus.GaugeVec
}

// New registers the collectors on reg. Registration panics on duplicate
// names, as promauto does.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		iterations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: Prefix + "optimizer_iterations_total",
				Help: "Number of optimizer steps applied",
			},
			[]string{"optimizer"},
		),
		effectiveLR: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: Prefix + "optimizer_effective_lr",
				Help: "Learning rate the next step will apply, after decay",
			},
			[]string{"optimizer"},
		),
		loss: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: Prefix + "train_loss",
				Help: "Loss observed at the most recent step",
			},
			[]string{"optimizer"},
		),
		stepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    Prefix + "step_duration_seconds",
				Help:    "Wall time of one forward, backward and update",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"optimizer"},
		),
		accumulatorMax: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: Prefix + "accumulator_max",
				Help: "Largest accumulator element of a parameter",
			},
			[]string{"optimizer", "parameter"},
		),
	}
}

// RecordStep records one completed step.
func (m *Metrics) RecordStep(optimizer string, loss, effectiveLR float64, duration time.Duration) {
	m.iterations.WithLabelValues(optimizer).Inc()
	m.loss.WithLabelValues(optimizer).Set(loss)
	m.effectiveLR.WithLabelValues(optimizer).Set(effectiveLR)
	m.stepDuration.WithLabelValues(optimizer).Observe(duration.Seconds())
}

// RecordAccumulator records the largest element of a parameter's accumulator.
func (m *Metrics) RecordAccumulator(optimizer, parameter string, maxValue float64) {
	m.accumulatorMax.WithLabelValues(optimizer, parameter).Set(maxValue)
}
