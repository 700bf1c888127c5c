package optimizer

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records optimizer activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	combinations prometheus.Counter
	estimate     prometheus.Histogram
	duration     prometheus.Histogram
}

// NewMetrics registers the optimizer metrics on reg. A nil registerer
// defaults to the global Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loadoutfit_optimizations_total",
		Help: "Optimization requests by benefit model and outcome",
	}, []string{"model", "outcome"})
	combinations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loadoutfit_combinations_enumerated_total",
		Help: "Combinations visited by the generator",
	})
	estimate := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "loadoutfit_estimated_combinations",
		Help:    "Estimated search-space size per request",
		Buckets: prometheus.ExponentialBuckets(10, 10, 9),
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "loadoutfit_optimization_duration_seconds",
		Help:    "Wall time spent enumerating and scoring",
		Buckets: prometheus.DefBuckets,
	})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if combinations, err = register(reg, combinations); err != nil {
		return nil, err
	}
	if estimate, err = register(reg, estimate); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{runs: runs, combinations: combinations, estimate: estimate, duration: duration}, nil
}

// register reuses an already registered collector of the same name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeRun(modelName, outcome string, estimate float64, enumerated int64, seconds float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(modelName, outcome).Inc()
	m.estimate.Observe(estimate)
	if enumerated > 0 {
		m.combinations.Add(float64(enumerated))
		m.duration.Observe(seconds)
	}
}
