package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts cart storage faults, which are never surfaced to shoppers.
type CartMetrics struct {
	storageFailures *prometheus.CounterVec
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "storage_failures_total",
		Help:      "Cart snapshot loads and saves that failed or were withheld, by op.",
	}, []string{"op"})
	reg.MustRegister(failures)
	return &CartMetrics{storageFailures: failures}
}

// IncStorageFailure records a failed load or save.
func (c *CartMetrics) IncStorageFailure(op string) {
	if c == nil || c.storageFailures == nil {
		return
	}
	c.storageFailures.WithLabelValues(labelOrUnknown(op)).Inc()
}
