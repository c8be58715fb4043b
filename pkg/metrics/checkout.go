package metrics

import "github.com/prometheus/client_golang/prometheus"

// Profile fallback reasons.
const (
	FallbackTimeout = "timeout"
	FallbackError   = "error"
	FallbackMissing = "missing"
)

// CheckoutMetrics tracks order placement and the fail-open paths of checkout.
type CheckoutMetrics struct {
	ordersPlaced     *prometheus.CounterVec
	submitFailures   *prometheus.CounterVec
	profileFallbacks *prometheus.CounterVec
	staleCharges     prometheus.Counter
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "orders_placed_total",
		Help:      "Orders created, by payment method.",
	}, []string{"payment_method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "submit_failures_total",
		Help:      "Order submissions that failed, by reason.",
	}, []string{"reason"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "profile_fallbacks_total",
		Help:      "Seller payment profile lookups that fell back to default charges.",
	}, []string{"reason"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "stale_charges_total",
		Help:      "Charge breakdowns discarded because the checkout moved on while they were computed.",
	})
	reg.MustRegister(placed, failures, fallbacks, stale)
	return &CheckoutMetrics{
		ordersPlaced:     placed,
		submitFailures:   failures,
		profileFallbacks: fallbacks,
		staleCharges:     stale,
	}
}

func (c *CheckoutMetrics) IncOrderPlaced(method string) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(labelOrUnknown(method)).Inc()
}

func (c *CheckoutMetrics) IncSubmitFailure(reason string) {
	if c == nil || c.submitFailures == nil {
		return
	}
	c.submitFailures.WithLabelValues(labelOrUnknown(reason)).Inc()
}

// AddProfileFallbacks counts sellers priced with default charges.
func (c *CheckoutMetrics) AddProfileFallbacks(reason string, sellers int) {
	if c == nil || c.profileFallbacks == nil || sellers <= 0 {
		return
	}
	c.profileFallbacks.WithLabelValues(labelOrUnknown(reason)).Add(float64(sellers))
}

func (c *CheckoutMetrics) IncStaleCharges() {
	if c == nil || c.staleCharges == nil {
		return
	}
	c.staleCharges.Inc()
}
