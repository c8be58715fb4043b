package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sellerbazaar"

// Cron run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CronMetrics covers the reconciliation worker: per-job runs, the last good
// run (for staleness alerts), lock contention, and orders it repaired.
type CronMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	lockSkips   prometheus.Counter
	reconciled  prometheus.Counter
}

func NewCronMetrics(reg prometheus.Registerer) *CronMetrics {
	if reg == nil {
		return nil
	}
	m := &CronMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cron", Name: "job_runs_total",
			Help: "Cron job runs by outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "cron", Name: "job_duration_seconds",
			Help:    "Wall time of cron job runs.",
			Buckets: []float64{.05, .1, .5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cron", Name: "job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}, []string{"job"}),
		lockSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cron", Name: "lock_skips_total",
			Help: "Cycles skipped because another worker held the lock.",
		}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cron", Name: "orders_marked_incomplete_total",
			Help: "Orders without lines moved to incomplete.",
		}),
	}
	reg.MustRegister(m.runs, m.duration, m.lastSuccess, m.lockSkips, m.reconciled)
	return m
}

// ObserveRun records one job execution; a nil err counts as success.
func (m *CronMetrics) ObserveRun(job string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	job = labelOrUnknown(job)
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err != nil {
		m.runs.WithLabelValues(job, OutcomeFailure).Inc()
		return
	}
	m.runs.WithLabelValues(job, OutcomeSuccess).Inc()
	m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

func (m *CronMetrics) ObserveLockSkip() {
	if m == nil {
		return
	}
	m.lockSkips.Inc()
}

func (m *CronMetrics) AddReconciled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciled.Add(float64(n))
}

func labelOrUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
