package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "prodplan"
	subsystem = "netting"

	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calculations_total",
			Help:      "Total number of requirement calculations by outcome",
		},
		[]string{"outcome"},
	)

	calculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calculation_duration_seconds",
			Help:      "Duration of requirement calculations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	shortageLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "shortage_lines",
			Help:      "Number of short lines per successful calculation",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	reservationMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservation",
			Name:      "mutations_total",
			Help:      "Total number of reservation mutations by operation",
		},
		[]string{"operation"},
	)

	stockAdjustmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "adjustments_total",
			Help:      "Total number of on-hand stock adjustments",
		},
	)
)

// RecordCalculation records the outcome and duration of one calculation
func RecordCalculation(outcome string, duration time.Duration) {
	calculationsTotal.WithLabelValues(outcome).Inc()
	calculationDuration.Observe(duration.Seconds())
}

// RecordShortageLines observes the number of short lines in one report
func RecordShortageLines(count int) {
	shortageLines.Observe(float64(count))
}

// RecordReservationMutation counts a reserve, release or release_all call
func RecordReservationMutation(operation string) {
	reservationMutationsTotal.WithLabelValues(operation).Inc()
}

func RecordStockAdjustment() {
	stockAdjustmentsTotal.Inc()
}
