package obs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ProfitCalculationsTotal counts engine invocations by operation and outcome.
	ProfitCalculationsTotal *prometheus.CounterVec
	// ProfitSnapshotsTotal counts snapshot store operations by action and outcome.
	ProfitSnapshotsTotal *prometheus.CounterVec
	// OrderLinesPerCalculation records how many lines each order calculation carried.
	OrderLinesPerCalculation prometheus.Histogram
)

// Outcome labels.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ProfitCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profit_calculations_total",
			Help:      "Count of profit calculations by operation and outcome.",
		}, []string{"operation", "result"})
		ProfitSnapshotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profit_snapshots_total",
			Help:      "Count of profit snapshot store operations by outcome.",
		}, []string{"action", "result"})
		OrderLinesPerCalculation = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "profit_order_lines",
			Help:      "Number of order lines per order calculation.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		})

		mustRegisterCollector(reg, ProfitCalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProfitCalculationsTotal = v
			}
		})
		mustRegisterCollector(reg, ProfitSnapshotsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProfitSnapshotsTotal = v
			}
		})
		mustRegisterCollector(reg, OrderLinesPerCalculation, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				OrderLinesPerCalculation = v
			}
		})
	})
}

// ObserveCalculation records one engine call. It is a no-op until the domain
// metrics are registered, so library callers and tests need no setup.
func ObserveCalculation(operation string, result string) {
	if ProfitCalculationsTotal == nil {
		return
	}
	ProfitCalculationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveSnapshot records one snapshot store operation.
func ObserveSnapshot(action string, result string) {
	if ProfitSnapshotsTotal == nil {
		return
	}
	ProfitSnapshotsTotal.WithLabelValues(action, result).Inc()
}

// ObserveOrderLines records the size of an order calculation.
func ObserveOrderLines(n int) {
	if OrderLinesPerCalculation == nil {
		return
	}
	OrderLinesPerCalculation.Observe(float64(n))
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
