package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartCalculationsTotal counts cart calculations by pricing strategy and outcome.
	CartCalculationsTotal *prometheus.CounterVec
	// CartLineItems records how many lines each priced cart carries.
	CartLineItems prometheus.Histogram
	// CartGrandTotal records priced cart totals in currency units.
	CartGrandTotal *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_calculations_total",
			Help:      "Count of cart calculations by pricing strategy and result.",
		}, []string{"strategy", "result"})
		CartLineItems = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_line_items",
			Help:      "Number of line items in priced carts.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
		})
		CartGrandTotal = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_grand_total",
			Help:      "Grand total of priced carts in currency units.",
			Buckets:   prometheus.ExponentialBuckets(500, 4, 8),
		}, []string{"strategy"})

		mustRegisterCollector(reg, CartCalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartCalculationsTotal = v
			}
		})
		mustRegisterCollector(reg, CartLineItems, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CartLineItems = v
			}
		})
		mustRegisterCollector(reg, CartGrandTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				CartGrandTotal = v
			}
		})
	})
}

// ObserveCartCalculation records one calculation. It is a no-op until domain metrics are registered.
func ObserveCartCalculation(strategy, result string, items int, total float64) {
	if strategy == "" {
		strategy = "unknown"
	}
	if CartCalculationsTotal != nil {
		CartCalculationsTotal.WithLabelValues(strategy, result).Inc()
	}
	if result != "ok" {
		return
	}
	if CartLineItems != nil {
		CartLineItems.Observe(float64(items))
	}
	if CartGrandTotal != nil {
		CartGrandTotal.WithLabelValues(strategy).Observe(total)
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
