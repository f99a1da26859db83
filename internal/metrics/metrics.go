// Package metrics provides Prometheus metrics collection for the stock service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of the service. It is exported as a textfile
// because the service has no HTTP listener to scrape.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ItemsSoldTotal tracks units sold.
	ItemsSoldTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_items_sold_total",
			Help: "Total number of units sold",
		},
	)

	// SaleProceedsTotal tracks sale proceeds at effective price.
	SaleProceedsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_sale_proceeds_total",
			Help: "Total sale proceeds after discount",
		},
	)

	// RestocksTotal tracks restock operations by result.
	RestocksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_restocks_total",
			Help: "Total number of restock operations",
		},
		[]string{"result"},
	)

	// CheckoutsTotal tracks checkouts by status.
	CheckoutsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_checkouts_total",
			Help: "Total number of cart checkouts",
		},
		[]string{"status"},
	)

	// CatalogItems tracks the number of items in the catalog.
	CatalogItems = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "stock_catalog_items",
			Help: "Number of items in the catalog",
		},
	)

	// CatalogStockValue tracks the last computed stock value at raw price.
	CatalogStockValue = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "stock_catalog_value",
			Help: "Catalog stock value at undiscounted price",
		},
	)

	// StoreOperationsTotal tracks store operations by backend, operation and result.
	StoreOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_store_operations_total",
			Help: "Total number of item store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// StoreOperationDuration tracks store operation latency.
	StoreOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_store_operation_duration_seconds",
			Help:    "Item store operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"backend", "operation"},
	)

	// CircuitBreakerState tracks breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stock_circuit_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open",
		},
		[]string{"name"},
	)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
}

// RecordSale records a completed sale line.
func RecordSale(units int, proceeds float64) {
	ItemsSoldTotal.Add(float64(units))
	SaleProceedsTotal.Add(proceeds)
}

// RecordRestock records a restock attempt.
func RecordRestock(result string) {
	RestocksTotal.WithLabelValues(result).Inc()
}

// RecordCheckout records a checkout outcome.
func RecordCheckout(status string) {
	CheckoutsTotal.WithLabelValues(status).Inc()
}

// UpdateCatalogMetrics sets the catalog gauges.
func UpdateCatalogMetrics(items int, stockValue float64) {
	CatalogItems.Set(float64(items))
	CatalogStockValue.Set(stockValue)
}

// RecordStoreOperation records a store call and its duration.
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperationsTotal.WithLabelValues(backend, operation, result).Inc()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes the numeric state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
