package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Результаты операций хранилища для label result.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultCancelled = "cancelled"
)

// StoreMetrics содержит метрики хранилища заказов и построения отчётов.
type StoreMetrics struct {
	// Счётчики жизненного цикла заказа
	ordersCreated   prometheus.Counter
	ordersCancelled prometheus.Counter
	operations      *prometheus.CounterVec

	// Гистограммы
	operationDuration *prometheus.HistogramVec
	orderTotal        prometheus.Histogram

	// Счётчики побочных событий
	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter
	reportsBuilt   prometheus.Counter

	// Gauge для заказов в хранилище
	activeOrders prometheus.Gauge
}

// NewStoreMetrics создаёт метрики в DefaultRegisterer.
func NewStoreMetrics() *StoreMetrics {
	return NewStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWithRegisterer создаёт метрики в указанном реестре.
func NewStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_orders_cancelled_total",
			Help: "Total number of orders cancelled because they became empty",
		}),
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pizzeria_store_operations_total",
			Help: "Total number of order store operations by result",
		}, []string{"operation", "result"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "pizzeria_store_operation_duration_seconds",
			Help:    "Duration of order store operations in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
		orderTotal: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pizzeria_order_total_amount",
			Help:    "Order total at creation time",
			Buckets: []float64{10, 25, 50, 75, 100, 150, 250, 500},
		}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_timeline_events_total",
			Help: "Total number of timeline events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		}),
		reportsBuilt: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_reports_built_total",
			Help: "Total number of sales reports built",
		}),
		activeOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "pizzeria_active_orders",
			Help: "Number of orders currently held by the store",
		}),
	}
}

// RecordOrderCreated увеличивает счётчик созданных заказов и фиксирует итог.
func (m *StoreMetrics) RecordOrderCreated(total decimal.Decimal) {
	m.ordersCreated.Inc()
	m.activeOrders.Inc()
	m.orderTotal.Observe(total.InexactFloat64())
}

// RecordOrderCancelled увеличивает счётчик снятых заказов.
func (m *StoreMetrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
	m.activeOrders.Dec()
}

// RecordOperation учитывает операцию хранилища и её длительность.
func (m *StoreMetrics) RecordOperation(operation, result string, duration time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *StoreMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *StoreMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// RecordReportBuilt увеличивает счётчик построенных отчётов.
func (m *StoreMetrics) RecordReportBuilt() {
	m.reportsBuilt.Inc()
}
