package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KVOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kv_operation_duration_seconds",
		Help:    "Latency of key-value store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "op"})

	KVOperationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kv_operation_errors_total",
		Help: "Total number of failed key-value store operations",
	}, []string{"backend", "op"})

	KVFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kv_fallback_total",
		Help: "Number of times the durable engine probe failed and the in-memory store was used",
	})

	RecordsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "records_written_total",
		Help: "Total number of resource records created or updated",
	}, []string{"resource"})

	SalesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_created_total",
		Help: "Total number of sales recorded",
	})

	SalesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_deleted_total",
		Help: "Total number of sales deleted with stock restored",
	})

	StockClampedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_clamped_total",
		Help: "Sale items whose quantity exceeded available stock",
	})

	CustomerTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_transactions_total",
		Help: "Customer ledger postings by type",
	}, []string{"type"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Domain events published",
	}, []string{"type"})

	EventsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_failed_total",
		Help: "Domain events that could not be published",
	}, []string{"type"})

	ConsumerMessagesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_dropped_total",
		Help: "Messages skipped after the handler kept failing",
	}, []string{"topic"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
