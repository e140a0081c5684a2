// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "marketplace"

type Metrics struct {
	Registry *prometheus.Registry

	OrdersPlaced       *prometheus.CounterVec
	PlaceOrderDuration *prometheus.HistogramVec
	UnitsSold          prometheus.Counter
	StatusUpdates      *prometheus.CounterVec
	CacheRequests      *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, so several instances can coexist in tests.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Place order attempts by outcome.",
		}, []string{"outcome"}),
		PlaceOrderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "place_order_duration_seconds",
			Help:      "Place order latency by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		UnitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_sold_total",
			Help:      "Product units in committed orders.",
		}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_updates_total",
			Help:      "Order status updates by target status and outcome.",
		}, []string{"status", "outcome"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_cache_requests_total",
			Help:      "Product cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersPlaced,
		m.PlaceOrderDuration,
		m.UnitsSold,
		m.StatusUpdates,
		m.CacheRequests,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

func (m *Metrics) ObservePlaceOrder(outcome string, started time.Time, units int64) {
	m.OrdersPlaced.WithLabelValues(outcome).Inc()
	m.PlaceOrderDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	if units > 0 {
		m.UnitsSold.Add(float64(units))
	}
}

func (m *Metrics) ObserveStatusUpdate(status, outcome string) {
	m.StatusUpdates.WithLabelValues(status, outcome).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
