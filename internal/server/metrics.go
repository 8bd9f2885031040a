package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MessagesStored  prometheus.Counter
	MessagesDeleted prometheus.Counter
	Registrations   prometheus.Counter
	Subscribers     prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealchat",
			Subsystem: "relay",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sealchat",
			Subsystem: "relay",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		MessagesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sealchat",
			Subsystem: "relay",
			Name:      "messages_stored_total",
			Help:      "Sealed messages accepted.",
		}),
		MessagesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sealchat",
			Subsystem: "relay",
			Name:      "messages_deleted_total",
			Help:      "Sealed messages deleted by their sender.",
		}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sealchat",
			Subsystem: "relay",
			Name:      "registrations_total",
			Help:      "Accounts created.",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sealchat",
			Subsystem: "relay",
			Name:      "websocket_subscribers",
			Help:      "Open websocket subscriptions.",
		}),
	}
	reg.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.MessagesStored,
		m.MessagesDeleted,
		m.Registrations,
		m.Subscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
