// Package metrics содержит метрики Prometheus ретранслятора чата.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatrelay"

// Metrics содержит все метрики сервера
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsAccepted prometheus.Counter
	ConnectionsActive   prometheus.Gauge
	Handshakes          prometheus.Counter
	Disconnects         prometheus.Counter
	MessagesReceived    *prometheus.CounterVec
	FramesBroadcast     prometheus.Counter
	ErrorsTotal         *prometheus.CounterVec
}

// New создает метрики в собственном реестре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "accepted_total",
			Help:      "Total number of accepted client sockets",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "active",
			Help:      "Number of connections currently in the registry",
		}),
		Handshakes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "handshakes_total",
			Help:      "Total number of completed opening handshakes",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "disconnects_total",
			Help:      "Total number of connections removed (abrupt disconnect or logout)",
		}),
		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "received_total",
			Help:      "Total number of decoded inbound messages by type",
		}, []string{"type"}),
		FramesBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "frames_written_total",
			Help:      "Total number of frames successfully written to clients",
		}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "errors",
			Name:      "total",
			Help:      "Total number of reported errors by kind",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.ConnectionsAccepted,
		m.ConnectionsActive,
		m.Handshakes,
		m.Disconnects,
		m.MessagesReceived,
		m.FramesBroadcast,
		m.ErrorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry возвращает реестр Prometheus
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP-обработчик для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordMessage увеличивает счётчик входящих сообщений данного типа
func (m *Metrics) RecordMessage(messageType string) {
	m.MessagesReceived.WithLabelValues(messageType).Inc()
}

// RecordError увеличивает счётчик ошибок данного вида
func (m *Metrics) RecordError(kind string) {
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}
