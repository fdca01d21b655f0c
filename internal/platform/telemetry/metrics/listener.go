package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portico"

// Listener records connection and lifecycle metrics for one service.
//
// A nil *Listener is valid and records nothing.
type Listener struct {
	registry *prometheus.Registry
	accepted prometheus.Counter
	active   prometheus.Gauge
	forced   prometheus.Counter
	state    prometheus.Gauge
}

// NewListener creates listener metrics labelled with service on a fresh
// registry that also carries the Go runtime and process collectors.
func NewListener(service string) *Listener {
	labels := prometheus.Labels{"service": service}
	m := &Listener{
		registry: prometheus.NewRegistry(),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "listener",
			Name:        "connections_accepted_total",
			Help:        "Connections accepted by the listener.",
			ConstLabels: labels,
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "listener",
			Name:        "connections_active",
			Help:        "Connections currently open.",
			ConstLabels: labels,
		}),
		forced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "listener",
			Name:        "forced_closes_total",
			Help:        "Shutdowns that exceeded the grace period and force-closed connections.",
			ConstLabels: labels,
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "bootstrap",
			Name:        "state",
			Help:        "Bootstrap state: 0 not started, 1 starting, 2 listening, 3 stopping, 4 stopped.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(
		m.accepted,
		m.active,
		m.forced,
		m.state,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ConnAccepted records a newly accepted connection.
func (m *Listener) ConnAccepted() {
	if m == nil {
		return
	}
	m.accepted.Inc()
	m.active.Inc()
}

// ConnClosed records a connection that has been closed.
func (m *Listener) ConnClosed() {
	if m == nil {
		return
	}
	m.active.Dec()
}

// ForcedClose records a shutdown that ran past its grace period.
func (m *Listener) ForcedClose() {
	if m == nil {
		return
	}
	m.forced.Inc()
}

// SetState records the current bootstrap state.
func (m *Listener) SetState(state int) {
	if m == nil {
		return
	}
	m.state.Set(float64(state))
}

// Registry returns the registry backing these metrics.
func (m *Listener) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Listener) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
