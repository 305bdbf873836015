// ABOUTME: Prometheus counters for widget activity
// ABOUTME: Uses a private registry so multiple servers can coexist

package webembed

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	mounts          prometheus.Counter
	messages        prometheus.Counter
	messageFailures prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		mounts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ember_widget_mounts_total",
			Help: "Widget embed pages served.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ember_widget_messages_total",
			Help: "Message exchanges relayed to the backend.",
		}),
		messageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ember_widget_message_failures_total",
			Help: "Message exchanges that failed and degraded to an apology.",
		}),
	}
	m.registry.MustRegister(m.mounts, m.messages, m.messageFailures)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
