// Package metrics defines the runtime's instrumentation hooks and a
// Prometheus-backed collector. The runtime reports through the small
// Collector interface so deployments without Prometheus pay nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector receives delivery lifecycle signals from the runtime.
type Collector interface {
	MessagePublished(topicType string)
	MessageDelivered(agentType string)
	MessageSkipped(agentType string)
	HandlerError(agentType string)
	QueueDepth(depth int)
}

// NoOp discards all signals. It is the runtime default.
type NoOp struct{}

// MessagePublished implements Collector.
func (NoOp) MessagePublished(string) {}

// MessageDelivered implements Collector.
func (NoOp) MessageDelivered(string) {}

// MessageSkipped implements Collector.
func (NoOp) MessageSkipped(string) {}

// HandlerError implements Collector.
func (NoOp) HandlerError(string) {}

// QueueDepth implements Collector.
func (NoOp) QueueDepth(int) {}

// Prometheus is a Collector backed by prometheus counters and gauges.
type Prometheus struct {
	published  *prometheus.CounterVec
	delivered  *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	errors     *prometheus.CounterVec
	queueDepth prometheus.Gauge
}

// NewPrometheus creates a Prometheus collector and registers its metrics
// with the provided registerer (prometheus.DefaultRegisterer when nil).
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenthub_messages_published_total",
				Help: "Total number of messages accepted for publication",
			},
			[]string{"topic_type"},
		),
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenthub_messages_delivered_total",
				Help: "Total number of successful handler deliveries",
			},
			[]string{"agent_type"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenthub_messages_skipped_total",
				Help: "Total number of deliveries skipped by handlers",
			},
			[]string{"agent_type"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agenthub_handler_errors_total",
				Help: "Total number of handler errors during delivery",
			},
			[]string{"agent_type"},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "agenthub_queue_depth",
				Help: "Current number of undelivered messages in the runtime queue",
			},
		),
	}
	reg.MustRegister(p.published, p.delivered, p.skipped, p.errors, p.queueDepth)
	return p
}

// MessagePublished implements Collector.
func (p *Prometheus) MessagePublished(topicType string) {
	p.published.WithLabelValues(topicType).Inc()
}

// MessageDelivered implements Collector.
func (p *Prometheus) MessageDelivered(agentType string) {
	p.delivered.WithLabelValues(agentType).Inc()
}

// MessageSkipped implements Collector.
func (p *Prometheus) MessageSkipped(agentType string) {
	p.skipped.WithLabelValues(agentType).Inc()
}

// HandlerError implements Collector.
func (p *Prometheus) HandlerError(agentType string) {
	p.errors.WithLabelValues(agentType).Inc()
}

// QueueDepth implements Collector.
func (p *Prometheus) QueueDepth(depth int) {
	p.queueDepth.Set(float64(depth))
}

// Handler returns the Prometheus metrics HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
