// Package agenthub provides a high-level façade over the runtime and
// service abstractions (agents, subscriptions, queues, logging) enabling
// rapid construction of multi-agent messaging systems. Most applications
// interact with this package by:
//  1. Creating a Hub via New() (optionally overriding logger, metrics and
//     runtime configuration)
//  2. Registering closure or typed agents with their subscriptions
//  3. Starting the hub, publishing to topics, and waiting for idle
//
// The façade delegates message delivery to runtime.SingleThreaded while
// keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing.
package agenthub

import (
	"context"

	"github.com/agenthub-go/agenthub/agent"
	"github.com/agenthub-go/agenthub/config"
	"github.com/agenthub-go/agenthub/core"
	"github.com/agenthub-go/agenthub/logging"
	"github.com/agenthub-go/agenthub/metrics"
	"github.com/agenthub-go/agenthub/runtime"
)

// Options configures the Hub instance.
type Options struct {
	// RuntimeConfig contains the runtime tuning knobs (queue bound,
	// delivery timeout).
	RuntimeConfig runtime.Config

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Collector receives delivery metrics (defaults to metrics.NoOp)
	Collector metrics.Collector
}

// WithRuntimeConfig overrides the runtime configuration.
func WithRuntimeConfig(cfg runtime.Config) func(o *Options) {
	return func(o *Options) { o.RuntimeConfig = cfg }
}

// WithLogger overrides the hub logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithCollector overrides the metrics collector.
func WithCollector(c metrics.Collector) func(o *Options) {
	return func(o *Options) { o.Collector = c }
}

// Hub is the high-level façade aggregating the underlying runtime and services.
type Hub struct {
	opts Options
	rt   *runtime.SingleThreaded
}

// New creates a Hub with optional overrides.
func New(optFns ...func(o *Options)) *Hub {
	opts := Options{
		RuntimeConfig: runtime.DefaultConfig,
		Logger:        logging.NoOpLogger{},
		Collector:     metrics.NoOp{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	rt := runtime.NewSingleThreaded(
		runtime.WithConfig(opts.RuntimeConfig),
		runtime.WithLogger(opts.Logger),
		runtime.WithCollector(opts.Collector),
	)

	return &Hub{opts: opts, rt: rt}
}

// FromConfig creates a Hub from a loaded configuration document. Explicit
// options take precedence over the document.
func FromConfig(cfg *config.Config, optFns ...func(o *Options)) *Hub {
	base := func(o *Options) {
		o.RuntimeConfig = runtime.Config{
			QueueSize:       cfg.Runtime.QueueSize,
			DeliveryTimeout: cfg.Runtime.DeliveryTimeout.Std(),
		}
		o.Logger = logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, false)
		if cfg.Metrics.Enabled {
			o.Collector = metrics.NewPrometheus(nil)
		}
	}

	return New(append([]func(o *Options){base}, optFns...)...)
}

// Runtime exposes the underlying runtime for advanced use cases.
func (h *Hub) Runtime() *runtime.SingleThreaded { return h.rt }

// RegisterFactory registers an agent factory under agentType.
func (h *Hub) RegisterFactory(agentType string, factory core.AgentFactory) error {
	return h.rt.RegisterFactory(agentType, factory)
}

// AddSubscription adds a subscription to the routing table.
func (h *Hub) AddSubscription(sub core.Subscription) error {
	return h.rt.AddSubscription(sub)
}

// RemoveSubscription removes a subscription by ID.
func (h *Hub) RemoveSubscription(id string) error {
	return h.rt.RemoveSubscription(id)
}

// RegisterClosure registers a closure-style subscriber together with its
// subscriptions in one call.
func (h *Hub) RegisterClosure(agentType string, fn agent.ClosureFunc, subs ...core.Subscription) error {
	return agent.RegisterClosure(h.rt, agentType, fn, subs...)
}

// Start launches the dispatcher.
func (h *Hub) Start(ctx context.Context) error { return h.rt.Start(ctx) }

// Publish enqueues a message for every subscriber of topic.
func (h *Hub) Publish(ctx context.Context, payload any, topic core.TopicID, optFns ...func(o *runtime.PublishOptions)) error {
	return h.rt.Publish(ctx, payload, topic, optFns...)
}

// Send delivers a message directly to recipient and returns the handler's
// response.
func (h *Hub) Send(ctx context.Context, payload any, recipient core.AgentID, optFns ...func(o *runtime.PublishOptions)) (any, error) {
	return h.rt.Send(ctx, payload, recipient, optFns...)
}

// StopWhenIdle blocks until no messages are in flight, then stops the hub.
func (h *Hub) StopWhenIdle(ctx context.Context) error { return h.rt.StopWhenIdle(ctx) }

// Stop halts the hub after the in-flight delivery.
func (h *Hub) Stop(ctx context.Context) error { return h.rt.Stop(ctx) }
