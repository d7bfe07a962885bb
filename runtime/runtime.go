package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/agenthub-go/agenthub/core"
	"github.com/agenthub-go/agenthub/logging"
	"github.com/agenthub-go/agenthub/metrics"
)

// Config defines tuning parameters for the runtime's operational behavior.
type Config struct {
	// QueueSize bounds the number of undelivered envelopes. Publish and Send
	// fail with ErrQueueFull once the bound is reached. Set to 0 for
	// unbounded (the default), which guarantees handlers can publish
	// follow-up messages without blocking the dispatcher.
	QueueSize int

	// DeliveryTimeout limits the wall-clock time of a single handler
	// invocation. Set to 0 to disable the limit.
	DeliveryTimeout time.Duration
}

// DefaultConfig provides the default runtime configuration: an unbounded
// queue and no per-delivery timeout.
var DefaultConfig = Config{}

// ErrQueueFull is returned by Publish and Send when Config.QueueSize is
// exceeded.
var ErrQueueFull = errors.New("runtime queue full")

// Options configures a SingleThreaded runtime using the functional options
// pattern.
type Options struct {
	// Config contains operational parameters. Defaults to DefaultConfig.
	Config Config

	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Collector receives delivery metrics. Defaults to metrics.NoOp.
	Collector metrics.Collector
}

// WithConfig overrides the runtime configuration.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithLogger overrides the runtime logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithCollector overrides the metrics collector.
func WithCollector(c metrics.Collector) func(o *Options) {
	return func(o *Options) { o.Collector = c }
}

// item pairs an envelope with the response channel of a pending Send.
// respCh is nil for publishes.
type item struct {
	env    core.Envelope
	respCh chan rpcResult
}

type rpcResult struct {
	value any
	err   error
}

// SingleThreaded is an in-process runtime delivering messages from a single
// dispatcher goroutine. Envelopes are processed strictly in enqueue order,
// so a subscriber observes publishes from one producer in publish order.
//
// Lifecycle: construct with NewSingleThreaded, register factories and
// subscriptions, Start, then Publish/Send. StopWhenIdle blocks until every
// enqueued message has been handled and then stops the dispatcher; Stop
// halts after the in-flight delivery. After either, Publish and Send return
// ErrRuntimeStopped.
//
// All public methods are safe for concurrent use.
type SingleThreaded struct {
	config    Config
	logger    logging.Logger
	collector metrics.Collector

	// Agent registry - protected by mu
	mu        sync.RWMutex
	factories map[string]core.AgentFactory
	instances map[core.AgentID]core.Agent
	subs      []core.Subscription

	// Queue and lifecycle state - protected by qMu / signaled via qCond
	qMu        sync.Mutex
	qCond      *sync.Cond
	pending    []item
	unfinished int
	started    bool
	stopping   bool

	doneCh chan struct{}
}

// NewSingleThreaded creates a runtime with sensible defaults and optional
// configuration. The returned runtime accepts registrations immediately but
// delivers nothing until Start is called.
func NewSingleThreaded(optFns ...func(o *Options)) *SingleThreaded {
	opts := Options{
		Config:    DefaultConfig,
		Logger:    logging.NoOpLogger{},
		Collector: metrics.NoOp{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := &SingleThreaded{
		config:    opts.Config,
		logger:    opts.Logger,
		collector: opts.Collector,
		factories: make(map[string]core.AgentFactory),
		instances: make(map[core.AgentID]core.Agent),
		doneCh:    make(chan struct{}),
	}
	r.qCond = sync.NewCond(&r.qMu)

	return r
}

// RegisterFactory registers an agent factory under agentType. Instances are
// created lazily, one per distinct AgentID, on first delivery or send.
// Registering the same type twice is an error.
func (r *SingleThreaded) RegisterFactory(agentType string, factory core.AgentFactory) error {
	if err := core.NewAgentID(agentType, "").Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[agentType]; exists {
		return fmt.Errorf("agent type %q: %w", agentType, core.ErrAgentTypeRegistered)
	}
	r.factories[agentType] = factory

	return nil
}

// AddSubscription adds a subscription to the routing table. Subscriptions
// are consulted in insertion order at delivery time. Duplicate subscription
// IDs are rejected.
func (r *SingleThreaded) AddSubscription(sub core.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.subs {
		if existing.ID() == sub.ID() {
			return fmt.Errorf("subscription %q: %w", sub.ID(), core.ErrSubscriptionExists)
		}
	}
	r.subs = append(r.subs, sub)

	return nil
}

// RemoveSubscription removes a subscription by ID.
func (r *SingleThreaded) RemoveSubscription(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subs {
		if sub.ID() == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("subscription %q: %w", id, core.ErrSubscriptionNotFound)
}

// Start launches the dispatcher goroutine. Messages enqueued before Start
// are delivered once the dispatcher runs. Calling Start twice is an error.
func (r *SingleThreaded) Start(ctx context.Context) error {
	r.qMu.Lock()
	if r.started {
		r.qMu.Unlock()
		return errors.New("runtime already started")
	}
	r.started = true
	r.qMu.Unlock()

	go r.dispatch(ctx)

	return nil
}

// PublishOptions carries optional metadata for Publish and Send.
type PublishOptions struct {
	// Sender attributes the message to an agent. On the publish path the
	// runtime skips delivering a message back to its own sender.
	Sender *core.AgentID
}

// WithSender attributes an outgoing message to the given agent.
func WithSender(id core.AgentID) func(o *PublishOptions) {
	return func(o *PublishOptions) { o.Sender = &id }
}

// Publish enqueues a message for every subscriber of topic. It returns once
// the message is accepted; delivery happens asynchronously in enqueue order.
// Handler failures are logged and counted, they do not surface here.
func (r *SingleThreaded) Publish(ctx context.Context, payload any, topic core.TopicID, optFns ...func(o *PublishOptions)) error {
	if err := topic.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var opts PublishOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	env := core.NewPublishEnvelope(payload, topic, opts.Sender)
	if err := r.enqueue(item{env: env}); err != nil {
		return err
	}

	r.collector.MessagePublished(topic.Type)
	r.logger.Debug("runtime accepted publish message_id=%s topic=%s", env.ID, topic)

	return nil
}

// Send delivers a message directly to recipient and blocks until the
// handler's response is available, the context is cancelled, or the runtime
// stops. Unlike Publish, handler errors are returned to the caller.
func (r *SingleThreaded) Send(ctx context.Context, payload any, recipient core.AgentID, optFns ...func(o *PublishOptions)) (any, error) {
	if err := recipient.Validate(); err != nil {
		return nil, err
	}

	var opts PublishOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	env := core.NewSendEnvelope(payload, recipient, opts.Sender)
	respCh := make(chan rpcResult, 1)

	if err := r.enqueue(item{env: env, respCh: respCh}); err != nil {
		return nil, err
	}

	r.logger.Debug("runtime accepted send message_id=%s recipient=%s", env.ID, recipient)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-respCh:
		return res.value, res.err
	case <-r.doneCh:
		// The dispatcher may have completed the delivery just before exiting.
		select {
		case res := <-respCh:
			return res.value, res.err
		default:
			return nil, core.ErrRuntimeStopped
		}
	}
}

// StopWhenIdle blocks until no messages are queued or in flight, then stops
// the runtime. Messages enqueued while waiting extend the wait. If ctx is
// cancelled first the runtime keeps running and the context error is
// returned.
func (r *SingleThreaded) StopWhenIdle(ctx context.Context) error {
	if err := r.waitIdle(ctx); err != nil {
		return err
	}
	return r.Stop(ctx)
}

// Stop halts the dispatcher after the in-flight delivery, discarding any
// still-queued messages. It blocks until the dispatcher has exited or ctx
// is cancelled. Stop is idempotent.
func (r *SingleThreaded) Stop(ctx context.Context) error {
	r.qMu.Lock()
	if !r.started {
		r.qMu.Unlock()
		return errors.New("runtime not started")
	}
	if !r.stopping {
		r.stopping = true
		r.qCond.Broadcast()
	}
	r.qMu.Unlock()

	select {
	case <-r.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitIdle blocks until the unfinished count reaches zero, the runtime
// stops, or ctx is cancelled.
func (r *SingleThreaded) waitIdle(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		r.qMu.Lock()
		r.qCond.Broadcast()
		r.qMu.Unlock()
	})
	defer stop()

	r.qMu.Lock()
	defer r.qMu.Unlock()

	for r.unfinished > 0 && !r.stopping && ctx.Err() == nil {
		r.qCond.Wait()
	}

	return ctx.Err()
}

// enqueue appends an item to the pending queue and wakes the dispatcher.
// It never blocks; with a bounded queue it fails fast with ErrQueueFull so
// handlers publishing follow-ups cannot deadlock the dispatcher.
func (r *SingleThreaded) enqueue(it item) error {
	r.qMu.Lock()
	defer r.qMu.Unlock()

	if r.stopping {
		return core.ErrRuntimeStopped
	}
	if r.config.QueueSize > 0 && len(r.pending) >= r.config.QueueSize {
		return fmt.Errorf("%w: %d pending", ErrQueueFull, len(r.pending))
	}

	r.pending = append(r.pending, it)
	r.unfinished++
	r.collector.QueueDepth(len(r.pending))
	r.qCond.Broadcast()

	return nil
}

// markFinished decrements the unfinished count and wakes idle waiters when
// it reaches zero.
func (r *SingleThreaded) markFinished() {
	r.qMu.Lock()
	r.unfinished--
	if r.unfinished == 0 {
		r.qCond.Broadcast()
	}
	r.qMu.Unlock()
}

// dispatch is the single delivery loop. It owns the head of the pending
// queue; envelopes are handled one at a time, preserving enqueue order.
func (r *SingleThreaded) dispatch(ctx context.Context) {
	defer close(r.doneCh)

	stop := context.AfterFunc(ctx, func() {
		r.qMu.Lock()
		r.stopping = true
		r.qCond.Broadcast()
		r.qMu.Unlock()
	})
	defer stop()

	for {
		r.qMu.Lock()
		for len(r.pending) == 0 && !r.stopping {
			r.qCond.Wait()
		}
		if r.stopping {
			r.qMu.Unlock()
			return
		}
		it := r.pending[0]
		r.pending = r.pending[1:]
		depth := len(r.pending)
		r.qMu.Unlock()

		r.collector.QueueDepth(depth)
		r.deliver(ctx, it)
		r.markFinished()
	}
}

// deliver routes one envelope, applying the configured delivery timeout.
func (r *SingleThreaded) deliver(ctx context.Context, it item) {
	if r.config.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.DeliveryTimeout)
		defer cancel()
	}

	if it.env.IsPublish() {
		r.deliverPublish(ctx, it.env)
		return
	}

	r.deliverSend(ctx, it)
}

// deliverPublish fans one published envelope out to every matching
// subscription. Handler errors are isolated per recipient.
func (r *SingleThreaded) deliverPublish(ctx context.Context, env core.Envelope) {
	topic := *env.Topic

	for _, sub := range r.matchingSubscriptions(topic) {
		recipient, err := sub.MapToAgent(topic)
		if err != nil {
			continue
		}

		// Agents do not receive their own publishes.
		if env.Sender != nil && *env.Sender == recipient {
			continue
		}

		agent, err := r.ensureInstance(recipient)
		if err != nil {
			r.collector.HandlerError(recipient.Type)
			r.logger.Error("runtime cannot instantiate agent %s for subscription %s: %v", recipient, sub.ID(), err)
			continue
		}

		start := time.Now()
		_, err = agent.Handle(ctx, env.Payload, core.MessageContext{
			MessageID: env.ID,
			Sender:    env.Sender,
			Topic:     env.Topic,
		})

		switch {
		case errors.Is(err, core.ErrCantHandle):
			r.collector.MessageSkipped(recipient.Type)
			r.logger.Debug("runtime skipped delivery message_id=%s agent=%s", env.ID, recipient)
		case err != nil:
			r.collector.HandlerError(recipient.Type)
			r.logger.Error("handler failed message_id=%s agent=%s duration=%s: %v", env.ID, recipient, time.Since(start), err)
		default:
			r.collector.MessageDelivered(recipient.Type)
			r.logger.Debug("runtime delivered message message_id=%s agent=%s", env.ID, recipient)
		}
	}
}

// deliverSend resolves the recipient instance and forwards the handler's
// result to the waiting caller.
func (r *SingleThreaded) deliverSend(ctx context.Context, it item) {
	recipient := *it.env.Recipient

	agent, err := r.ensureInstance(recipient)
	if err != nil {
		it.respCh <- rpcResult{err: fmt.Errorf("agent %s: %w", recipient, core.ErrUndeliverable)}
		return
	}

	value, err := agent.Handle(ctx, it.env.Payload, core.MessageContext{
		MessageID: it.env.ID,
		Sender:    it.env.Sender,
		IsRPC:     true,
	})
	if err != nil {
		r.collector.HandlerError(recipient.Type)
	} else {
		r.collector.MessageDelivered(recipient.Type)
	}

	it.respCh <- rpcResult{value: value, err: err}
}

// matchingSubscriptions snapshots the subscriptions covering topic in
// insertion order.
func (r *SingleThreaded) matchingSubscriptions(topic core.TopicID) []core.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []core.Subscription
	for _, sub := range r.subs {
		if sub.Matches(topic) {
			matched = append(matched, sub)
		}
	}

	return matched
}

// ensureInstance returns the cached agent for id, creating it from the
// registered factory on first use.
func (r *SingleThreaded) ensureInstance(id core.AgentID) (core.Agent, error) {
	r.mu.RLock()
	if a, ok := r.instances[id]; ok {
		r.mu.RUnlock()
		return a, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.instances[id]; ok {
		return a, nil
	}

	factory, ok := r.factories[id.Type]
	if !ok {
		return nil, fmt.Errorf("agent type %q: %w", id.Type, core.ErrAgentTypeNotRegistered)
	}

	a, err := factory(id)
	if err != nil {
		return nil, fmt.Errorf("factory for %s failed: %w", id, err)
	}
	r.instances[id] = a

	return a, nil
}
