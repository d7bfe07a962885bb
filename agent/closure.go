package agent

import (
	"context"

	"github.com/agenthub-go/agenthub/core"
)

// Registry is the subset of the runtime a closure registration needs.
// Satisfied by runtime.SingleThreaded and the agenthub facade.
type Registry interface {
	RegisterFactory(agentType string, factory core.AgentFactory) error
	AddSubscription(sub core.Subscription) error
}

// ClosureFunc is the callback backing a Closure agent. Returning
// core.ErrCantHandle skips the delivery without failing the runtime.
type ClosureFunc func(ctx context.Context, payload any, msgCtx core.MessageContext) error

// ClosureOptions configure a Closure agent.
type ClosureOptions struct {
	// Description is surfaced by Description(). Defaults to a generic label.
	Description string
}

// Closure is a lightweight message subscriber defined by a single callback
// function rather than a full agent type. Its main use is shuttling results
// out of the agent system, typically by putting received payloads on a
// queue.Queue the surrounding application drains.
type Closure struct {
	id          core.AgentID
	description string
	fn          ClosureFunc
}

// NewClosure builds a Closure agent with the given identity and callback.
func NewClosure(id core.AgentID, fn ClosureFunc, optFns ...func(o *ClosureOptions)) *Closure {
	opts := ClosureOptions{Description: "closure agent"}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Closure{id: id, description: opts.Description, fn: fn}
}

// ID returns the agent identity.
func (c *Closure) ID() core.AgentID { return c.id }

// Description returns the human readable description.
func (c *Closure) Description() string { return c.description }

// Handle invokes the callback. The return value is always nil; closures are
// subscribers, not RPC targets.
func (c *Closure) Handle(ctx context.Context, payload any, msgCtx core.MessageContext) (any, error) {
	return nil, c.fn(ctx, payload, msgCtx)
}

// RegisterClosure registers a closure-backed factory under agentType and
// adds its subscriptions in one call:
//
//	err := agent.RegisterClosure(rt, "collector",
//	    func(ctx context.Context, payload any, _ core.MessageContext) error {
//	        return results.Put(ctx, payload)
//	    },
//	    core.NewTypeSubscription("results", "collector"),
//	)
func RegisterClosure(reg Registry, agentType string, fn ClosureFunc, subs ...core.Subscription) error {
	err := reg.RegisterFactory(agentType, func(id core.AgentID) (core.Agent, error) {
		return NewClosure(id, fn), nil
	})
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if err := reg.AddSubscription(sub); err != nil {
			return err
		}
	}

	return nil
}
