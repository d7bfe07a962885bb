package agent

import (
	"context"
	"fmt"
	"reflect"

	"github.com/agenthub-go/agenthub/core"
)

// handlerFunc is the type-erased form stored in the routing table.
type handlerFunc func(ctx context.Context, payload any, msgCtx core.MessageContext) (any, error)

// RoutedOptions configure a Routed agent.
type RoutedOptions struct {
	// Description is surfaced by Description(). Defaults to a generic label.
	Description string
}

// Routed dispatches incoming payloads to handlers registered per concrete
// payload type via On. Payloads without a handler yield core.ErrCantHandle,
// which the runtime's publish path treats as a skip.
//
// Handlers are expected to be registered during construction, before the
// agent is handed to the runtime; the routing table is not synchronized.
type Routed struct {
	id          core.AgentID
	description string
	handlers    map[reflect.Type]handlerFunc
}

// NewRouted builds a Routed agent with an empty routing table.
func NewRouted(id core.AgentID, optFns ...func(o *RoutedOptions)) *Routed {
	opts := RoutedOptions{Description: "routed agent"}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Routed{
		id:          id,
		description: opts.Description,
		handlers:    make(map[reflect.Type]handlerFunc),
	}
}

// ID returns the agent identity.
func (r *Routed) ID() core.AgentID { return r.id }

// Description returns the human readable description.
func (r *Routed) Description() string { return r.description }

// Handle looks up the handler for the payload's concrete type.
func (r *Routed) Handle(ctx context.Context, payload any, msgCtx core.MessageContext) (any, error) {
	h, ok := r.handlers[reflect.TypeOf(payload)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", core.ErrCantHandle, payload)
	}
	return h(ctx, payload, msgCtx)
}

// On registers fn as the handler for payloads of type T. Registering the
// same type twice replaces the previous handler.
func On[T any](r *Routed, fn func(ctx context.Context, msg T, msgCtx core.MessageContext) (any, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.handlers[t] = func(ctx context.Context, payload any, msgCtx core.MessageContext) (any, error) {
		msg, ok := payload.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %T", core.ErrCantHandle, payload)
		}
		return fn(ctx, msg, msgCtx)
	}
}

// Register registers a factory producing ready-built agents under agentType
// and adds the given subscriptions. build is invoked once per AgentID.
func Register(reg Registry, agentType string, build func(id core.AgentID) (core.Agent, error), subs ...core.Subscription) error {
	if err := reg.RegisterFactory(agentType, core.AgentFactory(build)); err != nil {
		return err
	}

	for _, sub := range subs {
		if err := reg.AddSubscription(sub); err != nil {
			return err
		}
	}

	return nil
}
