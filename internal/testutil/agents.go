package testutil

import (
	"context"
	"sync"

	"github.com/agenthub-go/agenthub/core"
)

// CollectingAgent records every payload it receives in delivery order and
// echoes the payload back as its response. Safe for concurrent use.
type CollectingAgent struct {
	id core.AgentID

	mu       sync.Mutex
	received []any
}

// NewCollectingAgent creates a CollectingAgent with the given identity.
func NewCollectingAgent(id core.AgentID) *CollectingAgent {
	return &CollectingAgent{id: id}
}

// Factory returns a core.AgentFactory producing this exact instance,
// regardless of the requested ID. Useful when a test needs a handle on the
// instance the runtime delivers to.
func (a *CollectingAgent) Factory() core.AgentFactory {
	return func(core.AgentID) (core.Agent, error) { return a, nil }
}

// ID implements core.Agent.
func (a *CollectingAgent) ID() core.AgentID { return a.id }

// Description implements core.Agent.
func (a *CollectingAgent) Description() string { return "test collecting agent" }

// Handle implements core.Agent.
func (a *CollectingAgent) Handle(_ context.Context, payload any, _ core.MessageContext) (any, error) {
	a.mu.Lock()
	a.received = append(a.received, payload)
	a.mu.Unlock()
	return payload, nil
}

// Received returns a snapshot of the payloads received so far.
func (a *CollectingAgent) Received() []any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]any, len(a.received))
	copy(out, a.received)
	return out
}

// FailingAgent returns the configured error from every delivery.
type FailingAgent struct {
	id  core.AgentID
	err error
}

// NewFailingAgent creates a FailingAgent returning err from Handle.
func NewFailingAgent(id core.AgentID, err error) *FailingAgent {
	return &FailingAgent{id: id, err: err}
}

// ID implements core.Agent.
func (a *FailingAgent) ID() core.AgentID { return a.id }

// Description implements core.Agent.
func (a *FailingAgent) Description() string { return "test failing agent" }

// Handle implements core.Agent.
func (a *FailingAgent) Handle(context.Context, any, core.MessageContext) (any, error) {
	return nil, a.err
}
