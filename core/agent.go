package core

import "context"

// Agent is the unit of processing in AgentHub. Instances are created lazily
// by the runtime from a registered AgentFactory and cached per AgentID.
//
// Handle receives the payload plus a MessageContext describing the delivery.
// For direct sends the returned value is surfaced to the caller; for
// published messages it is discarded. Returning ErrCantHandle on the
// publish path skips the delivery without failing the runtime.
//
// Implementations must respect ctx cancellation for graceful shutdown.
type Agent interface {
	ID() AgentID
	Description() string
	Handle(ctx context.Context, payload any, msgCtx MessageContext) (any, error)
}

// AgentFactory constructs an agent instance for the given ID. The runtime
// invokes it at most once per distinct AgentID.
type AgentFactory func(id AgentID) (Agent, error)
