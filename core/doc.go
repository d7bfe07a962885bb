// Package core provides the foundational domain types and interfaces used by
// AgentHub. It defines the core abstractions for:
//
//   - Agent identity (AgentID) and topic identity (TopicID)
//   - Envelopes (the queued unit of communication) and message contexts
//   - Agents (message handlers instantiated from factories)
//   - Subscriptions (rules binding topics to agent instances)
//
// The package intentionally keeps implementation concerns (the dispatcher,
// concrete agents, result queues) out of scope, exposing small interfaces so
// the runtime and user code can evolve independently.
package core
