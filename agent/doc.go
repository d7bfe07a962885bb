// Package agent contains first-class agent implementations for AgentHub:
//
//  1. Closure - a subscriber defined by a single callback function, for
//     extracting results out of the agent system without writing a type
//  2. Routed - a base agent dispatching payloads to per-type handlers
//
// Both plug into the runtime through core.AgentFactory. RegisterClosure and
// Register wire a factory and its subscriptions in one call so simple
// subscribers stay one-liners.
package agent
