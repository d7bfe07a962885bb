// Package runtime contains the in-process message runtime that carries
// AgentHub deliveries. SingleThreaded processes envelopes strictly in
// enqueue order on one dispatcher goroutine, which gives subscribers
// per-publisher ordering without cross-agent locking. Agents are
// instantiated lazily from registered factories, and subscriptions decide
// which instances a published topic reaches.
package runtime
