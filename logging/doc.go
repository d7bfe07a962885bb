// Package logging provides a minimal logging interface and adapters for AgentHub.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the runtime and agents use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - HubLogger with contextual helpers for runtime, topic and agent scope
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	rt := runtime.NewSingleThreaded(runtime.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
