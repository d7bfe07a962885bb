// Package model defines the minimal chat generation abstraction used by the
// chat layer, plus a deterministic MockModel for tests and examples.
// Provider adapters for the official OpenAI and Anthropic SDKs live in the
// openai and anthropic subpackages.
package model
