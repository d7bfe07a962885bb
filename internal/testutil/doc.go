// Package testutil contains helper agents and builders used across tests
// to reduce boilerplate when exercising the runtime (collecting received
// payloads, echoing sends, scripting failures). These helpers are
// intentionally minimal and avoid adding third-party dependencies. They are
// not intended for production usage.
package testutil
