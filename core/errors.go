package core

import "errors"

var (
	// ErrInvalidIdentity is returned when an AgentID or TopicID fails validation.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrAgentTypeNotRegistered is returned when no factory exists for an agent type.
	ErrAgentTypeNotRegistered = errors.New("agent type not registered")

	// ErrAgentTypeRegistered is returned when a factory is registered twice for a type.
	ErrAgentTypeRegistered = errors.New("agent type already registered")

	// ErrSubscriptionExists is returned when a subscription ID is added twice.
	ErrSubscriptionExists = errors.New("subscription already exists")

	// ErrSubscriptionNotFound is returned when removing an unknown subscription ID.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrCantHandle signals that an agent has no handler for the payload type.
	// On the publish path the runtime treats it as a skip rather than a failure.
	ErrCantHandle = errors.New("agent cannot handle message type")

	// ErrUndeliverable is returned when a direct send has no resolvable recipient.
	ErrUndeliverable = errors.New("message undeliverable")

	// ErrRuntimeStopped is returned by Publish and Send after the runtime has stopped.
	ErrRuntimeStopped = errors.New("runtime stopped")
)
