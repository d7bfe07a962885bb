package core

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is the queued unit of communication inside the runtime. After
// construction it should be treated as immutable. Topic is set for
// publishes, Recipient for direct sends; exactly one of the two is non-nil.
type Envelope struct {
	ID        string            `json:"id"`
	Topic     *TopicID          `json:"topic,omitempty"`
	Sender    *AgentID          `json:"sender,omitempty"`
	Recipient *AgentID          `json:"recipient,omitempty"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewPublishEnvelope wraps a payload destined for every subscriber of topic.
// Sender may be nil for messages originating outside the agent system.
func NewPublishEnvelope(payload any, topic TopicID, sender *AgentID) Envelope {
	return Envelope{
		ID:        NewID(),
		Topic:     &topic,
		Sender:    sender,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// NewSendEnvelope wraps a payload for direct delivery to a single recipient.
func NewSendEnvelope(payload any, recipient AgentID, sender *AgentID) Envelope {
	return Envelope{
		ID:        NewID(),
		Recipient: &recipient,
		Sender:    sender,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// IsPublish reports whether the envelope targets a topic rather than a
// single recipient.
func (e Envelope) IsPublish() bool { return e.Topic != nil }

// NewID generates a unique identifier for envelopes and subscriptions.
func NewID() string { return uuid.NewString() }

// MessageContext carries delivery metadata into an agent's Handle method.
// Topic is nil for direct sends; IsRPC marks deliveries whose return value
// is surfaced to the caller.
type MessageContext struct {
	MessageID string
	Sender    *AgentID
	Topic     *TopicID
	IsRPC     bool
}
