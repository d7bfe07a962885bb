package core

import (
	"fmt"
	"regexp"
)

// DefaultKey is the instance key used when callers do not need more than one
// instance of an agent type. DefaultSource plays the same role for topics.
const (
	DefaultKey    = "default"
	DefaultSource = "default"
)

// typePattern constrains agent and topic type names to word characters,
// dots and dashes so identities remain safe to embed in keys and logs.
var typePattern = regexp.MustCompile(`^[\w.\-]+$`)

// AgentID identifies a single agent instance. Type names a registered
// factory; Key distinguishes instances created from that factory. Two IDs
// with equal Type and Key refer to the same instance.
type AgentID struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// NewAgentID builds an AgentID, substituting DefaultKey for an empty key.
func NewAgentID(agentType, key string) AgentID {
	if key == "" {
		key = DefaultKey
	}
	return AgentID{Type: agentType, Key: key}
}

// Validate reports whether the ID is well formed.
func (id AgentID) Validate() error {
	if !typePattern.MatchString(id.Type) {
		return fmt.Errorf("%w: agent type %q", ErrInvalidIdentity, id.Type)
	}
	if id.Key == "" {
		return fmt.Errorf("%w: agent key must not be empty", ErrInvalidIdentity)
	}
	return nil
}

// String renders the ID as "type/key".
func (id AgentID) String() string { return id.Type + "/" + id.Key }

// TopicID names a channel that messages are published to and agents
// subscribe against. Source scopes the topic to its originating context
// (a session, a tenant, a conversation) without multiplying topic types.
type TopicID struct {
	Type   string `json:"type"`
	Source string `json:"source"`
}

// NewTopicID builds a TopicID, substituting DefaultSource for an empty source.
func NewTopicID(topicType, source string) TopicID {
	if source == "" {
		source = DefaultSource
	}
	return TopicID{Type: topicType, Source: source}
}

// Validate reports whether the topic is well formed.
func (t TopicID) Validate() error {
	if !typePattern.MatchString(t.Type) {
		return fmt.Errorf("%w: topic type %q", ErrInvalidIdentity, t.Type)
	}
	if t.Source == "" {
		return fmt.Errorf("%w: topic source must not be empty", ErrInvalidIdentity)
	}
	return nil
}

// String renders the topic as "type/source".
func (t TopicID) String() string { return t.Type + "/" + t.Source }
