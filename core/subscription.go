package core

import (
	"fmt"
	"strings"
)

// Subscription binds topics to agent instances. Matches decides whether a
// topic is covered; MapToAgent resolves the instance a matching topic is
// delivered to. Implementations must be immutable after construction.
type Subscription interface {
	ID() string
	Matches(topic TopicID) bool
	MapToAgent(topic TopicID) (AgentID, error)
}

// TypeSubscription matches a topic type exactly and maps each topic source
// to its own agent instance: topic "t/s" is delivered to agent
// "agentType/s". This gives one agent instance per source, which keeps
// per-conversation state isolated without extra bookkeeping.
type TypeSubscription struct {
	id        string
	topicType string
	agentType string
}

// NewTypeSubscription creates a subscription from an exact topic type to an
// agent type.
func NewTypeSubscription(topicType, agentType string) *TypeSubscription {
	return &TypeSubscription{id: NewID(), topicType: topicType, agentType: agentType}
}

// ID returns the unique subscription identifier.
func (s *TypeSubscription) ID() string { return s.id }

// TopicType returns the exact topic type this subscription covers.
func (s *TypeSubscription) TopicType() string { return s.topicType }

// AgentType returns the agent type deliveries are mapped to.
func (s *TypeSubscription) AgentType() string { return s.agentType }

// Matches reports whether the topic type equals the subscribed type.
func (s *TypeSubscription) Matches(topic TopicID) bool { return topic.Type == s.topicType }

// MapToAgent resolves a matching topic to AgentID{agentType, topic.Source}.
func (s *TypeSubscription) MapToAgent(topic TopicID) (AgentID, error) {
	if !s.Matches(topic) {
		return AgentID{}, fmt.Errorf("topic %s does not match subscription %s: %w", topic, s.id, ErrCantHandle)
	}
	return NewAgentID(s.agentType, topic.Source), nil
}

// TypePrefixSubscription matches every topic type carrying a given prefix,
// mapping sources to agent instances the same way TypeSubscription does.
// Useful for wildcard-style fan-in ("orders." covering orders.created,
// orders.cancelled, ...).
type TypePrefixSubscription struct {
	id          string
	topicPrefix string
	agentType   string
}

// NewTypePrefixSubscription creates a subscription covering all topic types
// with the given prefix.
func NewTypePrefixSubscription(topicPrefix, agentType string) *TypePrefixSubscription {
	return &TypePrefixSubscription{id: NewID(), topicPrefix: topicPrefix, agentType: agentType}
}

// ID returns the unique subscription identifier.
func (s *TypePrefixSubscription) ID() string { return s.id }

// Matches reports whether the topic type carries the subscribed prefix.
func (s *TypePrefixSubscription) Matches(topic TopicID) bool {
	return strings.HasPrefix(topic.Type, s.topicPrefix)
}

// MapToAgent resolves a matching topic to AgentID{agentType, topic.Source}.
func (s *TypePrefixSubscription) MapToAgent(topic TopicID) (AgentID, error) {
	if !s.Matches(topic) {
		return AgentID{}, fmt.Errorf("topic %s does not match subscription %s: %w", topic, s.id, ErrCantHandle)
	}
	return NewAgentID(s.agentType, topic.Source), nil
}
