package core

import (
	"errors"
	"testing"
)

func TestNewAgentID_DefaultKey(t *testing.T) {
	id := NewAgentID("worker", "")
	if id.Key != DefaultKey {
		t.Fatalf("expected default key, got %q", id.Key)
	}
	if id.String() != "worker/default" {
		t.Fatalf("unexpected string form %q", id.String())
	}
}

func TestAgentID_Validate(t *testing.T) {
	valid := []string{"worker", "team.writer", "a-b_c.1"}
	for _, typ := range valid {
		if err := NewAgentID(typ, "k").Validate(); err != nil {
			t.Fatalf("expected %q to be valid, got %v", typ, err)
		}
	}

	invalid := []string{"", "has space", "slash/name", "semi;colon"}
	for _, typ := range invalid {
		err := NewAgentID(typ, "k").Validate()
		if !errors.Is(err, ErrInvalidIdentity) {
			t.Fatalf("expected %q to be invalid, got %v", typ, err)
		}
	}
}

func TestTopicID_DefaultSourceAndValidate(t *testing.T) {
	topic := NewTopicID("final_results", "")
	if topic.Source != DefaultSource {
		t.Fatalf("expected default source, got %q", topic.Source)
	}
	if err := topic.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := TopicID{Type: "ok", Source: ""}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected invalid identity error, got %v", err)
	}
}

func TestEnvelope_Kinds(t *testing.T) {
	topic := NewTopicID("t", "s")
	pub := NewPublishEnvelope("payload", topic, nil)
	if !pub.IsPublish() {
		t.Fatalf("expected publish envelope")
	}
	if pub.ID == "" || pub.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be set")
	}

	sender := NewAgentID("a", "k")
	send := NewSendEnvelope("payload", NewAgentID("b", "k"), &sender)
	if send.IsPublish() {
		t.Fatalf("expected send envelope")
	}
	if send.Recipient == nil || send.Recipient.Type != "b" {
		t.Fatalf("unexpected recipient %v", send.Recipient)
	}
}
