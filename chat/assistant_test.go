package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthub-go/agenthub/core"
	"github.com/agenthub-go/agenthub/model"
)

func TestAssistantRepliesToThread(t *testing.T) {
	mock := model.NewMockModel("test-model")
	mock.AddResponse("critic: needs a second stanza", "Added a second stanza.")

	a := NewAssistant(core.NewAgentID("writer", ""), mock)

	thread := []Message{
		TextMessage{Source: "user", Content: "Write a haiku."},
		TextMessage{Source: "writer", Content: "First draft."},
		TextMessage{Source: "critic", Content: "needs a second stanza"},
	}

	resp, err := a.Handle(context.Background(), thread, core.MessageContext{})
	require.NoError(t, err)

	msg, ok := resp.(TextMessage)
	require.True(t, ok, "Handle() returned %T", resp)
	assert.Equal(t, "writer", msg.Source)
	assert.Equal(t, "Added a second stanza.", msg.Content)
}

func TestAssistantHandlesSingleTextMessage(t *testing.T) {
	mock := model.NewMockModel("test-model")
	mock.AddResponse("Hello there.", "General greeting.")

	a := NewAssistant(core.NewAgentID("writer", ""), mock)

	resp, err := a.Handle(context.Background(), TextMessage{Source: "user", Content: "Hello there."}, core.MessageContext{})
	require.NoError(t, err)
	assert.Equal(t, "General greeting.", resp.(TextMessage).Content)
}

func TestAssistantRejectsUnknownPayload(t *testing.T) {
	a := NewAssistant(core.NewAgentID("writer", ""), model.NewMockModel("test-model"))

	_, err := a.Handle(context.Background(), 42, core.MessageContext{})
	assert.True(t, errors.Is(err, core.ErrCantHandle))
}

func TestAssistantSurfacesModelError(t *testing.T) {
	a := NewAssistant(core.NewAgentID("writer", ""), model.NewMockModel("test-model"))

	// An empty thread makes the mock fail generation.
	_, err := a.Handle(context.Background(), []Message{}, core.MessageContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model generation failed")
}

func TestAssistantOptions(t *testing.T) {
	a := NewAssistant(core.NewAgentID("writer", ""), model.NewMockModel("test-model"), func(o *AssistantOptions) {
		o.Description = "drafts poems"
		o.Instructions = "You write poems."
	})

	assert.Equal(t, "drafts poems", a.Description())
}

func TestAssistantInTeam(t *testing.T) {
	writerModel := model.NewMockModel("test-model")
	writerModel.AddResponse("Write a haiku.", "Leaves drift on the pond")
	criticModel := model.NewMockModel("test-model")
	criticModel.AddResponse("writer: Leaves drift on the pond", "APPROVE")

	team := NewRoundRobin([]Participant{
		NewParticipant("writer", func(id core.AgentID) (core.Agent, error) {
			return NewAssistant(id, writerModel), nil
		}),
		NewParticipant("critic", func(id core.AgentID) (core.Agent, error) {
			return NewAssistant(id, criticModel), nil
		}),
	}, func(o *TeamOptions) {
		o.Termination = NewOnTextMention("APPROVE")
	})

	result, err := team.Run(context.Background(), "Write a haiku.")
	require.NoError(t, err)

	require.Len(t, result.Messages, 4)
	assert.Equal(t, "Leaves drift on the pond", result.Messages[1].Body())
	assert.Equal(t, "APPROVE", result.Messages[2].Body())
}
