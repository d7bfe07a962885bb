package chat

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthub-go/agenthub/agent"
	"github.com/agenthub-go/agenthub/core"
)

// scriptedAgent replies with a fixed sequence of messages, one per turn.
type scriptedAgent struct {
	id      core.AgentID
	replies []Message
	turn    int
}

func (a *scriptedAgent) ID() core.AgentID    { return a.id }
func (a *scriptedAgent) Description() string { return "scripted test participant" }

func (a *scriptedAgent) Handle(_ context.Context, payload any, _ core.MessageContext) (any, error) {
	if _, ok := payload.([]Message); !ok {
		return nil, core.ErrCantHandle
	}
	reply := a.replies[a.turn%len(a.replies)]
	a.turn++
	return reply, nil
}

func scripted(name string, replies ...Message) Participant {
	return NewParticipant(name, func(id core.AgentID) (core.Agent, error) {
		return &scriptedAgent{id: id, replies: replies}, nil
	})
}

func TestRoundRobinRun(t *testing.T) {
	team := NewRoundRobin([]Participant{
		scripted("writer", TextMessage{Source: "writer", Content: "draft ready"}),
		scripted("critic", TextMessage{Source: "critic", Content: "APPROVE"}),
	}, func(o *TeamOptions) {
		o.Termination = NewOnTextMention("APPROVE")
	})

	result, err := team.Run(context.Background(), "Write a haiku about autumn.")
	require.NoError(t, err)

	// user task, writer, critic, stop message.
	require.Len(t, result.Messages, 4)
	assert.Equal(t, "user", result.Messages[0].From())
	assert.Equal(t, "writer", result.Messages[1].From())
	assert.Equal(t, "critic", result.Messages[2].From())
	assert.IsType(t, StopMessage{}, result.Messages[3])
	assert.Contains(t, result.StopReason, "APPROVE")
}

func TestRoundRobinMaxMessagesFallback(t *testing.T) {
	team := NewRoundRobin([]Participant{
		scripted("a", TextMessage{Source: "a", Content: "again"}),
		scripted("b", TextMessage{Source: "b", Content: "again"}),
	}, func(o *TeamOptions) {
		o.Termination = NewMaxMessages(5)
	})

	result, err := team.Run(context.Background(), "loop")
	require.NoError(t, err)
	// 5 thread messages plus the stop message.
	assert.Len(t, result.Messages, 6)
	assert.Contains(t, result.StopReason, "maximum number of messages")
}

func TestSwarmFollowsHandoff(t *testing.T) {
	team := NewSwarm([]Participant{
		scripted("triage", HandoffMessage{Source: "triage", Content: "specialist"}),
		scripted("specialist", TextMessage{Source: "specialist", Content: "resolved"}),
	}, func(o *TeamOptions) {
		o.Termination = NewOnTextMention("resolved")
	})

	result, err := team.Run(context.Background(), "My order never arrived.")
	require.NoError(t, err)

	require.Len(t, result.Messages, 4)
	assert.Equal(t, "triage", result.Messages[1].From())
	assert.Equal(t, "specialist", result.Messages[2].From())
}

func TestSwarmRejectsUnknownHandoffTarget(t *testing.T) {
	team := NewSwarm([]Participant{
		scripted("triage", HandoffMessage{Source: "triage", Content: "nobody"}),
	}, func(o *TeamOptions) {
		o.Termination = NewMaxMessages(10)
	})

	result, err := team.Run(context.Background(), "task")
	require.NoError(t, err)
	assert.Contains(t, result.StopReason, "not a participant")
}

func TestRunStreamEmitsMessagesThenResult(t *testing.T) {
	team := NewRoundRobin([]Participant{
		scripted("writer", TextMessage{Source: "writer", Content: "APPROVE"}),
	}, func(o *TeamOptions) {
		o.Termination = NewOnTextMention("APPROVE")
	})

	var messages []Message
	var result *TaskResult
	for ev := range team.RunStream(context.Background(), "go") {
		if ev.Result != nil {
			result = ev.Result
			continue
		}
		messages = append(messages, ev.Message)
	}

	require.NotNil(t, result)
	// Streamed messages match the result thread.
	assert.Equal(t, result.Messages, messages)
}

func TestTeamObserversSeeGroupMessages(t *testing.T) {
	var mu sync.Mutex
	var seen []Message

	team := NewRoundRobin([]Participant{
		scripted("writer", TextMessage{Source: "writer", Content: "APPROVE"}),
	}, func(o *TeamOptions) {
		o.Termination = NewOnTextMention("APPROVE")
		o.Observers = append(o.Observers, func(reg agent.Registry) error {
			return agent.RegisterClosure(reg, "observer",
				func(_ context.Context, payload any, _ core.MessageContext) error {
					msg, ok := payload.(Message)
					if !ok {
						return core.ErrCantHandle
					}
					mu.Lock()
					seen = append(seen, msg)
					mu.Unlock()
					return nil
				},
				core.NewTypeSubscription(GroupTopicType, "observer"),
			)
		})
	})

	result, err := team.Run(context.Background(), "go")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	// The observer sees the task and the reply; the stop message ends the
	// run without being published.
	require.Len(t, seen, 2)
	assert.Equal(t, "user", seen[0].From())
	assert.Equal(t, "writer", seen[1].From())
	_ = result
}

func TestTeamNoParticipants(t *testing.T) {
	team := NewRoundRobin(nil)

	result, err := team.Run(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, "no participants", result.StopReason)
}
