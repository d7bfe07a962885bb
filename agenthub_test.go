package agenthub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthub-go/agenthub/core"
	"github.com/agenthub-go/agenthub/queue"
	"github.com/agenthub-go/agenthub/runtime"
)

// The canonical usage pattern end to end: a closure agent shuttles every
// message published on a results topic onto a queue, the application waits
// for idle and drains the queue in publish order.
func TestHubExtractResults(t *testing.T) {
	hub := New()
	results := queue.NewBuffered[string]()

	err := hub.RegisterClosure("output_result",
		func(ctx context.Context, payload any, _ core.MessageContext) error {
			text, ok := payload.(string)
			if !ok {
				return core.ErrCantHandle
			}
			return results.Put(ctx, text)
		},
		core.NewTypeSubscription("final_results", "output_result"),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, hub.Start(ctx))

	topic := core.NewTopicID("final_results", core.DefaultSource)
	require.NoError(t, hub.Publish(ctx, "Result 1", topic))
	require.NoError(t, hub.Publish(ctx, "Result 2", topic))

	require.NoError(t, hub.StopWhenIdle(ctx))

	var drained []string
	for {
		item, ok := results.TryGet()
		if !ok {
			break
		}
		drained = append(drained, item)
	}

	assert.Equal(t, []string{"Result 1", "Result 2"}, drained)
}

func TestHubSend(t *testing.T) {
	hub := New()

	require.NoError(t, hub.RegisterFactory("echo", func(id core.AgentID) (core.Agent, error) {
		return echoAgent{id: id}, nil
	}))

	ctx := context.Background()
	require.NoError(t, hub.Start(ctx))
	defer func() { _ = hub.Stop(ctx) }()

	resp, err := hub.Send(ctx, "ping", core.NewAgentID("echo", ""))
	require.NoError(t, err)
	assert.Equal(t, "ping", resp)
}

type echoAgent struct {
	id core.AgentID
}

func (a echoAgent) ID() core.AgentID    { return a.id }
func (a echoAgent) Description() string { return "echoes payloads" }
func (a echoAgent) Handle(_ context.Context, payload any, _ core.MessageContext) (any, error) {
	return payload, nil
}

func TestHubSubscriptionLifecycle(t *testing.T) {
	hub := New(WithRuntimeConfig(runtime.Config{QueueSize: 64}))

	require.NoError(t, hub.RegisterFactory("echo", func(id core.AgentID) (core.Agent, error) {
		return echoAgent{id: id}, nil
	}))

	sub := core.NewTypeSubscription("events", "echo")
	require.NoError(t, hub.AddSubscription(sub))
	require.NoError(t, hub.RemoveSubscription(sub.ID()))
	assert.ErrorIs(t, hub.RemoveSubscription(sub.ID()), core.ErrSubscriptionNotFound)
}

func TestHubRuntimeAccess(t *testing.T) {
	hub := New()
	require.NotNil(t, hub.Runtime())
}
