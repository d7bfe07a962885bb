package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSubscription_MatchAndMap(t *testing.T) {
	sub := NewTypeSubscription("final_results", "collector")

	assert.NotEmpty(t, sub.ID())
	assert.True(t, sub.Matches(NewTopicID("final_results", "sess-1")))
	assert.False(t, sub.Matches(NewTopicID("other", "sess-1")))

	id, err := sub.MapToAgent(NewTopicID("final_results", "sess-1"))
	assert.NoError(t, err)
	assert.Equal(t, AgentID{Type: "collector", Key: "sess-1"}, id)

	_, err = sub.MapToAgent(NewTopicID("other", "sess-1"))
	assert.True(t, errors.Is(err, ErrCantHandle))
}

func TestTypePrefixSubscription_MatchAndMap(t *testing.T) {
	sub := NewTypePrefixSubscription("orders.", "order-handler")

	assert.True(t, sub.Matches(NewTopicID("orders.created", "t1")))
	assert.True(t, sub.Matches(NewTopicID("orders.cancelled", "t2")))
	assert.False(t, sub.Matches(NewTopicID("payments.created", "t1")))

	id, err := sub.MapToAgent(NewTopicID("orders.created", "t1"))
	assert.NoError(t, err)
	assert.Equal(t, AgentID{Type: "order-handler", Key: "t1"}, id)
}

func TestSubscription_UniqueIDs(t *testing.T) {
	a := NewTypeSubscription("t", "a")
	b := NewTypeSubscription("t", "a")
	assert.NotEqual(t, a.ID(), b.ID())
}
