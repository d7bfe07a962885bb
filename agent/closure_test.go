package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthub-go/agenthub/core"
)

// fakeRegistry records registrations so closure wiring can be verified
// without a running runtime.
type fakeRegistry struct {
	factories map[string]core.AgentFactory
	subs      []core.Subscription

	factoryErr error
	subErr     error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{factories: make(map[string]core.AgentFactory)}
}

func (r *fakeRegistry) RegisterFactory(agentType string, factory core.AgentFactory) error {
	if r.factoryErr != nil {
		return r.factoryErr
	}
	r.factories[agentType] = factory
	return nil
}

func (r *fakeRegistry) AddSubscription(sub core.Subscription) error {
	if r.subErr != nil {
		return r.subErr
	}
	r.subs = append(r.subs, sub)
	return nil
}

func TestClosureHandleInvokesCallback(t *testing.T) {
	var got any
	c := NewClosure(core.NewAgentID("collector", ""), func(_ context.Context, payload any, _ core.MessageContext) error {
		got = payload
		return nil
	})

	resp, err := c.Handle(context.Background(), "Result 1", core.MessageContext{})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp != nil {
		t.Errorf("Handle() response = %v, want nil", resp)
	}
	if got != "Result 1" {
		t.Errorf("callback payload = %v, want %q", got, "Result 1")
	}
}

func TestClosureHandlePropagatesError(t *testing.T) {
	want := errors.New("queue closed")
	c := NewClosure(core.NewAgentID("collector", ""), func(context.Context, any, core.MessageContext) error {
		return want
	})

	if _, err := c.Handle(context.Background(), "x", core.MessageContext{}); !errors.Is(err, want) {
		t.Errorf("Handle() error = %v, want %v", err, want)
	}
}

func TestClosureDescription(t *testing.T) {
	c := NewClosure(core.NewAgentID("collector", ""), func(context.Context, any, core.MessageContext) error {
		return nil
	}, func(o *ClosureOptions) {
		o.Description = "drains results"
	})

	if c.Description() != "drains results" {
		t.Errorf("Description() = %q", c.Description())
	}
}

func TestRegisterClosure(t *testing.T) {
	reg := newFakeRegistry()

	err := RegisterClosure(reg, "collector",
		func(context.Context, any, core.MessageContext) error { return nil },
		core.NewTypeSubscription("results", "collector"),
		core.NewTypePrefixSubscription("audit.", "collector"),
	)
	if err != nil {
		t.Fatalf("RegisterClosure() error = %v", err)
	}

	factory, ok := reg.factories["collector"]
	if !ok {
		t.Fatal("factory for type collector not registered")
	}
	if len(reg.subs) != 2 {
		t.Fatalf("subscriptions = %d, want 2", len(reg.subs))
	}

	a, err := factory(core.NewAgentID("collector", "default"))
	if err != nil {
		t.Fatalf("factory error = %v", err)
	}
	if a.ID() != core.NewAgentID("collector", "default") {
		t.Errorf("agent ID = %v", a.ID())
	}
}

func TestRegisterClosureFactoryError(t *testing.T) {
	reg := newFakeRegistry()
	reg.factoryErr = core.ErrAgentTypeRegistered

	err := RegisterClosure(reg, "collector",
		func(context.Context, any, core.MessageContext) error { return nil },
		core.NewTypeSubscription("results", "collector"),
	)
	if !errors.Is(err, core.ErrAgentTypeRegistered) {
		t.Errorf("RegisterClosure() error = %v, want %v", err, core.ErrAgentTypeRegistered)
	}
	if len(reg.subs) != 0 {
		t.Errorf("subscriptions added despite factory error: %d", len(reg.subs))
	}
}
