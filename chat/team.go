package chat

import (
	"context"
	"fmt"

	"github.com/agenthub-go/agenthub/agent"
	"github.com/agenthub-go/agenthub/core"
	"github.com/agenthub-go/agenthub/logging"
	"github.com/agenthub-go/agenthub/runtime"
)

// GroupTopicType is the topic type every team message is published to. The
// topic source is the team's run ID, so concurrent runs stay separated and
// closure-style observers can subscribe with a single TypeSubscription.
const GroupTopicType = "team.messages"

// Participant couples a participant name with a factory producing its agent.
// The name doubles as the agent type registered on the team's runtime.
type Participant struct {
	Name    string
	Factory core.AgentFactory
}

// NewParticipant builds a Participant from a name and a build function.
func NewParticipant(name string, build func(id core.AgentID) (core.Agent, error)) Participant {
	return Participant{Name: name, Factory: core.AgentFactory(build)}
}

// speakerSelector picks the next participant given the conversation so far.
type speakerSelector interface {
	selectSpeaker(thread []Message, participants []string) (string, error)
	reset()
}

// roundRobinSelector rotates through participants in declaration order.
type roundRobinSelector struct {
	next int
}

func (s *roundRobinSelector) selectSpeaker(_ []Message, participants []string) (string, error) {
	speaker := participants[s.next%len(participants)]
	s.next++
	return speaker, nil
}

func (s *roundRobinSelector) reset() { s.next = 0 }

// swarmSelector keeps the current speaker until a HandoffMessage names a
// successor. Handoff to a non-participant is an error.
type swarmSelector struct {
	current string
}

func (s *swarmSelector) selectSpeaker(thread []Message, participants []string) (string, error) {
	if s.current == "" {
		s.current = participants[0]
	}
	if len(thread) > 0 {
		if handoff, ok := thread[len(thread)-1].(HandoffMessage); ok {
			found := false
			for _, p := range participants {
				if p == handoff.Content {
					found = true
					break
				}
			}
			if !found {
				return "", fmt.Errorf("handoff target %q is not a participant", handoff.Content)
			}
			s.current = handoff.Content
		}
	}
	return s.current, nil
}

func (s *swarmSelector) reset() { s.current = "" }

// TeamOptions configure a team.
type TeamOptions struct {
	// Termination ends the run. Defaults to NewMaxMessages(25) so a
	// misconfigured team cannot spin forever.
	Termination Condition

	// Logger is handed to the per-run runtime. Defaults to NoOp.
	Logger logging.Logger

	// Observers are registered on the per-run runtime before the first
	// turn; subscribe them to GroupTopicType to stream the conversation.
	Observers []func(reg agent.Registry) error
}

// Team drives a set of participants in turns over a dedicated runtime until
// a termination condition fires. The speaker selection strategy
// distinguishes the concrete teams: RoundRobin rotates, Swarm follows
// handoff messages.
type Team struct {
	participants []Participant
	selector     speakerSelector
	termination  Condition
	logger       logging.Logger
	observers    []func(reg agent.Registry) error
}

// NewRoundRobin creates a team whose speakers rotate in declaration order.
func NewRoundRobin(participants []Participant, optFns ...func(o *TeamOptions)) *Team {
	return newTeam(participants, &roundRobinSelector{}, optFns...)
}

// NewSwarm creates a team that selects the next speaker based on handoff
// messages only, starting with the first participant.
func NewSwarm(participants []Participant, optFns ...func(o *TeamOptions)) *Team {
	return newTeam(participants, &swarmSelector{}, optFns...)
}

func newTeam(participants []Participant, sel speakerSelector, optFns ...func(o *TeamOptions)) *Team {
	opts := TeamOptions{
		Termination: NewMaxMessages(25),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Team{
		participants: participants,
		selector:     sel,
		termination:  opts.Termination,
		logger:       opts.Logger,
		observers:    opts.Observers,
	}
}

// StreamEvent is one element of a streaming team run: either a thread
// message or, as the final element, the task result.
type StreamEvent struct {
	Message Message
	Result  *TaskResult
}

// Run executes the task to completion and returns the final result.
func (t *Team) Run(ctx context.Context, task string) (TaskResult, error) {
	var result TaskResult

	for ev := range t.RunStream(ctx, task) {
		if ev.Result != nil {
			result = *ev.Result
		}
	}

	if result.StopReason == "" {
		return result, ctx.Err()
	}

	return result, nil
}

// RunStream executes the task, emitting each produced message followed by a
// final StreamEvent carrying the TaskResult. The channel is closed when the
// run ends. Errors end the run with the error text as stop reason.
func (t *Team) RunStream(ctx context.Context, task string) <-chan StreamEvent {
	out := make(chan StreamEvent, 16)

	go func() {
		defer close(out)
		t.run(ctx, task, out)
	}()

	return out
}

func (t *Team) run(ctx context.Context, task string, out chan<- StreamEvent) {
	if len(t.participants) == 0 {
		out <- StreamEvent{Result: &TaskResult{StopReason: "no participants"}}
		return
	}

	t.termination.Reset()
	t.selector.reset()

	rt := runtime.NewSingleThreaded(runtime.WithLogger(t.logger))

	names := make([]string, len(t.participants))
	for i, p := range t.participants {
		names[i] = p.Name
		if err := rt.RegisterFactory(p.Name, p.Factory); err != nil {
			out <- StreamEvent{Result: &TaskResult{StopReason: fmt.Sprintf("register %s: %v", p.Name, err)}}
			return
		}
	}
	for _, register := range t.observers {
		if err := register(rt); err != nil {
			out <- StreamEvent{Result: &TaskResult{StopReason: fmt.Sprintf("register observer: %v", err)}}
			return
		}
	}

	if err := rt.Start(ctx); err != nil {
		out <- StreamEvent{Result: &TaskResult{StopReason: fmt.Sprintf("start runtime: %v", err)}}
		return
	}

	groupTopic := core.NewTopicID(GroupTopicType, core.NewID())

	first := TextMessage{Source: "user", Content: task}
	thread := []Message{first}
	_ = rt.Publish(ctx, first, groupTopic)
	out <- StreamEvent{Message: first}

	result := t.loop(ctx, rt, groupTopic, names, thread, out)

	// Let observers finish consuming the group topic before reporting.
	if err := rt.StopWhenIdle(context.WithoutCancel(ctx)); err != nil {
		t.logger.Warn("error stopping team runtime: %v", err)
	}

	out <- StreamEvent{Result: &result}
}

// loop runs the turn cycle: check termination, select a speaker, send the
// thread, append and publish the reply.
func (t *Team) loop(
	ctx context.Context,
	rt *runtime.SingleThreaded,
	groupTopic core.TopicID,
	names []string,
	thread []Message,
	out chan<- StreamEvent,
) TaskResult {
	for {
		if err := ctx.Err(); err != nil {
			return TaskResult{Messages: thread, StopReason: err.Error()}
		}

		stop, err := t.termination.Check(thread)
		if err != nil {
			return TaskResult{Messages: thread, StopReason: err.Error()}
		}
		if stop != nil {
			thread = append(thread, *stop)
			out <- StreamEvent{Message: *stop}
			return TaskResult{Messages: thread, StopReason: stop.Content}
		}

		speaker, err := t.selector.selectSpeaker(thread, names)
		if err != nil {
			return TaskResult{Messages: thread, StopReason: err.Error()}
		}

		snapshot := make([]Message, len(thread))
		copy(snapshot, thread)

		resp, err := rt.Send(ctx, snapshot, core.NewAgentID(speaker, core.DefaultKey))
		if err != nil {
			return TaskResult{Messages: thread, StopReason: fmt.Sprintf("send to %s: %v", speaker, err)}
		}

		msg, ok := resp.(Message)
		if !ok {
			return TaskResult{Messages: thread, StopReason: fmt.Sprintf("%s returned %T, want chat.Message", speaker, resp)}
		}

		thread = append(thread, msg)
		_ = rt.Publish(ctx, msg, groupTopic)
		out <- StreamEvent{Message: msg}
	}
}
