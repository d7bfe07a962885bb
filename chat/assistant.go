package chat

import (
	"context"
	"fmt"

	"github.com/agenthub-go/agenthub/core"
	"github.com/agenthub-go/agenthub/model"
)

// AssistantOptions configure an Assistant agent.
type AssistantOptions struct {
	// Instructions prime the model (system prompt).
	Instructions string
	// Description is surfaced by Description().
	Description string
}

// Assistant is a model-backed chat participant. It handles a conversation
// thread ([]Message) or a single TextMessage and replies with a generated
// TextMessage attributed to its agent type. Assistants are stateless: the
// thread passed on each turn is the only context used for generation.
type Assistant struct {
	id          core.AgentID
	mdl         model.Model
	description string
	instr       string
}

// NewAssistant builds an Assistant with the given identity and model.
func NewAssistant(id core.AgentID, mdl model.Model, optFns ...func(o *AssistantOptions)) *Assistant {
	opts := AssistantOptions{
		Instructions: "You are a helpful assistant.",
		Description:  "model-backed chat agent",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Assistant{id: id, mdl: mdl, description: opts.Description, instr: opts.Instructions}
}

// ID returns the agent identity.
func (a *Assistant) ID() core.AgentID { return a.id }

// Description returns the human readable description.
func (a *Assistant) Description() string { return a.description }

// Handle implements core.Agent.
func (a *Assistant) Handle(ctx context.Context, payload any, _ core.MessageContext) (any, error) {
	var thread []Message

	switch p := payload.(type) {
	case []Message:
		thread = p
	case TextMessage:
		thread = []Message{p}
	default:
		return nil, fmt.Errorf("%w: %T", core.ErrCantHandle, payload)
	}

	reply, err := a.generate(ctx, thread)
	if err != nil {
		return nil, err
	}

	return TextMessage{Source: a.id.Type, Content: reply}, nil
}

// generate maps the thread onto a model request and waits for the final
// (non-partial) response.
func (a *Assistant) generate(ctx context.Context, thread []Message) (string, error) {
	req := model.Request{Instructions: a.instr}
	for _, msg := range thread {
		role := "user"
		content := msg.Body()
		if msg.From() == a.id.Type {
			role = "assistant"
		} else if msg.From() != "" && msg.From() != "user" {
			content = fmt.Sprintf("%s: %s", msg.From(), content)
		}
		req.Messages = append(req.Messages, model.Message{Role: role, Content: content})
	}

	respCh, errCh := a.mdl.Generate(ctx, req)

	var final string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case err, ok := <-errCh:
			if ok && err != nil {
				return "", fmt.Errorf("model generation failed: %w", err)
			}
			errCh = nil
		case resp, ok := <-respCh:
			if !ok {
				// Drain a trailing error emitted just before close.
				if errCh != nil {
					if err, ok := <-errCh; ok && err != nil {
						return "", fmt.Errorf("model generation failed: %w", err)
					}
				}
				return final, nil
			}
			if !resp.Partial {
				final = resp.Content
			}
		}
	}
}
