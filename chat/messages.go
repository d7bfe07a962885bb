package chat

// Message is one entry of a team conversation thread.
type Message interface {
	// From names the agent (or "user") that produced the message.
	From() string
	// Body returns the message content as text.
	Body() string
}

// TextMessage is a plain text message.
type TextMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// From implements Message.
func (m TextMessage) From() string { return m.Source }

// Body implements Message.
func (m TextMessage) Body() string { return m.Content }

// StopMessage requests the end of a conversation. Content states the reason.
type StopMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// From implements Message.
func (m StopMessage) From() string { return m.Source }

// Body implements Message.
func (m StopMessage) Body() string { return m.Content }

// HandoffMessage requests handoff of a conversation to another agent.
// Content names the receiving participant.
type HandoffMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// From implements Message.
func (m HandoffMessage) From() string { return m.Source }

// Body implements Message.
func (m HandoffMessage) Body() string { return m.Content }

// TaskResult is the outcome of a team run: the full conversation thread and
// the reason the run stopped.
type TaskResult struct {
	Messages   []Message `json:"messages"`
	StopReason string    `json:"stop_reason"`
}
