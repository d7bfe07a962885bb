package chat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTerminated is returned by Check when a condition that has already
// fired is consulted again without an intervening Reset.
var ErrTerminated = errors.New("termination condition has already been reached")

// Condition decides when a team conversation ends. Check receives the full
// thread after each turn and returns a non-nil StopMessage once the
// condition fires; afterwards it returns ErrTerminated until Reset.
type Condition interface {
	Check(messages []Message) (*StopMessage, error)
	Reset()
}

// MaxMessages fires once the thread reaches n messages.
type MaxMessages struct {
	n     int
	fired bool
}

// NewMaxMessages creates a condition stopping after n thread messages.
func NewMaxMessages(n int) *MaxMessages { return &MaxMessages{n: n} }

// Check implements Condition.
func (c *MaxMessages) Check(messages []Message) (*StopMessage, error) {
	if c.fired {
		return nil, ErrTerminated
	}
	if len(messages) >= c.n {
		c.fired = true
		return &StopMessage{
			Source:  "MaxMessagesTermination",
			Content: fmt.Sprintf("maximum number of messages %d reached, current message count: %d", c.n, len(messages)),
		}, nil
	}
	return nil, nil
}

// Reset implements Condition.
func (c *MaxMessages) Reset() { c.fired = false }

// OnStopMessage fires when the latest thread message is a StopMessage.
type OnStopMessage struct {
	fired bool
}

// NewOnStopMessage creates a condition stopping on any StopMessage.
func NewOnStopMessage() *OnStopMessage { return &OnStopMessage{} }

// Check implements Condition.
func (c *OnStopMessage) Check(messages []Message) (*StopMessage, error) {
	if c.fired {
		return nil, ErrTerminated
	}
	if len(messages) == 0 {
		return nil, nil
	}
	if stop, ok := messages[len(messages)-1].(StopMessage); ok {
		c.fired = true
		return &stop, nil
	}
	return nil, nil
}

// Reset implements Condition.
func (c *OnStopMessage) Reset() { c.fired = false }

// OnTextMention fires when the latest thread message mentions the given text.
type OnTextMention struct {
	text  string
	fired bool
}

// NewOnTextMention creates a condition stopping when text appears in a message.
func NewOnTextMention(text string) *OnTextMention { return &OnTextMention{text: text} }

// Check implements Condition.
func (c *OnTextMention) Check(messages []Message) (*StopMessage, error) {
	if c.fired {
		return nil, ErrTerminated
	}
	if len(messages) == 0 {
		return nil, nil
	}
	if strings.Contains(messages[len(messages)-1].Body(), c.text) {
		c.fired = true
		return &StopMessage{
			Source:  "TextMentionTermination",
			Content: fmt.Sprintf("text %q mentioned", c.text),
		}, nil
	}
	return nil, nil
}

// Reset implements Condition.
func (c *OnTextMention) Reset() { c.fired = false }

// Or combines conditions; it fires as soon as any inner condition fires.
type Or struct {
	conds []Condition
	fired bool
}

// NewOr combines the given conditions disjunctively.
func NewOr(conds ...Condition) *Or { return &Or{conds: conds} }

// Check implements Condition.
func (c *Or) Check(messages []Message) (*StopMessage, error) {
	if c.fired {
		return nil, ErrTerminated
	}
	for _, cond := range c.conds {
		stop, err := cond.Check(messages)
		if err != nil {
			return nil, err
		}
		if stop != nil {
			c.fired = true
			return stop, nil
		}
	}
	return nil, nil
}

// Reset implements Condition.
func (c *Or) Reset() {
	c.fired = false
	for _, cond := range c.conds {
		cond.Reset()
	}
}
