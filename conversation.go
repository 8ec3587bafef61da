package cohere

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Conversation keeps the message history of a multi-turn v2 chat.
//
// Conversations are safe for concurrent use by multiple goroutines.
type Conversation struct {
	id       string
	messages []Message
	mu       sync.RWMutex
	sendMu   sync.Mutex // serializes Send so each turn sees the previous reply
}

// NewConversation creates an empty conversation with a unique ID.
// An optional system prompt becomes the first message.
func NewConversation(system string) *Conversation {
	c := &Conversation{
		id:       uuid.New().String(),
		messages: make([]Message, 0),
	}
	if system != "" {
		c.messages = append(c.messages, Message{Role: RoleSystem, Content: system})
	}
	return c
}

// ID returns the unique identifier for this conversation.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a copy of all messages.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return messages
}

// Append adds a message to the conversation.
func (c *Conversation) Append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, Message{
		Role:    role,
		Content: content,
	})
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Clear removes all messages, keeping a leading system message if there is one.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) > 0 && c.messages[0].Role == RoleSystem {
		c.messages = c.messages[:1:1]
		return
	}
	c.messages = make([]Message, 0)
}

// ErrEmptyReply is returned by Send when a chat response carries no text.
var ErrEmptyReply = errors.New("chat response contained no text")

// Send appends content as a user turn, calls Chat with the full history and
// appends the assistant's reply. The history is only updated after a
// successful, non-empty reply. params.Messages is replaced by the history.
// Concurrent sends on one conversation run one at a time.
func (c *Conversation) Send(ctx context.Context, client *Client, params ChatParams, content string) (string, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	params.Messages = append(c.Messages(), Message{Role: RoleUser, Content: content})
	params.Stream = false

	resp, err := client.Chat(ctx, params)
	if err != nil {
		return "", err
	}

	reply := resp.Get("message.content.0.text").String()
	if reply == "" {
		return "", ErrEmptyReply
	}

	c.mu.Lock()
	c.messages = append(c.messages,
		Message{Role: RoleUser, Content: content},
		Message{Role: RoleAssistant, Content: reply},
	)
	c.mu.Unlock()

	return reply, nil
}
