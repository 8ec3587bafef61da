package cohere

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
)

func TestNewConversation(t *testing.T) {
	conv := NewConversation("")

	if conv == nil {
		t.Fatal("NewConversation returned nil")
	}
	if conv.ID() == "" {
		t.Error("Conversation ID should not be empty")
	}
	if conv.Len() != 0 {
		t.Errorf("New conversation should have 0 messages, got %d", conv.Len())
	}
}

func TestNewConversation_System(t *testing.T) {
	conv := NewConversation("You are terse.")

	messages := conv.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if messages[0].Role != RoleSystem {
		t.Errorf("Expected system role, got %q", messages[0].Role)
	}
	if messages[0].Content != "You are terse." {
		t.Errorf("Unexpected system content %v", messages[0].Content)
	}
}

func TestConversation_ID(t *testing.T) {
	conv1 := NewConversation("")
	conv2 := NewConversation("")

	if conv1.ID() == conv2.ID() {
		t.Error("Different conversations should have different IDs")
	}
	if conv1.ID() != conv1.ID() {
		t.Error("Conversation ID should be consistent across calls")
	}
}

func TestConversation_Messages_ReturnsCopy(t *testing.T) {
	conv := NewConversation("")
	conv.Append(RoleUser, "original")

	messages := conv.Messages()
	messages[0].Content = "modified"

	if conv.Messages()[0].Content != "original" {
		t.Error("Modifying returned messages should not affect the conversation")
	}
}

func TestConversation_Clear(t *testing.T) {
	t.Run("keeps system message", func(t *testing.T) {
		conv := NewConversation("system prompt")
		conv.Append(RoleUser, "hello")
		conv.Append(RoleAssistant, "hi")

		conv.Clear()

		if conv.Len() != 1 {
			t.Fatalf("Expected 1 message after clear, got %d", conv.Len())
		}
		if conv.Messages()[0].Role != RoleSystem {
			t.Error("Leading system message should survive Clear")
		}

		conv.Append(RoleUser, "again")
		if conv.Len() != 2 {
			t.Errorf("Expected 2 messages, got %d", conv.Len())
		}
	})

	t.Run("without system message", func(t *testing.T) {
		conv := NewConversation("")
		conv.Append(RoleUser, "hello")
		conv.Clear()

		if conv.Len() != 0 {
			t.Errorf("Expected 0 messages, got %d", conv.Len())
		}
	})
}

func TestConversation_Concurrent(t *testing.T) {
	conv := NewConversation("")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv.Append(RoleUser, "message")
			_ = conv.Messages()
			_ = conv.Len()
		}()
	}
	wg.Wait()

	if conv.Len() != 100 {
		t.Errorf("Expected 100 messages, got %d", conv.Len())
	}
}

func TestConversation_Send(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondJSON("/v2/chat", http.StatusOK, fixture(t, "chat_result.json"))

	conv := NewConversation("Be friendly.")
	ctx := context.Background()

	reply, err := conv.Send(ctx, client, ChatParams{Model: "command-r"}, "How are you?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "I'm doing well, thanks for asking! How can I help you today?" {
		t.Errorf("Unexpected reply %q", reply)
	}
	if conv.Len() != 3 {
		t.Fatalf("Expected 3 messages, got %d", conv.Len())
	}

	if _, err := conv.Send(ctx, client, ChatParams{Model: "command-r"}, "Tell me more."); err != nil {
		t.Fatalf("Second send failed: %v", err)
	}

	var sent struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
		Stream   *bool     `json:"stream"`
	}
	if err := json.Unmarshal(server.LastRequest().Body, &sent); err != nil {
		t.Fatalf("Failed to decode request: %v", err)
	}
	if sent.Stream != nil {
		t.Error("Conversation turns should not stream")
	}
	if len(sent.Messages) != 4 {
		t.Fatalf("Expected 4 messages in second request, got %d", len(sent.Messages))
	}
	roles := []string{RoleSystem, RoleUser, RoleAssistant, RoleUser}
	for i, role := range roles {
		if sent.Messages[i].Role != role {
			t.Errorf("Message %d: expected role %q, got %q", i, role, sent.Messages[i].Role)
		}
	}
	if sent.Messages[3].Content != "Tell me more." {
		t.Errorf("Unexpected last message %v", sent.Messages[3].Content)
	}
}

func TestConversation_Send_FailureKeepsHistory(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondJSON("/v2/chat", http.StatusInternalServerError, `{"message":"boom"}`)

	conv := NewConversation("")
	conv.Append(RoleUser, "earlier")

	_, err := conv.Send(context.Background(), client, ChatParams{Model: "command-r"}, "now")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if conv.Len() != 1 {
		t.Errorf("Failed send should not change history, got %d messages", conv.Len())
	}
}

func TestConversation_Send_EmptyReply(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondJSON("/v2/chat", http.StatusOK, `{"message":{"role":"assistant","content":[]}}`)

	conv := NewConversation("")
	_, err := conv.Send(context.Background(), client, ChatParams{Model: "command-r"}, "hello")
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("Expected ErrEmptyReply, got %v", err)
	}
	if conv.Len() != 0 {
		t.Errorf("Empty reply should not change history, got %d messages", conv.Len())
	}
}

func TestConversation_Send_Concurrent(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondJSON("/v2/chat", http.StatusOK, fixture(t, "chat_result.json"))

	conv := NewConversation("")
	const sends = 8

	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := conv.Send(context.Background(), client, ChatParams{Model: "command-r"}, "turn"); err != nil {
				t.Errorf("Send failed: %v", err)
			}
		}()
	}
	wg.Wait()

	messages := conv.Messages()
	if len(messages) != 2*sends {
		t.Fatalf("Expected %d messages, got %d", 2*sends, len(messages))
	}
	for i, m := range messages {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if m.Role != want {
			t.Errorf("Message %d: expected role %q, got %q", i, want, m.Role)
		}
	}

	// Each request saw every earlier turn and its reply.
	requests := server.RequestsTo("/v2/chat")
	if len(requests) != sends {
		t.Fatalf("Expected %d requests, got %d", sends, len(requests))
	}
	for i, req := range requests {
		var sent struct {
			Messages []Message `json:"messages"`
		}
		if err := json.Unmarshal(req.Body, &sent); err != nil {
			t.Fatalf("Failed to decode request %d: %v", i, err)
		}
		if len(sent.Messages) != 2*i+1 {
			t.Errorf("Request %d: expected %d messages, got %d", i, 2*i+1, len(sent.Messages))
		}
	}
}
