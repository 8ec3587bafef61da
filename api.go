// Package cohere provides a client for the Cohere text and language-model API.
//
// The client covers two API generations. Current (v2) operations such as Chat,
// Embed and Rerank are served from the v2 base URL, while Generate, Classify,
// Tokenize, Detokenize, DetectLanguage, Summarize and the legacy v1 variants of
// chat, embed and rerank are served from the v1 base URL. Each operation takes a
// params struct; only the fields that were actually supplied are sent.
//
// Streaming operations deliver the response body chunk by chunk to a handler
// on the calling goroutine. The call blocks until the stream ends.
//
// Basic usage:
//
//	client := cohere.New(cohere.Config{APIKey: os.Getenv("COHERE_API_KEY")})
//	resp, err := client.Tokenize(ctx, cohere.TokenizeParams{Text: "Hello, world!", Model: "base"})
//	fmt.Println(resp.Get("tokens"))
//
// Streaming:
//
//	_, err := client.Chat(ctx, params, cohere.WithHandler(func(chunk []byte) error {
//	    fmt.Println(string(chunk))
//	    return nil
//	}))
package cohere

// APIVersion identifies an API generation and therefore a base URL.
type APIVersion string

// Supported API versions.
const (
	V1 APIVersion = "v1"
	V2 APIVersion = "v2"
)

// Default base URLs per API version.
const (
	DefaultV1BaseURL = "https://api.cohere.ai/v1"
	DefaultV2BaseURL = "https://api.cohere.com/v2"
)

// ChunkHandler receives one raw chunk of a streamed response.
// Returning an error aborts the stream: no further chunks are delivered and the
// error is returned from the call that drove the stream.
type ChunkHandler func(chunk []byte) error

// Role constants for chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message is a single role-tagged entry of a v2 chat conversation.
// Content is usually a string but may be a list of content blocks.
type Message struct {
	Role       string           `json:"role"`
	Content    any              `json:"content,omitempty"`
	ToolCalls  []map[string]any `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
	ToolPlan   string           `json:"tool_plan,omitempty"`
}

// HistoryEntry is a single turn of a legacy v1 chat history.
type HistoryEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}
