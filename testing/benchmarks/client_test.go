package benchmarks

import (
	"context"
	"net/http"
	"testing"

	"github.com/zoobzio/cohere"
	cohtest "github.com/zoobzio/cohere/testing"
)

// Sink variables to prevent compiler optimizations.
var (
	sinkPayload  *cohere.Payload
	sinkBytes    []byte
	sinkResponse *cohere.Response
	sinkError    error
)

func mustOp(b *testing.B, name string) cohere.Operation {
	b.Helper()
	op, ok := cohere.LookupOperation(name)
	if !ok {
		b.Fatalf("unknown operation %s", name)
	}
	return op
}

func newClient(b *testing.B) (*cohere.Client, *cohtest.Server) {
	b.Helper()
	server := cohtest.NewServer()
	b.Cleanup(server.Close)
	client := cohere.New(cohere.Config{
		APIKey: "bench",
		BaseURLs: map[cohere.APIVersion]string{
			cohere.V1: server.V1URL(),
			cohere.V2: server.V2URL(),
		},
	})
	return client, server
}

func BenchmarkBuild(b *testing.B) {
	b.Run("Tokenize", func(b *testing.B) {
		op := mustOp(b, cohere.OpTokenize)
		params := cohere.TokenizeParams{Text: "Hello, world!", Model: "base"}
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			sinkPayload, sinkError = cohere.Build(op, params)
		}
	})

	b.Run("GenerateAllFields", func(b *testing.B) {
		op := mustOp(b, cohere.OpGenerate)
		params := cohere.GenerateParams{
			Prompt:            "Once upon a time",
			Model:             "command",
			NumGenerations:    cohere.Int(2),
			MaxTokens:         cohere.Int(50),
			Temperature:       cohere.Float(0.8),
			K:                 cohere.Int(5),
			P:                 cohere.Float(0.75),
			FrequencyPenalty:  cohere.Float(0.1),
			PresencePenalty:   cohere.Float(0.1),
			EndSequences:      []string{"--"},
			StopSequences:     []string{"\n\n"},
			ReturnLikelihoods: "NONE",
			LogitBias:         map[string]float64{"11": -10},
			Truncate:          "END",
		}
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			sinkPayload, sinkError = cohere.Build(op, params)
		}
	})

	b.Run("ChatV1", func(b *testing.B) {
		op := mustOp(b, cohere.OpChatV1)
		params := cohere.ChatV1Params{
			Message:     "hello",
			ChatHistory: []cohere.HistoryEntry{{Role: "USER", Message: "hi"}, {Role: "CHATBOT", Message: "hello"}},
			ToolResults: []map[string]any{},
		}
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			sinkPayload, sinkError = cohere.Build(op, params)
		}
	})
}

func BenchmarkPayload_MarshalJSON(b *testing.B) {
	op := mustOp(b, cohere.OpChat)
	payload, err := cohere.Build(op, cohere.ChatParams{
		Model: "command-r",
		Messages: []cohere.Message{
			{Role: cohere.RoleSystem, Content: "Be brief."},
			{Role: cohere.RoleUser, Content: "Hello there."},
		},
		Temperature: cohere.Float(0.3),
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sinkBytes, sinkError = payload.MarshalJSON()
	}
}

func BenchmarkClient_Tokenize(b *testing.B) {
	client, server := newClient(b)
	server.RespondJSON("/v1/tokenize", http.StatusOK, `{"tokens":[33555,1114,34]}`)

	ctx := context.Background()
	params := cohere.TokenizeParams{Text: "Hello, world!", Model: "base"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sinkResponse, sinkError = client.Tokenize(ctx, params)
	}
}

func BenchmarkClient_Stream(b *testing.B) {
	client, server := newClient(b)
	server.Stream("/v1/generate", cohtest.ContentTypeStreamJSON,
		`{"event_type":"text-generation","text":"a"}`,
		`{"event_type":"text-generation","text":"b"}`,
		`{"event_type":"stream-end","is_finished":true}`,
	)

	ctx := context.Background()
	handler := func([]byte) error { return nil }

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sinkResponse, sinkError = client.Generate(ctx, cohere.GenerateParams{Prompt: "p"}, cohere.WithHandler(handler))
	}
}

func BenchmarkConcurrent_Connection(b *testing.B) {
	client, _ := newClient(b)
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, err := client.Connection(ctx, cohere.V2)
			if err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkConcurrent_Tokenize(b *testing.B) {
	client, server := newClient(b)
	server.RespondJSON("/v1/tokenize", http.StatusOK, `{"tokens":[1]}`)
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = client.Tokenize(ctx, cohere.TokenizeParams{Text: "t", Model: "m"})
		}
	})
}

func BenchmarkConversation_Append(b *testing.B) {
	conv := cohere.NewConversation("system")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		conv.Append(cohere.RoleUser, "message")
	}
}
