package integration

import (
	"testing"

	"github.com/zoobzio/cohere"
	cohtest "github.com/zoobzio/cohere/testing"
)

// newClient starts a recording server and a client pointed at both of its versions.
func newClient(t *testing.T, opts ...cohere.Option) (*cohere.Client, *cohtest.Server) {
	t.Helper()
	server := cohtest.NewServer()
	t.Cleanup(server.Close)

	client := cohere.New(cohere.Config{
		APIKey: "integration-key",
		BaseURLs: map[cohere.APIVersion]string{
			cohere.V1: server.V1URL(),
			cohere.V2: server.V2URL(),
		},
	}, opts...)
	return client, server
}

const chatReply = `{"message":{"role":"assistant","content":[{"type":"text","text":"ok"}]},"finish_reason":"COMPLETE"}`
