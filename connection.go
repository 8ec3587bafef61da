package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of a non-2xx body is kept on a TransportError.
const maxErrorBody = 64 << 10

// Connection is an authenticated channel to one API version's base URL.
// A Client creates at most one per version and reuses it for every call.
type Connection struct {
	id         string
	version    APIVersion
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newConnection(version APIVersion, baseURL, apiKey string, httpClient *http.Client) *Connection {
	return &Connection{
		id:         uuid.New().String(),
		version:    version,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// ID returns the connection identifier.
func (c *Connection) ID() string { return c.id }

// Version returns the API version this connection serves.
func (c *Connection) Version() APIVersion { return c.version }

// BaseURL returns the base URL requests are sent to.
func (c *Connection) BaseURL() string { return c.baseURL }

// URL returns the absolute URL for an operation path.
func (c *Connection) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Post sends the call's payload and fills in its response.
// In streaming mode with a handler, chunks are delivered as they arrive and
// nothing is retained.
func (c *Connection) Post(ctx context.Context, call *Call) (*Response, error) {
	op := call.Operation
	url := c.URL(op.Path)

	body, err := call.encode()
	if err != nil {
		return nil, &ValidationError{Operation: op.Name, Reason: fmt.Sprintf("failed to marshal payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Operation: op.Name, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Operation: op.Name, URL: url, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{Operation: op.Name, URL: url, StatusCode: resp.StatusCode, Body: raw}
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}

	if call.Stream && call.Handler != nil {
		err := consume(ctx, call, resp.Body)
		var readErr errStreamRead
		if errors.As(err, &readErr) {
			return result, &TransportError{Operation: op.Name, URL: url, StatusCode: resp.StatusCode, Err: readErr.err}
		}
		return result, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Operation: op.Name, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	result.Raw = raw

	contentType := resp.Header.Get("Content-Type")
	if call.Stream || !isJSON(contentType) || len(bytes.TrimSpace(raw)) == 0 {
		return result, nil
	}

	if err := json.Unmarshal(raw, &result.Body); err != nil {
		return nil, &DecodeError{Operation: op.Name, ContentType: mediaType(contentType), Body: raw, Err: err}
	}
	return result, nil
}

func (c *Connection) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
