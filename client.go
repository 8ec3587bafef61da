package cohere

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Config holds configuration for a Client.
type Config struct {
	APIKey     string                // Optional; requests are unauthenticated without it
	Timeout    time.Duration         // Optional; zero keeps the transport default
	BaseURLs   map[APIVersion]string // Optional; defaults to DefaultV1BaseURL and DefaultV2BaseURL
	HTTPClient *http.Client          // Optional; defaults to a new http.Client
}

// Client issues operations against the API.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	apiKey     string
	baseURLs   map[APIVersion]string
	httpClient *http.Client
	pipeline   pipz.Chainable[*Call]

	mu    sync.Mutex
	conns map[APIVersion]*Connection
}

// New creates a client. Connections are opened lazily on first use.
func New(config Config, opts ...Option) *Client {
	baseURLs := map[APIVersion]string{
		V1: DefaultV1BaseURL,
		V2: DefaultV2BaseURL,
	}
	for version, url := range config.BaseURLs {
		if url != "" {
			baseURLs[version] = url
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	} else if config.Timeout > 0 {
		copied := *httpClient
		copied.Timeout = config.Timeout
		httpClient = &copied
	}

	c := &Client{
		apiKey:     config.APIKey,
		baseURLs:   baseURLs,
		httpClient: httpClient,
		conns:      make(map[APIVersion]*Connection),
	}

	pipeline := c.terminal()
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	c.pipeline = pipeline

	return c
}

// Connection returns the connection for version, opening it on first use.
// Concurrent first use opens exactly one connection.
func (c *Client) Connection(ctx context.Context, version APIVersion) (*Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[version]; ok {
		return conn, nil
	}

	baseURL, ok := c.baseURLs[version]
	if !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("no base URL for API version %q", version)}
	}

	conn := newConnection(version, baseURL, c.apiKey, c.httpClient)
	c.conns[version] = conn

	capitan.Emit(ctx, ConnectionOpened,
		ConnectionIDKey.Field(conn.ID()),
		APIVersionKey.Field(string(version)),
		BaseURLKey.Field(conn.BaseURL()),
	)

	return conn, nil
}

// terminal is the last stage of the pipeline: route and POST.
func (c *Client) terminal() pipz.Chainable[*Call] {
	return pipz.Apply("dispatch", func(ctx context.Context, call *Call) (*Call, error) {
		conn, err := c.Connection(ctx, call.Operation.Version)
		if err != nil {
			call.Err = err
			return call, err
		}

		resp, err := conn.Post(ctx, call)
		call.Response = resp
		call.Err = err
		return call, err
	})
}

// invoke builds the payload for name and dispatches it.
func invoke[P any](ctx context.Context, c *Client, name string, params P, opts []CallOption) (*Response, error) {
	op, ok := operations[name]
	if !ok {
		return nil, &ValidationError{Operation: name, Reason: "unknown operation"}
	}

	call := &Call{
		Operation: op,
		ID:        uuid.New().String(),
	}
	for _, opt := range opts {
		opt(call)
	}

	payload, err := Build(op, params)
	if err != nil {
		return nil, err
	}

	if wantsStream(op, call) {
		call.Stream = true
		payload.Set("stream", true)
	} else {
		call.Stream = false
		call.Handler = nil
	}
	call.Payload = payload
	if _, err := call.encode(); err != nil {
		return nil, &ValidationError{Operation: op.Name, Reason: fmt.Sprintf("failed to marshal payload: %v", err)}
	}

	return c.dispatch(ctx, call)
}

// dispatch runs a built call through the pipeline and reports its lifecycle.
func (c *Client) dispatch(ctx context.Context, call *Call) (*Response, error) {
	op := call.Operation
	startTime := time.Now()

	payloadBytes := 0
	if body, err := call.encode(); err == nil {
		payloadBytes = len(body)
	}

	capitan.Emit(ctx, RequestStarted,
		RequestIDKey.Field(call.ID),
		OperationKey.Field(op.Name),
		APIVersionKey.Field(string(op.Version)),
		PathKey.Field(op.Path),
		StreamingKey.Field(strconv.FormatBool(call.Stream)),
		PayloadBytesKey.Field(payloadBytes),
	)

	_, err := c.pipeline.Process(ctx, call)
	duration := time.Since(startTime)

	if err != nil {
		// Surface the transport or handler error itself rather than the
		// pipeline's wrapper when the terminal stage produced it.
		if call.Err != nil {
			err = call.Err
		}

		fields := []capitan.Field{
			RequestIDKey.Field(call.ID),
			OperationKey.Field(op.Name),
			APIVersionKey.Field(string(op.Version)),
			ErrorKey.Field(err.Error()),
			ErrorTypeKey.Field(errorType(call, err)),
			DurationMsKey.Field(int(duration.Milliseconds())),
			ChunkCountKey.Field(call.Chunks),
		}
		var transportErr *TransportError
		if errors.As(err, &transportErr) && transportErr.StatusCode != 0 {
			fields = append(fields, HTTPStatusCodeKey.Field(transportErr.StatusCode))
		}

		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			capitan.Emit(ctx, ResponseDecodeFailed,
				RequestIDKey.Field(call.ID),
				OperationKey.Field(op.Name),
				ContentTypeKey.Field(decodeErr.ContentType),
				ErrorKey.Field(decodeErr.Err.Error()),
			)
		}

		capitan.Emit(ctx, RequestFailed, fields...)
		return call.Response, err
	}

	fields := []capitan.Field{
		RequestIDKey.Field(call.ID),
		OperationKey.Field(op.Name),
		APIVersionKey.Field(string(op.Version)),
		DurationMsKey.Field(int(duration.Milliseconds())),
		ChunkCountKey.Field(call.Chunks),
	}
	if call.Response != nil {
		fields = append(fields, HTTPStatusCodeKey.Field(call.Response.StatusCode))
	}
	capitan.Emit(ctx, RequestCompleted, fields...)

	return call.Response, nil
}

// errorType classifies a failed call for the RequestFailed hook. Errors that
// did not come from the terminal stage, such as an open circuit, are
// pipeline errors.
func errorType(call *Call, err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case call != nil && call.Handler != nil && call.Err != nil:
		return "handler_error"
	default:
		return "pipeline_error"
	}
}

// Chat sends a v2 chat request. With WithHandler or WithStream the response
// is streamed.
func (c *Client) Chat(ctx context.Context, params ChatParams, opts ...CallOption) (*Response, error) {
	if params.Stream {
		opts = append(opts, WithStream())
	}
	return invoke(ctx, c, OpChat, params, opts)
}

// Embed sends a v2 embed request.
func (c *Client) Embed(ctx context.Context, params EmbedParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpEmbed, params, opts)
}

// Rerank sends a v2 rerank request.
func (c *Client) Rerank(ctx context.Context, params RerankParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpRerank, params, opts)
}

// Generate generates text conditioned on a prompt. With WithHandler or
// WithStream the response is streamed.
func (c *Client) Generate(ctx context.Context, params GenerateParams, opts ...CallOption) (*Response, error) {
	if params.Stream {
		opts = append(opts, WithStream())
	}
	return invoke(ctx, c, OpGenerate, params, opts)
}

// Classify classifies inputs.
func (c *Client) Classify(ctx context.Context, params ClassifyParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpClassify, params, opts)
}

// Tokenize splits text into tokens.
func (c *Client) Tokenize(ctx context.Context, params TokenizeParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpTokenize, params, opts)
}

// Detokenize turns tokens back into text.
func (c *Client) Detokenize(ctx context.Context, params DetokenizeParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpDetokenize, params, opts)
}

// DetectLanguage identifies the language of each text.
func (c *Client) DetectLanguage(ctx context.Context, params DetectLanguageParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpDetectLanguage, params, opts)
}

// Summarize summarizes text.
func (c *Client) Summarize(ctx context.Context, params SummarizeParams, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpSummarize, params, opts)
}

// ChatV1 sends a legacy v1 chat request.
func (c *Client) ChatV1(ctx context.Context, params ChatV1Params, opts ...CallOption) (*Response, error) {
	if params.Stream {
		opts = append(opts, WithStream())
	}
	return invoke(ctx, c, OpChatV1, params, opts)
}

// EmbedV1 sends a legacy v1 embed request.
func (c *Client) EmbedV1(ctx context.Context, params EmbedV1Params, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpEmbedV1, params, opts)
}

// RerankV1 sends a legacy v1 rerank request.
func (c *Client) RerankV1(ctx context.Context, params RerankV1Params, opts ...CallOption) (*Response, error) {
	return invoke(ctx, c, OpRerankV1, params, opts)
}
