package cohere

// Call flows through the dispatch pipeline.
// It carries the assembled payload, routing data and the call's outcome.
type Call struct {
	// Input fields
	Operation Operation    // Table entry for the operation being called
	Payload   *Payload     // Request body
	Body      []byte       // Payload encoded once, sent as is
	Stream    bool         // Streaming requested by the caller
	Handler   ChunkHandler // Per-chunk handler, nil when not streaming to a handler

	// Metadata fields
	ID string // Unique identifier for this call

	// Output fields (populated by pipeline)
	Response *Response // Result of the POST
	Chunks   int       // Chunks delivered to Handler
	Err      error     // Error returned by the transport or handler
}

// encode returns the encoded payload, marshalling it on first use only.
func (c *Call) encode() ([]byte, error) {
	if c.Body != nil {
		return c.Body, nil
	}
	body, err := c.Payload.MarshalJSON()
	if err != nil {
		return nil, err
	}
	c.Body = body
	return body, nil
}

// CallOption adjusts a single call.
type CallOption func(*Call)

// WithHandler streams the response to handler, one invocation per chunk.
// It is ignored by operations that cannot stream.
func WithHandler(handler ChunkHandler) CallOption {
	return func(c *Call) {
		c.Handler = handler
	}
}

// WithStream requests streaming without a handler. The streamed body is
// returned undecoded in Response.Raw. It is ignored by operations that cannot stream.
func WithStream() CallOption {
	return func(c *Call) {
		c.Stream = true
	}
}
