package cohere

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zoobzio/pipz"
)

// Option modifies the dispatch pipeline of a Client.
type Option func(pipz.Chainable[*Call]) pipz.Chainable[*Call]

// WithCircuitBreaker adds circuit breaker protection to the pipeline.
// After 'failures' consecutive failures, the circuit opens for 'recovery' duration
// and calls fail without reaching the network.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(pipeline pipz.Chainable[*Call]) pipz.Chainable[*Call] {
		return pipz.NewCircuitBreaker("circuit-breaker", pipeline, failures, recovery)
	}
}

// WithErrorHandler adds error handling to the pipeline.
// The handler observes failed calls; the original error is still returned to the caller.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Call]]) Option {
	return func(pipeline pipz.Chainable[*Call]) pipz.Chainable[*Call] {
		return pipz.NewHandle("error-handler", pipeline, handler)
	}
}

// WithDebug writes every outgoing payload and its outcome to w.
func WithDebug(w io.Writer) Option {
	return func(pipeline pipz.Chainable[*Call]) pipz.Chainable[*Call] {
		return pipz.Apply("debug", func(ctx context.Context, call *Call) (*Call, error) {
			body, err := call.encode()
			if err != nil {
				body = []byte(err.Error())
			}
			fmt.Fprintf(w, "=== DEBUG: %s %s (%s) ===\n%s\n", call.Operation.Method(), call.Operation.Path, call.Operation.Version, body)

			processed, err := pipeline.Process(ctx, call)
			if err != nil {
				fmt.Fprintf(w, "=== DEBUG: Error ===\n%v\n", err)
				return processed, err
			}

			switch {
			case call.Response == nil:
			case call.Handler != nil:
				fmt.Fprintf(w, "=== DEBUG: Streamed %d chunks ===\n", call.Chunks)
			default:
				fmt.Fprintf(w, "=== DEBUG: Response %d ===\n%s\n", call.Response.StatusCode, call.Response.Raw)
			}
			return processed, nil
		})
	}
}
