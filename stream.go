package cohere

import (
	"context"
	"errors"
	"io"

	"github.com/zoobzio/capitan"
)

// streamBufferSize caps the size of one chunk.
const streamBufferSize = 32 << 10

// wantsStream reports whether a call on op should run in streaming mode.
func wantsStream(op Operation, call *Call) bool {
	if !op.Streaming {
		return false
	}
	return call.Stream || call.Handler != nil
}

// deliver hands one chunk to the call's handler. A handler error is returned
// unmodified and ends the stream.
func deliver(ctx context.Context, call *Call, chunk []byte) error {
	index := call.Chunks
	call.Chunks++

	capitan.Emit(ctx, StreamChunkReceived,
		RequestIDKey.Field(call.ID),
		OperationKey.Field(call.Operation.Name),
		ChunkIndexKey.Field(index),
		ChunkBytesKey.Field(len(chunk)),
	)

	return call.Handler(chunk)
}

// consume drives a streamed body to its end. Every non-empty read from the
// transport is handed to the handler as a chunk of its own, unmodified, so the
// chunks joined in order are the body. Only the current chunk is held.
func consume(ctx context.Context, call *Call, body io.Reader) error {
	buf := make([]byte, streamBufferSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if err := deliver(ctx, call, chunk); err != nil {
				return err
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errStreamRead{err: err}
		}
	}
}

// errStreamRead marks a failure reading the body, as opposed to a handler error.
type errStreamRead struct {
	err error
}

func (e errStreamRead) Error() string { return "stream read: " + e.err.Error() }
func (e errStreamRead) Unwrap() error { return e.err }
