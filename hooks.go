package cohere

import "github.com/zoobzio/capitan"

// Signals for hook events.
const (
	RequestStarted       = capitan.Signal("cohere.request.started")
	RequestCompleted     = capitan.Signal("cohere.request.completed")
	RequestFailed        = capitan.Signal("cohere.request.failed")
	ConnectionOpened     = capitan.Signal("cohere.connection.opened")
	StreamChunkReceived  = capitan.Signal("cohere.stream.chunk")
	ResponseDecodeFailed = capitan.Signal("cohere.response.decode.failed")
)

// Keys for hook event fields.
var (
	// Request identification.
	RequestIDKey = capitan.NewStringKey("cohere.request.id")
	OperationKey = capitan.NewStringKey("cohere.operation")
	StreamingKey = capitan.NewStringKey("cohere.streaming")

	// Routing.
	APIVersionKey   = capitan.NewStringKey("cohere.api.version")
	BaseURLKey      = capitan.NewStringKey("cohere.base.url")
	PathKey         = capitan.NewStringKey("cohere.path")
	ConnectionIDKey = capitan.NewStringKey("cohere.connection.id")

	// Payload and response metrics.
	PayloadBytesKey   = capitan.NewIntKey("cohere.payload.bytes")
	HTTPStatusCodeKey = capitan.NewIntKey("cohere.http.status.code")
	DurationMsKey     = capitan.NewIntKey("cohere.duration.ms")
	ChunkIndexKey     = capitan.NewIntKey("cohere.stream.chunk.index")
	ChunkBytesKey     = capitan.NewIntKey("cohere.stream.chunk.bytes")
	ChunkCountKey     = capitan.NewIntKey("cohere.stream.chunk.count")
	ContentTypeKey    = capitan.NewStringKey("cohere.content.type")

	// Error information.
	ErrorKey     = capitan.NewStringKey("cohere.error")
	ErrorTypeKey = capitan.NewStringKey("cohere.error.type")
)
