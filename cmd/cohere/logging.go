package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/cohere"
)

// observe forwards client lifecycle events to logger until the returned
// function is called.
func observe(logger *logrus.Logger) func() {
	observer := capitan.Observe(func(_ context.Context, e *capitan.Event) {
		entry := logger.WithFields(eventFields(e))
		switch e.Signal() {
		case cohere.RequestFailed, cohere.ResponseDecodeFailed:
			entry.Error(string(e.Signal()))
		case cohere.RequestCompleted:
			entry.Info(string(e.Signal()))
		case cohere.RequestStarted, cohere.ConnectionOpened:
			entry.Debug(string(e.Signal()))
		case cohere.StreamChunkReceived:
			entry.Trace(string(e.Signal()))
		}
	})
	return func() { observer.Close() }
}

// eventFields copies the known keys of an event into logrus fields.
func eventFields(e *capitan.Event) logrus.Fields {
	fields := logrus.Fields{}

	str := func(name string, v string, ok bool) {
		if ok && v != "" {
			fields[name] = v
		}
	}
	num := func(name string, v int, ok bool) {
		if ok {
			fields[name] = v
		}
	}

	v, ok := cohere.RequestIDKey.From(e)
	str("request_id", v, ok)
	v, ok = cohere.OperationKey.From(e)
	str("operation", v, ok)
	v, ok = cohere.APIVersionKey.From(e)
	str("version", v, ok)
	v, ok = cohere.PathKey.From(e)
	str("path", v, ok)
	v, ok = cohere.StreamingKey.From(e)
	str("streaming", v, ok)
	v, ok = cohere.BaseURLKey.From(e)
	str("base_url", v, ok)
	v, ok = cohere.ConnectionIDKey.From(e)
	str("connection_id", v, ok)
	v, ok = cohere.ContentTypeKey.From(e)
	str("content_type", v, ok)
	v, ok = cohere.ErrorKey.From(e)
	str("error", v, ok)
	v, ok = cohere.ErrorTypeKey.From(e)
	str("error_type", v, ok)

	n, ok := cohere.HTTPStatusCodeKey.From(e)
	num("status", n, ok)
	n, ok = cohere.PayloadBytesKey.From(e)
	num("payload_bytes", n, ok)
	n, ok = cohere.DurationMsKey.From(e)
	num("duration_ms", n, ok)
	n, ok = cohere.ChunkIndexKey.From(e)
	num("chunk", n, ok)
	n, ok = cohere.ChunkBytesKey.From(e)
	num("chunk_bytes", n, ok)
	n, ok = cohere.ChunkCountKey.From(e)
	num("chunks", n, ok)

	return fields
}
