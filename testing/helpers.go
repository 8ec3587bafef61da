// Package testing provides utilities for testing code built on the cohere client.
//
// Server is an httptest server that records every request and answers with
// canned JSON or streamed chunks per path. It serves both API versions under
// /v1 and /v2 so a single server can back a whole client.
package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// Content types used by canned responses.
const (
	ContentTypeJSON       = "application/json"
	ContentTypeStreamJSON = "application/stream+json"
	ContentTypeEventJSON  = "text/event-stream"
)

// RecordedRequest is a single request received by a Server.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// JSON decodes the request body into a generic map.
func (r RecordedRequest) JSON() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(r.Body, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// route is the canned answer for one path.
type route struct {
	status      int
	contentType string
	body        string
	chunks      []string
}

// Server records requests and serves canned responses.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]route
	requests []RecordedRequest
	count    atomic.Int64
}

// NewServer starts a recording server. Close it when done.
func NewServer() *Server {
	s := &Server{
		routes:   make(map[string]route),
		requests: make([]RecordedRequest, 0),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// V1URL returns the base URL for v1 operations.
func (s *Server) V1URL() string { return s.URL + "/v1" }

// V2URL returns the base URL for v2 operations.
func (s *Server) V2URL() string { return s.URL + "/v2" }

// RespondJSON answers requests to path (for example "/v1/tokenize") with a JSON body.
func (s *Server) RespondJSON(path string, status int, body string) *Server {
	return s.Respond(path, status, ContentTypeJSON, body)
}

// Respond answers requests to path with an arbitrary content type.
func (s *Server) Respond(path string, status int, contentType, body string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = route{status: status, contentType: contentType, body: body}
	return s
}

// Stream answers requests to path by writing and flushing each chunk followed
// by a newline.
func (s *Server) Stream(path, contentType string, chunks ...string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = route{status: http.StatusOK, contentType: contentType, chunks: chunks}
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.count.Add(1)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	rt, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"message":"no route for %s"}`, r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", rt.contentType)
	w.WriteHeader(rt.status)

	if rt.chunks == nil {
		_, _ = io.WriteString(w, rt.body)
		return
	}

	flusher, _ := w.(http.Flusher)
	for _, chunk := range rt.chunks {
		_, _ = io.WriteString(w, strings.TrimRight(chunk, "\n")+"\n")
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// Requests returns a copy of all recorded requests.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := make([]RecordedRequest, len(s.requests))
	copy(requests, s.requests)
	return requests
}

// LastRequest returns the most recent request, or nil if none was made.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return nil
	}
	req := s.requests[len(s.requests)-1]
	return &req
}

// RequestsTo returns the recorded requests for one path.
func (s *Server) RequestsTo(path string) []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []RecordedRequest
	for _, req := range s.requests {
		if req.Path == path {
			matched = append(matched, req)
		}
	}
	return matched
}

// CallCount returns the number of requests received.
func (s *Server) CallCount() int {
	return int(s.count.Load())
}

// Reset clears recorded requests. Routes are kept.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = make([]RecordedRequest, 0)
	s.count.Store(0)
}

// ChunkRecorder collects chunks delivered to a stream handler.
type ChunkRecorder struct {
	mu     sync.Mutex
	chunks [][]byte
	failAt int
	err    error
}

// NewChunkRecorder creates a recorder that accepts every chunk.
func NewChunkRecorder() *ChunkRecorder {
	return &ChunkRecorder{failAt: -1}
}

// FailAt makes the handler return err when it receives the chunk at index.
func (c *ChunkRecorder) FailAt(index int, err error) *ChunkRecorder {
	c.failAt = index
	c.err = err
	return c
}

// Handle records chunk. Its signature matches cohere.ChunkHandler.
func (c *ChunkRecorder) Handle(chunk []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := len(c.chunks)
	copied := make([]byte, len(chunk))
	copy(copied, chunk)
	c.chunks = append(c.chunks, copied)

	if index == c.failAt {
		return c.err
	}
	return nil
}

// Chunks returns the received chunks as strings.
func (c *ChunkRecorder) Chunks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.chunks))
	for i, chunk := range c.chunks {
		out[i] = string(chunk)
	}
	return out
}

// Count returns the number of chunks received.
func (c *ChunkRecorder) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chunks)
}
