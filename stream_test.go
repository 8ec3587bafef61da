package cohere

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// segmentReader returns one segment per Read, the way a transport hands over
// data as it arrives. Empty segments are reads that returned no data.
type segmentReader struct {
	segments []string
}

func (r *segmentReader) Read(p []byte) (int, error) {
	if len(r.segments) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.segments[0])
	if n < len(r.segments[0]) {
		r.segments[0] = r.segments[0][n:]
	} else {
		r.segments = r.segments[1:]
	}
	return n, nil
}

func newSegmentReader(segments ...string) *segmentReader {
	return &segmentReader{segments: append([]string(nil), segments...)}
}

// collect consumes body and returns the chunks the handler saw.
func collect(t *testing.T, body io.Reader) []string {
	t.Helper()
	var chunks []string
	call := &Call{
		Operation: mustOp(t, OpChat),
		Handler: func(chunk []byte) error {
			chunks = append(chunks, string(chunk))
			return nil
		},
	}
	require.NoError(t, consume(context.Background(), call, body))
	assert.Equal(t, len(chunks), call.Chunks)
	return chunks
}

func TestConsumeDeliversReadsUnmodified(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     []string
	}{
		{
			"event stream split mid event",
			[]string{"event: message-start\ndata: {\"a\":1}\n", "\nevent: content-delta\r\n", "data: {\"b\":2}\n\n"},
			[]string{"event: message-start\ndata: {\"a\":1}\n", "\nevent: content-delta\r\n", "data: {\"b\":2}\n\n"},
		},
		{
			"json lines split inside a record",
			[]string{`{"text":"On`, "ce\"}\n{\"text\":\" upon\"}\n"},
			[]string{`{"text":"On`, "ce\"}\n{\"text\":\" upon\"}\n"},
		},
		{"blank lines kept", []string{"\n", "\n\n", "a\n"}, []string{"\n", "\n\n", "a\n"}},
		{"empty reads skipped", []string{"", "a", "", "b"}, []string{"a", "b"}},
		{"empty body", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := collect(t, newSegmentReader(tt.segments...))
			assert.Equal(t, tt.want, chunks)
			assert.Equal(t, strings.Join(tt.segments, ""), strings.Join(chunks, ""))
		})
	}
}

func TestConsumeOneByteReads(t *testing.T) {
	body := "event: message-start\ndata: {\"a\":1}\n\nevent: content-delta\r\ndata: {\"b\":2}\n\n"
	chunks := collect(t, iotest.OneByteReader(strings.NewReader(body)))

	assert.Len(t, chunks, len(body))
	assert.Equal(t, body, strings.Join(chunks, ""))
}

func TestConsumeDataWithEOF(t *testing.T) {
	chunks := collect(t, iotest.DataErrReader(strings.NewReader("last\n")))
	assert.Equal(t, "last\n", strings.Join(chunks, ""))
}

func TestConsumeLargeRead(t *testing.T) {
	body := strings.Repeat("x", streamBufferSize+10)
	chunks := collect(t, strings.NewReader(body))

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], streamBufferSize)
	assert.Equal(t, body, strings.Join(chunks, ""))
}

func TestConsumeChunksAreCopies(t *testing.T) {
	var kept [][]byte
	call := &Call{
		Operation: mustOp(t, OpGenerate),
		Handler: func(chunk []byte) error {
			kept = append(kept, chunk)
			return nil
		},
	}
	require.NoError(t, consume(context.Background(), call, newSegmentReader("first", "second")))

	require.Len(t, kept, 2)
	assert.Equal(t, "first", string(kept[0]))
	assert.Equal(t, "second", string(kept[1]))
}

func TestConsumeReadError(t *testing.T) {
	call := &Call{Operation: mustOp(t, OpGenerate), Handler: func([]byte) error { return nil }}
	errBroken := errors.New("connection reset")

	body := io.MultiReader(strings.NewReader("first\n"), iotest.ErrReader(errBroken))
	err := consume(context.Background(), call, body)

	var readErr errStreamRead
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, 1, call.Chunks)
}

func TestConsumeStopsOnHandlerError(t *testing.T) {
	errStop := errors.New("stop")
	var seen []string
	call := &Call{
		Operation: mustOp(t, OpChat),
		Handler: func(chunk []byte) error {
			seen = append(seen, string(chunk))
			if len(seen) == 2 {
				return errStop
			}
			return nil
		},
	}

	err := consume(context.Background(), call, newSegmentReader("one\n", "two\n", "three\n"))
	assert.Equal(t, errStop, err)
	assert.Equal(t, []string{"one\n", "two\n"}, seen)
	assert.Equal(t, 2, call.Chunks)
}

func TestWantsStream(t *testing.T) {
	handler := func([]byte) error { return nil }

	assert.True(t, wantsStream(mustOp(t, OpChat), &Call{Handler: handler}))
	assert.True(t, wantsStream(mustOp(t, OpGenerate), &Call{Stream: true}))
	assert.False(t, wantsStream(mustOp(t, OpChatV1), &Call{}))
	assert.False(t, wantsStream(mustOp(t, OpEmbed), &Call{Handler: handler, Stream: true}))
}
