package sse

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerNotFlusher struct{}

func (w writerNotFlusher) Header() http.Header       { return make(http.Header) }
func (w writerNotFlusher) Write([]byte) (int, error) { return 0, errors.New("not implemented") }
func (w writerNotFlusher) WriteHeader(int)           {}

func TestNewWriterWithoutFlusher(t *testing.T) {
	_, err := NewWriter(writerNotFlusher{})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestNewWriterHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	_, err := NewWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
}

func TestWriteEventFraming(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteEvent(map[string]any{"chunk": "abc", "done": false}))

	assert.Equal(t, "data: {\"chunk\":\"abc\",\"done\":false}\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestWriteEventSequential(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteEvent(map[string]string{"a": "1"}))
	require.NoError(t, w.WriteEvent(map[string]string{"b": "2"}))

	assert.Equal(t, "data: {\"a\":\"1\"}\n\ndata: {\"b\":\"2\"}\n\n", rec.Body.String())
}

func TestWriteComment(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteComment("keep-alive"))
	assert.Equal(t, ": keep-alive\n\n", rec.Body.String())
}
