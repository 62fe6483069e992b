// Package sse writes server-sent events for a single HTTP connection. Unlike
// broker-style SSE libraries there is no pub/sub layer here: each response
// belongs to exactly one request and frames are written by its handler.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrStreamingUnsupported = errors.New("http.ResponseWriter does not implement http.Flusher")

// Writer emits JSON events on an event-stream response. Not safe for
// concurrent use; a stream is owned by a single goroutine.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter switches the response into streaming mode: sets the event-stream
// headers and verifies the writer can be flushed. Nothing is written to the
// body yet, so callers can still bail out with a plain error response if
// needed before the first event.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	return &Writer{w: w, flusher: flusher}, nil
}

// WriteEvent marshals v to JSON and writes it as a single `data:` frame,
// flushing immediately so intermediaries pass it through.
func (s *Writer) WriteEvent(v any) error {
	if _, err := fmt.Fprint(s.w, "data: "); err != nil {
		return err
	}
	// json.Encoder terminates the object with a single newline; one more
	// closes the SSE frame.
	if err := json.NewEncoder(s.w).Encode(v); err != nil {
		return err
	}
	if _, err := fmt.Fprint(s.w, "\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteComment emits an SSE comment line, useful as a keep-alive.
func (s *Writer) WriteComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
