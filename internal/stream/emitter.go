// Package stream delivers a generated campaign document to a client as an
// ordered sequence of fixed-size chunks at a fixed cadence, followed by one
// terminal frame carrying the complete document.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/campaignstream/backend/internal/campaign"
)

// Frame is one message on the push channel. Non-terminal frames carry a
// slice of the serialized document; the terminal frame has an empty chunk,
// done set, and the complete document attached.
type Frame struct {
	Chunk    string             `json:"chunk"`
	Done     bool               `json:"done"`
	Complete *campaign.Document `json:"complete,omitempty"`
}

// FrameWriter is the transport half of a stream: something that can deliver
// one framed message to the client. Implementations are SSE responses and
// websocket connections; tests use in-memory collectors.
type FrameWriter interface {
	WriteFrame(f Frame) error
}

// Serialize produces the pretty-printed form of the document that will be
// streamed chunk by chunk. It runs once, before any channel opens, so a
// document that cannot be serialized never results in a partial stream.
func Serialize(doc *campaign.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return data, nil
}

// Emitter holds the cosmetic streaming parameters. Both only shape the
// typing effect; correctness does not depend on their values.
type Emitter struct {
	ChunkSize    int
	TickInterval time.Duration
}

func NewEmitter(chunkSize int, tick time.Duration) *Emitter {
	return &Emitter{ChunkSize: chunkSize, TickInterval: tick}
}

// Stream writes serialized to w in ChunkSize pieces, one per tick, then one
// terminal frame with the complete document. It returns nil after the
// terminal frame is delivered. If ctx is cancelled first (client gone), it
// stops immediately with ctx.Err(): no further chunks, no terminal frame.
// The per-connection state (cursor, ticker) lives entirely on this
// goroutine's stack, so cancellation can never race an in-flight tick.
func (e *Emitter) Stream(ctx context.Context, w FrameWriter, doc *campaign.Document, serialized []byte) error {
	ticker := time.NewTicker(e.TickInterval)
	defer ticker.Stop()

	for cursor := 0; cursor < len(serialized); {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		// A tick and a disconnect can become ready together; the
		// disconnect always wins, so nothing is emitted past it.
		if err := ctx.Err(); err != nil {
			return err
		}

		end := chunkEnd(serialized, cursor, e.ChunkSize)
		if err := w.WriteFrame(Frame{Chunk: string(serialized[cursor:end])}); err != nil {
			return err
		}
		cursor = end
	}

	// Same rule between the last chunk and the terminal frame: a client
	// that already disconnected gets cleanup, not a send attempt.
	if err := ctx.Err(); err != nil {
		return err
	}

	return w.WriteFrame(Frame{Chunk: "", Done: true, Complete: doc})
}

// chunkEnd returns the end offset of the next chunk, at most size bytes past
// cursor but never inside a multi-byte rune: each chunk must be a valid UTF-8
// string on its own, or JSON encoding on the transport would rewrite the
// split rune as replacement characters and break exact reassembly.
func chunkEnd(serialized []byte, cursor, size int) int {
	end := cursor + size
	if end >= len(serialized) {
		return len(serialized)
	}
	for end > cursor && !utf8.RuneStart(serialized[end]) {
		end--
	}
	if end == cursor {
		// The rune at cursor is wider than the chunk size; it has to
		// travel whole.
		_, n := utf8.DecodeRune(serialized[cursor:])
		end = cursor + n
	}
	return end
}
