package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush,
// which makes server-sent events impossible.
var ErrStreamingUnsupported = errors.New("response writer does not support streaming")

// Writer emits server-sent event frames of the form
//
//	event: <type>\n
//	data: <json>\n
//	\n
//
// flushing after every frame so the client sees tokens as they arrive.
type Writer struct {
	w  http.ResponseWriter
	fl http.Flusher
}

// NewWriter prepares the response for event streaming and sets the SSE
// headers. It must be called before anything is written to w.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	fl, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	return &Writer{w: w, fl: fl}, nil
}

// Send writes one frame. A write error means the client went away; callers
// should stop streaming.
func (s *Writer) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.fl.Flush()
	return nil
}
