// Package sse writes server-sent events over an http.ResponseWriter.
package sse

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"time"
)

// writeTimeout bounds a single event write. It is pushed forward per
// event so long-lived streams survive a server-level WriteTimeout.
const writeTimeout = 10 * time.Second

// Writer streams events to one client.
type Writer struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewWriter prepares the response for event streaming and returns a
// Writer. Headers are written immediately.
func NewWriter(w http.ResponseWriter) *Writer {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Tell buffering reverse proxies to pass events through as-is.
	w.Header().Set("X-Accel-Buffering", "no")

	return &Writer{w: w, rc: http.NewResponseController(w)}
}

// SendJSON writes one event whose data is the JSON encoding of v and
// flushes it to the client.
func (s *Writer) SendJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return s.send(payload)
}

// SendDone writes the terminal [DONE] event.
func (s *Writer) SendDone() error {
	return s.send([]byte("[DONE]"))
}

func (s *Writer) send(data []byte) error {
	// Ignore the error: not every ResponseWriter supports deadlines
	// (httptest.ResponseRecorder does not).
	_ = s.rc.SetWriteDeadline(time.Now().Add(writeTimeout))

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("flushing event: %w", err)
	}
	return nil
}
