package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client-facing event framing:
//
//	data: {"content":"..."}                  one token delta
//	data: {"type":"error","error":"..."}     mid-stream failure
//	data: {"done":true,...}                  terminal, written by the caller
const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// scanBufSize must fit the largest single provider frame.
const scanBufSize = 1 << 20

// Writer frames JSON payloads as server-sent events and flushes after
// every event so tokens reach the browser as they arrive.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	return &Writer{w: w, flusher: flusher}, nil
}

// WriteEvent sends one SSE data frame and flushes.
func (sw *Writer) WriteEvent(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal sse event: %w", err)
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write sse event: %w", err)
	}
	sw.flusher.Flush()
	return nil
}

type deltaEvent struct {
	Content string `json:"content"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// DoneEvent is the terminal frame. Callers attach entity ids and
// citations before sending it.
type DoneEvent struct {
	Done      bool   `json:"done"`
	ReportID  string `json:"report_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Sources   any    `json:"sources,omitempty"`
}

// providerChunk is the shape of one upstream completion frame.
type providerChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Relay copies provider deltas to the client until the [DONE] marker,
// returning the accumulated full text. On a mid-stream failure the
// partial text is returned along with the error; the caller decides
// whether to persist it. The error is also reported to the client
// in-band because the 200 header is already out.
func Relay(sw *Writer, upstream io.Reader) (string, error) {
	var full strings.Builder

	scanner := bufio.NewScanner(upstream)
	scanner.Buffer(make([]byte, 64*1024), scanBufSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, dataPrefix)
		if payload == doneMarker {
			return full.String(), nil
		}

		var chunk providerChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Comment frames and keep-alives are not JSON; skip them.
			continue
		}
		if chunk.Error != nil {
			err := fmt.Errorf("provider stream error: %s", chunk.Error.Message)
			_ = sw.WriteEvent(errorEvent{Type: "error", Error: "generation interrupted"})
			return full.String(), err
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			full.WriteString(choice.Delta.Content)
			if err := sw.WriteEvent(deltaEvent{Content: choice.Delta.Content}); err != nil {
				// Client went away; stop reading the provider.
				return full.String(), err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		_ = sw.WriteEvent(errorEvent{Type: "error", Error: "generation interrupted"})
		return full.String(), fmt.Errorf("provider stream read failed: %w", err)
	}
	// Stream ended without [DONE]; treat accumulated text as complete.
	return full.String(), nil
}
