package sse

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func providerFrames(frames ...string) io.Reader {
	return strings.NewReader(strings.Join(frames, "\n") + "\n")
}

func clientEvents(t *testing.T, body string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev map[string]any
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("client frame is not JSON: %q", line)
		}
		events = append(events, ev)
	}
	return events
}

func TestRelayAccumulatesAndReframes(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}

	upstream := providerFrames(
		`data: {"choices":[{"delta":{"content":"Hello"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":" world"}}]}`,
		`: keep-alive comment`,
		`data: {"choices":[{"delta":{}}]}`,
		`data: [DONE]`,
	)

	full, err := Relay(sw, upstream)
	if err != nil {
		t.Fatal(err)
	}
	if full != "Hello world" {
		t.Errorf("accumulated = %q, want %q", full, "Hello world")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	events := clientEvents(t, rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("client events = %d, want 2", len(events))
	}
	if events[0]["content"] != "Hello" || events[1]["content"] != " world" {
		t.Errorf("unexpected deltas: %v", events)
	}
}

func TestRelayProviderErrorFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}

	upstream := providerFrames(
		`data: {"choices":[{"delta":{"content":"partial"}}]}`,
		`data: {"error":{"message":"rate limited"}}`,
	)

	full, err := Relay(sw, upstream)
	if err == nil {
		t.Fatal("expected error from provider error frame")
	}
	if full != "partial" {
		t.Errorf("partial text = %q, want %q", full, "partial")
	}

	events := clientEvents(t, rec.Body.String())
	last := events[len(events)-1]
	if last["type"] != "error" {
		t.Errorf("last client event = %v, want in-band error", last)
	}
}

type failingReader struct {
	data string
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("connection reset")
}

func TestRelayUpstreamReadFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}

	upstream := &failingReader{data: "data: {\"choices\":[{\"delta\":{\"content\":\"some text\"}}]}\n"}

	full, err := Relay(sw, upstream)
	if err == nil {
		t.Fatal("expected read error")
	}
	if full != "some text" {
		t.Errorf("partial text = %q, want %q", full, "some text")
	}
}

func TestRelayEndsWithoutDoneMarker(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}

	upstream := providerFrames(`data: {"choices":[{"delta":{"content":"tail"}}]}`)

	full, err := Relay(sw, upstream)
	if err != nil {
		t.Fatal(err)
	}
	if full != "tail" {
		t.Errorf("accumulated = %q, want %q", full, "tail")
	}
}

func TestWriteEventDoneFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatal(err)
	}

	if err := sw.WriteEvent(DoneEvent{Done: true, ReportID: "abc"}); err != nil {
		t.Fatal(err)
	}

	events := clientEvents(t, rec.Body.String())
	if len(events) != 1 || events[0]["done"] != true || events[0]["report_id"] != "abc" {
		t.Errorf("done frame = %v", events)
	}
}
