package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// SSEServer serves a scripted server-sent-event stream. Each payload is
// written as one "data:" line; the handler flushes after every event so
// clients observe incremental delivery.
func SSEServer(t testing.TB, payloads []string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, payload := range payloads {
			if _, err := w.Write([]byte("data: " + payload + "\n\n")); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}
