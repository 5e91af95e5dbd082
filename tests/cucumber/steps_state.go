package cucumber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/cucumber/godog"

	"gradescribe/internal/stream"
)

// featureState holds scenario state for transcription session tests.
type featureState struct {
	payloads   []string
	server     *httptest.Server
	finalState stream.State
	started    bool
}

// InitializeScenario wires cucumber steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a transcription service that streams:$`, state.aTranscriptionServiceThatStreams)
	ctx.Step(`^I transcribe the exam$`, state.iTranscribeTheExam)
	ctx.Step(`^the session completes$`, state.theSessionCompletes)
	ctx.Step(`^the session fails with "([^"]+)"$`, state.theSessionFailsWith)
	ctx.Step(`^page (\d+) is complete$`, state.pageIsComplete)
	ctx.Step(`^the merged answers are:$`, state.theMergedAnswersAre)
}

// reset clears scenario state before each run.
func (s *featureState) reset() {
	s.payloads = nil
	s.server = nil
	s.finalState = stream.NewState()
	s.started = false
}

// cleanup stops the scripted service after each scenario.
func (s *featureState) cleanup() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
	}
}

// aTranscriptionServiceThatStreams scripts the service with one event
// payload per docstring line.
func (s *featureState) aTranscriptionServiceThatStreams(doc *godog.DocString) error {
	for _, line := range strings.Split(doc.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.payloads = append(s.payloads, line)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, payload := range s.payloads {
			if _, err := w.Write([]byte("data: " + payload + "\n\n")); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	return nil
}
