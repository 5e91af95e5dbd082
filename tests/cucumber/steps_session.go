package cucumber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gradescribe/internal/session"
	"gradescribe/internal/vision"
)

const sessionTimeout = 10 * time.Second

// iTranscribeTheExam streams the scripted payloads through a full session
// and captures the terminal state.
func (s *featureState) iTranscribeTheExam() error {
	if s.server == nil {
		return fmt.Errorf("no transcription service was scripted")
	}

	client := vision.NewClient(s.server.URL, "", nil)
	controller := session.New(session.OpenerFunc(client.Open))

	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	handle, err := controller.Start(ctx, session.Request{
		RubricID: "midterm",
		Filename: "scan.pdf",
		File:     strings.NewReader("fake scan"),
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	select {
	case <-handle.Done():
	case <-ctx.Done():
		handle.Abort()
		return fmt.Errorf("session did not finish within %s", sessionTimeout)
	}

	s.finalState = controller.State()
	s.started = true
	return nil
}

// theSessionCompletes asserts the session reached the complete state.
func (s *featureState) theSessionCompletes() error {
	if !s.started {
		return fmt.Errorf("no session was run")
	}
	if s.finalState.Error != "" {
		return fmt.Errorf("session failed: %s", s.finalState.Error)
	}
	if !s.finalState.Complete {
		return fmt.Errorf("session did not complete")
	}
	return nil
}

// theSessionFailsWith asserts the session failed with a matching message.
func (s *featureState) theSessionFailsWith(fragment string) error {
	if !s.started {
		return fmt.Errorf("no session was run")
	}
	if s.finalState.Error == "" {
		return fmt.Errorf("session did not fail")
	}
	if !strings.Contains(s.finalState.Error, fragment) {
		return fmt.Errorf("error %q does not mention %q", s.finalState.Error, fragment)
	}
	return nil
}
