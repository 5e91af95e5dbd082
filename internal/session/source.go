// Package session owns one live transcription review session: it bridges
// the event stream source to the state reducer, applies events strictly in
// arrival order, and exposes start/abort/reset.
package session

import (
	"context"
	"io"

	"gradescribe/internal/stream"
)

// Source delivers an ordered sequence of transcription events over an
// abortable connection. Recv returns io.EOF when the stream ends.
type Source interface {
	Recv() (stream.Event, error)
	Close() error
}

// Opener establishes a streaming connection for a transcription request.
type Opener interface {
	Open(ctx context.Context, req Request) (Source, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, req Request) (Source, error)

// Open calls the wrapped function.
func (f OpenerFunc) Open(ctx context.Context, req Request) (Source, error) {
	return f(ctx, req)
}

// Options restricts how the service transcribes the uploaded file.
type Options struct {
	// FirstPageIndex is the index of the first page to transcribe.
	FirstPageIndex int
	// AnsweredQuestions optionally restricts the expected question set.
	AnsweredQuestions []int
}

// Request describes one transcription attempt for one test file.
type Request struct {
	RubricID string
	Filename string
	File     io.Reader
	Options  Options
}
