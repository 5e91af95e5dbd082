package vision

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"gradescribe/internal/stream"
)

// sseStream decodes server-sent events into transcription events one at a
// time, so page updates surface while the response is still arriving.
type sseStream struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	closeOnce sync.Once
}

func newSSEStream(body io.ReadCloser) *sseStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{body: body, scanner: scanner}
}

// Recv returns the next event, or io.EOF at the end of the stream.
func (s *sseStream) Recv() (stream.Event, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return stream.Event{}, io.EOF
		}
		return decodeEvent([]byte(data))
	}
	if err := s.scanner.Err(); err != nil {
		return stream.Event{}, err
	}
	return stream.Event{}, io.EOF
}

// Close releases the underlying response body. Safe to call repeatedly.
func (s *sseStream) Close() error {
	s.closeOnce.Do(func() { _ = s.body.Close() })
	return nil
}
