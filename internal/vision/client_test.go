package vision

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gradescribe/internal/session"
	"gradescribe/internal/stream"
	"gradescribe/internal/testutil"
)

// openStream connects a client to a scripted SSE server.
func openStream(t *testing.T, payloads []string) session.Source {
	t.Helper()
	server := testutil.SSEServer(t, payloads)
	client := NewClient(server.URL, "test-key", nil)
	source, err := client.Open(testutil.Context(t, 2*time.Second), session.Request{
		RubricID: "rubric-1",
		Filename: "exam.pdf",
		File:     strings.NewReader("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })
	return source
}

// drain reads every event until EOF.
func drain(t *testing.T, source session.Source) []stream.Event {
	t.Helper()
	var events []stream.Event
	for {
		event, err := source.Recv()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		events = append(events, event)
	}
}

// TestOpenDecodesEventSequence verifies the full wire taxonomy decodes in
// order.
func TestOpenDecodesEventSequence(t *testing.T) {
	source := openStream(t, []string{
		`{"type":"metadata","metadata":{"rubric_id":"rubric-1","student_name":"Ada","filename":"exam.pdf","total_pages":2}}`,
		`{"type":"phase","phase":"transcribing","current_page":1,"total_pages":2,"message":"page 1 of 2"}`,
		`{"type":"page","page_number":1,"page_index":0}`,
		`{"type":"raw_chunk","page_number":1,"delta":"def f"}`,
		`{"type":"raw_complete","page_number":1,"full_text":"def foo(): pass"}`,
		`{"type":"verified_chunk","page_number":1,"delta":"def foo(): pass"}`,
		`{"type":"page_complete","page_number":1,"page_index":0,"marked_text":"<Q1>def foo(): pass","detected_questions":[1],"confidence_scores":{"1":0.9}}`,
		`{"type":"answer","answer":{"question_number":1,"sub_question_id":null,"answer_text":"def foo(): pass","confidence":0.9,"page_indexes":[0],"transcription_notes":""}}`,
		`{"type":"done","total_answers":1}`,
		`[DONE]`,
	})

	events := drain(t, source)
	wantKinds := []stream.EventKind{
		stream.KindMetadata,
		stream.KindPhase,
		stream.KindPage,
		stream.KindRawChunk,
		stream.KindRawComplete,
		stream.KindVerifiedChunk,
		stream.KindPageComplete,
		stream.KindAnswer,
		stream.KindDone,
	}
	if len(events) != len(wantKinds) {
		t.Fatalf("expected %d events, got %d", len(wantKinds), len(events))
	}
	for i, kind := range wantKinds {
		if events[i].Kind != kind {
			t.Fatalf("event %d: expected %s, got %s", i, kind, events[i].Kind)
		}
	}
	if events[0].Metadata.StudentName != "Ada" {
		t.Fatalf("unexpected metadata: %+v", events[0].Metadata)
	}
	if events[6].ConfidenceScores[1] != 0.9 {
		t.Fatalf("expected decoded confidence scores, got %+v", events[6].ConfidenceScores)
	}
	if events[7].Answer.SubQuestion != "" {
		t.Fatalf("null sub-question must decode to empty, got %q", events[7].Answer.SubQuestion)
	}
}

// TestOpenDecodesSubQuestionID verifies non-null sub-question ids survive.
func TestOpenDecodesSubQuestionID(t *testing.T) {
	source := openStream(t, []string{
		`{"type":"answer","answer":{"question_number":2,"sub_question_id":"b","answer_text":"x=1","confidence":0.5,"page_indexes":[1]}}`,
	})
	events := drain(t, source)
	if len(events) != 1 || events[0].Answer.SubQuestion != "b" {
		t.Fatalf("expected sub-question b, got %+v", events)
	}
}

// TestRecvRejectsUnknownEventType verifies strict decoding of the event
// taxonomy.
func TestRecvRejectsUnknownEventType(t *testing.T) {
	source := openStream(t, []string{`{"type":"surprise"}`})
	if _, err := source.Recv(); err == nil || !strings.Contains(err.Error(), "unknown stream event type") {
		t.Fatalf("expected unknown-type error, got %v", err)
	}
}

// TestOpenSendsUploadForm verifies rubric id, options, and file reach the
// service as a multipart form with SSE negotiated.
func TestOpenSendsUploadForm(t *testing.T) {
	var gotRubric, gotOptions, gotFile, gotAccept, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotRubric = r.FormValue("rubric_id")
		gotOptions = r.FormValue("options")
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			payload, _ := io.ReadAll(file)
			gotFile = string(payload)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "secret", nil)
	source, err := client.Open(context.Background(), session.Request{
		RubricID: "rubric-9",
		Filename: "exam.pdf",
		File:     strings.NewReader("scan-bytes"),
		Options:  session.Options{FirstPageIndex: 2, AnsweredQuestions: []int{1, 3}},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer source.Close()
	if _, err := source.Recv(); err != io.EOF {
		t.Fatalf("expected EOF sentinel, got %v", err)
	}

	if gotRubric != "rubric-9" {
		t.Fatalf("expected rubric id, got %q", gotRubric)
	}
	if !strings.Contains(gotOptions, `"first_page_index":2`) || !strings.Contains(gotOptions, `"answered_questions":[1,3]`) {
		t.Fatalf("unexpected options payload %q", gotOptions)
	}
	if gotFile != "scan-bytes" {
		t.Fatalf("expected file payload, got %q", gotFile)
	}
	if gotAccept != "text/event-stream" || gotAuth != "Bearer secret" {
		t.Fatalf("unexpected headers accept=%q auth=%q", gotAccept, gotAuth)
	}
}

// TestOpenSurfacesServiceError verifies non-2xx responses fail the open.
func TestOpenSurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rubric not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "", nil)
	_, err := client.Open(context.Background(), session.Request{RubricID: "missing", File: strings.NewReader("x")})
	if err == nil || !strings.Contains(err.Error(), "rubric not found") {
		t.Fatalf("expected service error, got %v", err)
	}
}

// TestOpenRequiresFile verifies the request validation.
func TestOpenRequiresFile(t *testing.T) {
	client := NewClient("", "", nil)
	if _, err := client.Open(context.Background(), session.Request{RubricID: "r"}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
