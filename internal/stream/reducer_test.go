package stream

import "testing"

// TestReduceMetadataOverwrites verifies a second metadata event replaces
// the first wholesale.
func TestReduceMetadataOverwrites(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindMetadata, Metadata: &Metadata{
		RubricID:    "rubric-1",
		StudentName: "Ada",
		Filename:    "midterm.pdf",
		TotalPages:  3,
	}})
	state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "x"})
	state = Reduce(state, Event{Kind: KindMetadata, Metadata: &Metadata{
		RubricID: "rubric-2",
	}})

	if state.Metadata.RubricID != "rubric-2" {
		t.Fatalf("expected rubric-2, got %s", state.Metadata.RubricID)
	}
	if state.Metadata.StudentName != "" || state.Metadata.TotalPages != 0 {
		t.Fatalf("expected stale metadata fields cleared, got %+v", state.Metadata)
	}
	if state.Pages.Len() != 1 {
		t.Fatalf("metadata must not clear page states, got %d pages", state.Pages.Len())
	}
}

// TestReducePhaseNeverRegresses verifies the session phase visits only a
// subsequence of loading, transcribing, verifying, done.
func TestReducePhaseNeverRegresses(t *testing.T) {
	updates := []PhaseUpdate{
		{Phase: PhaseTranscribing, CurrentPage: 1, TotalPages: 2, Message: "page 1"},
		{Phase: PhaseVerifying, CurrentPage: 1, TotalPages: 2, Message: "checking"},
		{Phase: PhaseTranscribing, CurrentPage: 2, TotalPages: 2, Message: "regression"},
		{Phase: PhaseLoading, Message: "regression"},
	}
	state := NewState()
	for i := range updates {
		state = Reduce(state, Event{Kind: KindPhase, PhaseUpdate: &updates[i]})
	}
	if state.Phase != PhaseVerifying {
		t.Fatalf("expected verifying, got %s", state.Phase)
	}
	if state.PhaseMessage != "checking" {
		t.Fatalf("regressive phase update must be dropped wholesale, got message %q", state.PhaseMessage)
	}
}

// TestReduceRawChunkAccumulation verifies chunk appends and the wholesale
// replacement on raw-complete.
func TestReduceRawChunkAccumulation(t *testing.T) {
	state := NewState()
	for _, delta := range []string{"a", "b", "c"} {
		state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 2, Delta: delta})
	}
	page, ok := state.Pages.Get(2)
	if !ok {
		t.Fatalf("expected page 2 to be auto-created")
	}
	if page.RawText != "abc" {
		t.Fatalf("expected rawText abc, got %q", page.RawText)
	}
	if !page.Streaming || page.Phase != PageRaw {
		t.Fatalf("expected streaming raw page, got %+v", page)
	}

	state = Reduce(state, Event{Kind: KindRawComplete, PageNumber: 2, FullText: "xyz"})
	page, _ = state.Pages.Get(2)
	if page.RawText != "xyz" {
		t.Fatalf("raw-complete must replace, not append; got %q", page.RawText)
	}
	if page.Streaming {
		t.Fatalf("expected streaming=false after raw-complete")
	}
	if page.Phase != PageRaw {
		t.Fatalf("page phase must stay raw until verification, got %s", page.Phase)
	}
}

// TestReduceEmptyDeltaIsNoOp verifies empty chunk deltas change nothing.
func TestReduceEmptyDeltaIsNoOp(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: ""})
	if state.Pages.Len() != 0 {
		t.Fatalf("empty delta must not create a page")
	}
}

// TestReduceVerifiedChunkSetsVerifying verifies verified deltas flip the
// page phase.
func TestReduceVerifiedChunkSetsVerifying(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "raw"})
	state = Reduce(state, Event{Kind: KindVerifiedChunk, PageNumber: 1, Delta: "ver"})
	state = Reduce(state, Event{Kind: KindVerifiedChunk, PageNumber: 1, Delta: "ified"})
	page, _ := state.Pages.Get(1)
	if page.Phase != PageVerifying {
		t.Fatalf("expected verifying phase, got %s", page.Phase)
	}
	if page.VerifiedText != "verified" {
		t.Fatalf("expected verified text, got %q", page.VerifiedText)
	}
	if page.RawText != "raw" {
		t.Fatalf("verified chunks must not touch raw text, got %q", page.RawText)
	}
}

// TestReducePageCompleteFreezesPage verifies later chunks cannot alter a
// completed page.
func TestReducePageCompleteFreezesPage(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "text"})
	state = Reduce(state, Event{
		Kind:              KindPageComplete,
		PageNumber:        1,
		PageIndex:         0,
		MarkedText:        "<Q1>text",
		DetectedQuestions: []int{1},
		ConfidenceScores:  map[int]float64{1: 0.9},
	})
	state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "late"})
	state = Reduce(state, Event{Kind: KindVerifiedChunk, PageNumber: 1, Delta: "late"})
	state = Reduce(state, Event{Kind: KindPageComplete, PageNumber: 1, MarkedText: "<Q9>other"})

	page, _ := state.Pages.Get(1)
	if page.MarkedText != "<Q1>text" {
		t.Fatalf("marked text must be set once, got %q", page.MarkedText)
	}
	if page.RawText != "text" || page.VerifiedText != "" {
		t.Fatalf("completed page must be frozen, got %+v", page)
	}
	if page.Phase != PageComplete || page.Streaming {
		t.Fatalf("expected terminal page state, got %+v", page)
	}
}

// TestReducePageCompleteWithoutChunks verifies out-of-order completion is
// accepted by auto-creating the page.
func TestReducePageCompleteWithoutChunks(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindPageComplete, PageNumber: 4, MarkedText: "<Q2>late page"})
	page, ok := state.Pages.Get(4)
	if !ok || page.Phase != PageComplete {
		t.Fatalf("expected auto-created complete page, got %+v", page)
	}
}

// TestReducePagePreviewKeepsText verifies preview registration never
// touches transcription text.
func TestReducePagePreviewKeepsText(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 3, Delta: "body"})
	state = Reduce(state, Event{Kind: KindPage, Page: &PagePreview{PageNumber: 3, PageIndex: 2}})
	page, _ := state.Pages.Get(3)
	if page.RawText != "body" {
		t.Fatalf("preview must not touch text, got %q", page.RawText)
	}
	if page.PageIndex != 2 {
		t.Fatalf("expected page index 2, got %d", page.PageIndex)
	}
}

// TestReduceInsertionOrderPreserved verifies the page map keeps arrival
// order.
func TestReduceInsertionOrderPreserved(t *testing.T) {
	state := NewState()
	for _, number := range []int{3, 1, 2} {
		state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: number, Delta: "x"})
	}
	numbers := state.Pages.Numbers()
	want := []int{3, 1, 2}
	for i, number := range want {
		if numbers[i] != number {
			t.Fatalf("expected insertion order %v, got %v", want, numbers)
		}
	}
}

// TestReduceTerminalStates verifies no event mutates state after done or
// error.
func TestReduceTerminalStates(t *testing.T) {
	cases := []struct {
		name     string
		terminal Event
	}{
		{name: "done", terminal: Event{Kind: KindDone, TotalAnswers: 1}},
		{name: "error", terminal: Event{Kind: KindError, Message: "unreadable document"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := NewState()
			state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "a"})
			state = Reduce(state, tc.terminal)
			if !state.Terminal() {
				t.Fatalf("expected terminal state")
			}
			frozen := state
			state = Reduce(state, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "b"})
			state = Reduce(state, Event{Kind: KindAnswer, Answer: &Answer{Question: 1, Text: "late"}})
			page, _ := state.Pages.Get(1)
			if page.RawText != "a" {
				t.Fatalf("terminal state must reject chunks, got %q", page.RawText)
			}
			if len(state.Answers) != len(frozen.Answers) {
				t.Fatalf("terminal state must reject answers")
			}
		})
	}
}

// TestReduceAnswersAppendWithoutDedup verifies raw answers accumulate as
// received.
func TestReduceAnswersAppendWithoutDedup(t *testing.T) {
	state := NewState()
	state = Reduce(state, Event{Kind: KindAnswer, Answer: &Answer{Question: 3, Text: "print(i)", PageIndexes: []int{1}}})
	state = Reduce(state, Event{Kind: KindAnswer, Answer: &Answer{Question: 3, Text: "print(i)", PageIndexes: []int{2}}})
	if len(state.Answers) != 2 {
		t.Fatalf("expected both raw answers kept, got %d", len(state.Answers))
	}
}

// TestReducePurity verifies a reduced copy does not alias the input
// state's pages or answers.
func TestReducePurity(t *testing.T) {
	base := NewState()
	base = Reduce(base, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "a"})
	base = Reduce(base, Event{Kind: KindAnswer, Answer: &Answer{Question: 1, Text: "t", PageIndexes: []int{0}}})

	next := Reduce(base, Event{Kind: KindRawChunk, PageNumber: 1, Delta: "b"})
	next = Reduce(next, Event{Kind: KindAnswer, Answer: &Answer{Question: 2, Text: "u"}})

	page, _ := base.Pages.Get(1)
	if page.RawText != "a" {
		t.Fatalf("input state mutated: rawText %q", page.RawText)
	}
	if len(base.Answers) != 1 {
		t.Fatalf("input state mutated: %d answers", len(base.Answers))
	}
	if next.Answers[0].Question != 1 {
		t.Fatalf("unexpected answer order: %+v", next.Answers)
	}
}
