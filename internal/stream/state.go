package stream

import "sort"

// Phase is the global session progress marker.
type Phase string

const (
	PhaseLoading      Phase = "loading"
	PhaseTranscribing Phase = "transcribing"
	PhaseVerifying    Phase = "verifying"
	PhaseDone         Phase = "done"
)

// phaseRank orders phases for the monotonicity guard.
var phaseRank = map[Phase]int{
	PhaseLoading:      0,
	PhaseTranscribing: 1,
	PhaseVerifying:    2,
	PhaseDone:         3,
}

// PagePhase is the per-page transcription phase.
type PagePhase string

const (
	PageRaw       PagePhase = "raw"
	PageVerifying PagePhase = "verifying"
	PageComplete  PagePhase = "complete"
)

// PageState holds the transcription state for a single page. Text fields
// only grow while the page is streaming and freeze once the page is
// complete.
type PageState struct {
	Number            int
	PageIndex         int
	RawText           string
	VerifiedText      string
	MarkedText        string
	Phase             PagePhase
	Streaming         bool
	DetectedQuestions []int
	ConfidenceScores  map[int]float64
}

// Pages is an insertion-ordered map of page number to PageState. The zero
// value is an empty collection. Mutating methods return a new value so
// State keeps value semantics through Reduce.
type Pages struct {
	order    []int
	byNumber map[int]PageState
}

// Get returns the state for a page number.
func (p Pages) Get(number int) (PageState, bool) {
	page, ok := p.byNumber[number]
	return page, ok
}

// Len returns the number of registered pages.
func (p Pages) Len() int {
	return len(p.order)
}

// Numbers returns the page numbers in insertion order.
func (p Pages) Numbers() []int {
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}

// All returns the page states in insertion order.
func (p Pages) All() []PageState {
	out := make([]PageState, 0, len(p.order))
	for _, number := range p.order {
		out = append(out, p.byNumber[number])
	}
	return out
}

// InPageOrder returns the page states sorted by page number.
func (p Pages) InPageOrder() []PageState {
	out := p.All()
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// set returns a copy of the collection with the page inserted or replaced.
func (p Pages) set(page PageState) Pages {
	byNumber := make(map[int]PageState, len(p.byNumber)+1)
	for number, existing := range p.byNumber {
		byNumber[number] = existing
	}
	_, known := byNumber[page.Number]
	byNumber[page.Number] = page
	order := p.order
	if !known {
		order = make([]int, 0, len(p.order)+1)
		order = append(order, p.order...)
		order = append(order, page.Number)
	}
	return Pages{order: order, byNumber: byNumber}
}

// State is the full session state folded from the event stream. One State
// exists per grading attempt; the controller owns it exclusively.
type State struct {
	Metadata     Metadata
	Phase        Phase
	CurrentPage  int
	TotalPages   int
	PhaseMessage string
	Pages        Pages
	Answers      []Answer
	Error        string
	Complete     bool
}

// NewState returns the pre-session initial state.
func NewState() State {
	return State{Phase: PhaseLoading}
}

// Terminal reports whether the session can accept further events.
func (s State) Terminal() bool {
	return s.Complete || s.Error != ""
}
