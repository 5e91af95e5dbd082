package stream

// EventKind identifies a transcription stream event.
type EventKind string

const (
	// KindMetadata carries session metadata for the document under review.
	KindMetadata EventKind = "metadata"
	// KindPage registers a page preview entry.
	KindPage EventKind = "page"
	// KindPhase updates the global session phase and progress counters.
	KindPhase EventKind = "phase"
	// KindRawChunk appends a raw transcription delta to a page.
	KindRawChunk EventKind = "raw_chunk"
	// KindRawComplete replaces a page's raw text with the full transcription.
	KindRawComplete EventKind = "raw_complete"
	// KindVerifiedChunk appends a verified transcription delta to a page.
	KindVerifiedChunk EventKind = "verified_chunk"
	// KindPageComplete delivers the final annotated text for a page.
	KindPageComplete EventKind = "page_complete"
	// KindAnswer delivers a raw answer record.
	KindAnswer EventKind = "answer"
	// KindDone marks the session complete.
	KindDone EventKind = "done"
	// KindError reports a terminal upstream failure.
	KindError EventKind = "error"
)

// Metadata describes the document being transcribed.
type Metadata struct {
	RubricID    string
	StudentName string
	Filename    string
	TotalPages  int
}

// PagePreview correlates a page number with its thumbnail index.
type PagePreview struct {
	PageNumber int
	PageIndex  int
}

// PhaseUpdate carries a global progress update.
type PhaseUpdate struct {
	Phase       Phase
	CurrentPage int
	TotalPages  int
	Message     string
}

// Answer is a raw answer record as delivered by the transcription service.
type Answer struct {
	Question    int
	SubQuestion string
	Text        string
	Confidence  float64
	PageIndexes []int
	Notes       string
}

// Event is a tagged transcription stream event. Kind selects which of the
// remaining fields are meaningful.
type Event struct {
	Kind EventKind

	Metadata    *Metadata
	Page        *PagePreview
	PhaseUpdate *PhaseUpdate
	Answer      *Answer

	// Page-scoped payloads for raw/verified/complete events.
	PageNumber        int
	Delta             string
	FullText          string
	PageIndex         int
	MarkedText        string
	DetectedQuestions []int
	ConfidenceScores  map[int]float64

	// Done and Error payloads.
	TotalAnswers int
	Message      string
}
