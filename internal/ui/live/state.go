package live

import (
	"time"

	"gradescribe/internal/stream"
)

// PageRow holds UI state for a single page.
type PageRow struct {
	Number    int
	Phase     stream.PagePhase
	Streaming bool
	Chars     int
	Questions []int
	MinScore  float64
	HasScore  bool
}

// StatusCounts aggregates page counts by phase bucket.
type StatusCounts struct {
	Raw       int
	Verifying int
	Complete  int
	Streaming int
}

// State captures the live UI state for a transcription session.
type State struct {
	Stream    stream.State
	StartedAt time.Time
	LastEvent string
	Rows      []PageRow
	Counts    StatusCounts
	Answers   int
	Ended     bool
}
