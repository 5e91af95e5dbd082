package live

import (
	"strconv"
	"strings"

	"gradescribe/internal/stream"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatPageNumber returns the display label for a page row.
func formatPageNumber(number int) string {
	return "p" + fmtInt(number)
}

// formatPageStatus renders the status cell for a page row.
func formatPageStatus(row PageRow) string {
	label := pagePhaseLabel(row.Phase)
	if row.Streaming {
		label += " *"
	}
	return label
}

// pagePhaseLabel maps page phases to display labels.
func pagePhaseLabel(phase stream.PagePhase) string {
	switch phase {
	case stream.PageRaw:
		return "transcribing"
	case stream.PageVerifying:
		return "verifying"
	case stream.PageComplete:
		return "complete"
	default:
		return string(phase)
	}
}

// formatPhase maps session phases to display labels.
func formatPhase(phase stream.Phase) string {
	switch phase {
	case stream.PhaseLoading:
		return "loading"
	case stream.PhaseTranscribing:
		return "transcribing"
	case stream.PhaseVerifying:
		return "verifying"
	case stream.PhaseDone:
		return "done"
	default:
		return string(phase)
	}
}

// formatQuestions renders the detected question list for a page.
func formatQuestions(questions []int) string {
	if len(questions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(questions))
	for _, question := range questions {
		parts = append(parts, "Q"+fmtInt(question))
	}
	return strings.Join(parts, " ")
}

// formatConfidence renders the lowest confidence score for a page.
func formatConfidence(row PageRow) string {
	if !row.HasScore {
		return ""
	}
	return strconv.FormatFloat(row.MinScore, 'f', 2, 64)
}
