package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the session header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	metadata := state.Stream.Metadata
	line := "Transcribing"
	if metadata.StudentName != "" {
		line += " " + metadata.StudentName
	}
	if metadata.Filename != "" {
		line += " | " + metadata.Filename
	}
	if metadata.RubricID != "" {
		line += " | Rubric: " + metadata.RubricID
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the page counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Pages: " + fmtInt(len(state.Rows)) +
		" Raw: " + fmtInt(counts.Raw) +
		" Verifying: " + fmtInt(counts.Verifying) +
		" Complete: " + fmtInt(counts.Complete) +
		" Streaming: " + fmtInt(counts.Streaming) +
		" Answers: " + fmtInt(state.Answers)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderPhaseLine renders the global phase and progress line.
func renderPhaseLine(state State, noColor bool) string {
	line := "Phase: " + formatPhase(state.Stream.Phase)
	if state.Stream.TotalPages > 0 {
		line += " | Page " + fmtInt(state.Stream.CurrentPage) + "/" + fmtInt(state.Stream.TotalPages)
	}
	if state.Stream.PhaseMessage != "" {
		line += " | " + state.Stream.PhaseMessage
	}
	return stylize(line, noColor, lipgloss.Color("240"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.Stream.Error != "" {
		return stylize("Failed: "+state.Stream.Error, noColor, lipgloss.Color("196"))
	}
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
