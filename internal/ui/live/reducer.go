package live

import (
	"fmt"

	"gradescribe/internal/assemble"
	"gradescribe/internal/stream"
)

// Reduce applies a session update to the UI state.
func Reduce(state State, update Update) State {
	state.Stream = update.State
	state.Rows = rowsFromStream(update.State)
	state.Counts = recount(state.Rows)
	state.Answers = len(update.State.Answers)
	if update.Kind == UpdateSessionEnd {
		state.Ended = true
	}
	if message := formatLastEvent(update.Event); message != "" {
		state.LastEvent = message
	}
	return state
}

// rowsFromStream projects page states into display rows in page order.
func rowsFromStream(streamState stream.State) []PageRow {
	pages := streamState.Pages.InPageOrder()
	rows := make([]PageRow, 0, len(pages))
	for _, page := range pages {
		row := PageRow{
			Number:    page.Number,
			Phase:     page.Phase,
			Streaming: page.Streaming,
			Chars:     len(assemble.DisplayText(page)),
			Questions: page.DetectedQuestions,
		}
		for _, score := range page.ConfidenceScores {
			if !row.HasScore || score < row.MinScore {
				row.MinScore = score
				row.HasScore = true
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// recount recomputes page counts for the current rows.
func recount(rows []PageRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Phase {
		case stream.PageRaw:
			counts.Raw++
		case stream.PageVerifying:
			counts.Verifying++
		case stream.PageComplete:
			counts.Complete++
		}
		if row.Streaming {
			counts.Streaming++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event stream.Event) string {
	switch event.Kind {
	case stream.KindMetadata:
		if event.Metadata != nil && event.Metadata.Filename != "" {
			return "Loaded " + event.Metadata.Filename
		}
		return "Session started"
	case stream.KindPage:
		if event.Page != nil {
			return fmt.Sprintf("Page %d detected", event.Page.PageNumber)
		}
		return ""
	case stream.KindPhase:
		if event.PhaseUpdate != nil && event.PhaseUpdate.Message != "" {
			return event.PhaseUpdate.Message
		}
		return ""
	case stream.KindRawComplete:
		return fmt.Sprintf("Page %d transcribed", event.PageNumber)
	case stream.KindPageComplete:
		return fmt.Sprintf("Page %d verified", event.PageNumber)
	case stream.KindAnswer:
		if event.Answer != nil {
			return fmt.Sprintf("Answer for question %d", event.Answer.Question)
		}
		return ""
	case stream.KindDone:
		return fmt.Sprintf("Done (%d answers)", event.TotalAnswers)
	case stream.KindError:
		return "Error: " + event.Message
	}
	return ""
}
