package answers

import (
	"sort"

	"gradescribe/internal/assemble"
	"gradescribe/internal/stream"
)

// FromPages derives the final answer set by walking the page states in
// page-number order, so no page content is dropped on the handoff to
// grading. Each page's display text is appended to the accumulator of its
// first detected question; pages that declare no questions default to
// question 1. Blocks for one question are joined with a blank line in
// page order.
//
// Attributing a mixed-question page to its first detected question is a
// known simplification and can misattribute content.
func FromPages(state stream.State) []Merged {
	type accumulator struct {
		blocks      []string
		confidence  float64
		pageIndexes []int
	}
	byQuestion := make(map[int]*accumulator)

	for _, page := range state.Pages.InPageOrder() {
		text := assemble.DisplayText(page)
		if text == "" {
			continue
		}
		question := 1
		if len(page.DetectedQuestions) > 0 {
			question = page.DetectedQuestions[0]
		}
		acc := byQuestion[question]
		if acc == nil {
			acc = &accumulator{}
			byQuestion[question] = acc
		}
		acc.blocks = append(acc.blocks, text)
		acc.pageIndexes = unionPages(acc.pageIndexes, []int{page.PageIndex})
		if score, ok := page.ConfidenceScores[question]; ok && score > acc.confidence {
			acc.confidence = score
		}
	}

	questions := make([]int, 0, len(byQuestion))
	for question := range byQuestion {
		questions = append(questions, question)
	}
	sort.Ints(questions)

	out := make([]Merged, 0, len(questions))
	for _, question := range questions {
		acc := byQuestion[question]
		out = append(out, Merged{
			Question:    question,
			Text:        assemble.JoinBlocks(acc.blocks),
			Confidence:  acc.confidence,
			PageIndexes: acc.pageIndexes,
		})
	}
	return out
}
