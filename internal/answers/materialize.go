package answers

import "gradescribe/internal/stream"

// Materialize produces the grading handoff set for a finished session.
// Answer records win for the questions they cover; questions that only
// exist as page content are filled in from the page-first walk so no
// completed page is dropped from the handoff. The combined set keeps the
// standard ordering.
func Materialize(state stream.State) []Merged {
	merged := Merge(state.Answers)
	covered := make(map[int]struct{}, len(merged))
	for _, answer := range merged {
		covered[answer.Question] = struct{}{}
	}
	for _, answer := range FromPages(state) {
		if _, ok := covered[answer.Question]; ok {
			continue
		}
		merged = append(merged, answer)
	}
	sortMerged(merged)
	return merged
}
