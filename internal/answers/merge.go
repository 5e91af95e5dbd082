// Package answers materializes the final, deduplicated answer list from a
// transcription session, either from raw answer records or directly from
// the page states.
package answers

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gradescribe/internal/stream"
)

// Merged is the finalized text for one (question, sub-question) pair.
type Merged struct {
	Question    int
	SubQuestion string
	Text        string
	Confidence  float64
	PageIndexes []int
}

// missingPageSentinel sorts answers without page indexes last.
const missingPageSentinel = math.MaxInt

// Merge folds raw answer records into one Merged per key. Records sharing
// a key are reconciled pairwise: page indexes become a sorted union,
// confidence takes the maximum, and text keeps the superset when one
// candidate contains the other, otherwise the longer candidate.
func Merge(raw []stream.Answer) []Merged {
	var order []string
	groups := make(map[string]Merged)
	for _, answer := range raw {
		key := groupKey(answer.Question, answer.SubQuestion)
		merged, ok := groups[key]
		if !ok {
			order = append(order, key)
			merged = Merged{
				Question:    answer.Question,
				SubQuestion: answer.SubQuestion,
				Text:        answer.Text,
				Confidence:  answer.Confidence,
				PageIndexes: unionPages(nil, answer.PageIndexes),
			}
			groups[key] = merged
			continue
		}
		merged.Text = reconcileText(merged.Text, answer.Text)
		if answer.Confidence > merged.Confidence {
			merged.Confidence = answer.Confidence
		}
		merged.PageIndexes = unionPages(merged.PageIndexes, answer.PageIndexes)
		groups[key] = merged
	}

	out := make([]Merged, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	sortMerged(out)
	return out
}

// groupKey builds the dedup key; a missing sub-question id groups under
// "main".
func groupKey(question int, subQuestion string) string {
	if subQuestion == "" {
		subQuestion = "main"
	}
	return strconv.Itoa(question) + "/" + subQuestion
}

// reconcileText picks the merged text for two candidates. Identical texts
// keep either, a substring keeps its superset, and divergent texts fall
// back to the longer candidate. The fallback is a best-effort heuristic;
// ambiguous merges are not surfaced.
func reconcileText(current, incoming string) string {
	if current == incoming {
		return current
	}
	if strings.Contains(current, incoming) {
		return current
	}
	if strings.Contains(incoming, current) {
		return incoming
	}
	if len(incoming) > len(current) {
		return incoming
	}
	return current
}

// unionPages merges two page index sets into a sorted, deduplicated slice.
func unionPages(current, incoming []int) []int {
	if len(current) == 0 && len(incoming) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(current)+len(incoming))
	out := make([]int, 0, len(current)+len(incoming))
	for _, set := range [][]int{current, incoming} {
		for _, index := range set {
			if _, ok := seen[index]; ok {
				continue
			}
			seen[index] = struct{}{}
			out = append(out, index)
		}
	}
	sort.Ints(out)
	return out
}

// sortMerged orders answers by minimum page index, then question number,
// then sub-question id. Answers without page indexes sort last; an empty
// sub-question id sorts first.
func sortMerged(merged []Merged) {
	sort.SliceStable(merged, func(i, j int) bool {
		pi, pj := minPage(merged[i]), minPage(merged[j])
		if pi != pj {
			return pi < pj
		}
		if merged[i].Question != merged[j].Question {
			return merged[i].Question < merged[j].Question
		}
		return merged[i].SubQuestion < merged[j].SubQuestion
	})
}

// minPage returns the primary sort key for a merged answer.
func minPage(answer Merged) int {
	if len(answer.PageIndexes) == 0 {
		return missingPageSentinel
	}
	return answer.PageIndexes[0]
}
