package answers

import (
	"reflect"
	"testing"

	"gradescribe/internal/stream"
)

// TestMergeSubstringKeepsSuperset verifies fragmented records for one key
// collapse into the superset text with unioned page indexes.
func TestMergeSubstringKeepsSuperset(t *testing.T) {
	merged := Merge([]stream.Answer{
		{Question: 3, Text: "print(i)", Confidence: 0.6, PageIndexes: []int{2}},
		{Question: 3, Text: "for i in range(5): print(i)", Confidence: 0.9, PageIndexes: []int{1}},
	})
	if len(merged) != 1 {
		t.Fatalf("expected one merged answer, got %d", len(merged))
	}
	got := merged[0]
	if got.Text != "for i in range(5): print(i)" {
		t.Fatalf("expected superset text, got %q", got.Text)
	}
	if !reflect.DeepEqual(got.PageIndexes, []int{1, 2}) {
		t.Fatalf("expected sorted union of pages, got %v", got.PageIndexes)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("expected max confidence, got %v", got.Confidence)
	}
}

// TestMergeDivergentTextsKeepLonger verifies the longer-text fallback.
func TestMergeDivergentTextsKeepLonger(t *testing.T) {
	merged := Merge([]stream.Answer{
		{Question: 1, Text: "short answer"},
		{Question: 1, Text: "a considerably longer divergent answer"},
		{Question: 1, Text: "tiny"},
	})
	if len(merged) != 1 {
		t.Fatalf("expected one merged answer, got %d", len(merged))
	}
	if merged[0].Text != "a considerably longer divergent answer" {
		t.Fatalf("expected longer text kept, got %q", merged[0].Text)
	}
}

// TestMergeSubQuestionsStayDistinct verifies sub-question ids partition
// the key space and that the missing id groups as main.
func TestMergeSubQuestionsStayDistinct(t *testing.T) {
	merged := Merge([]stream.Answer{
		{Question: 2, SubQuestion: "a", Text: "part a", PageIndexes: []int{0}},
		{Question: 2, Text: "main part", PageIndexes: []int{0}},
		{Question: 2, SubQuestion: "a", Text: "part a", PageIndexes: []int{1}},
	})
	if len(merged) != 2 {
		t.Fatalf("expected two merged answers, got %d: %+v", len(merged), merged)
	}
	// Equal min page: empty sub-question id sorts first.
	if merged[0].SubQuestion != "" || merged[1].SubQuestion != "a" {
		t.Fatalf("unexpected sub-question order: %+v", merged)
	}
	if !reflect.DeepEqual(merged[1].PageIndexes, []int{0, 1}) {
		t.Fatalf("expected page union for sub-question, got %v", merged[1].PageIndexes)
	}
}

// TestMergeSortOrder verifies the min-page/question ordering with
// duplicate keys merged first.
func TestMergeSortOrder(t *testing.T) {
	merged := Merge([]stream.Answer{
		{Question: 2, Text: "q2", PageIndexes: []int{5}},
		{Question: 1, Text: "q1", PageIndexes: []int{2}},
		{Question: 1, Text: "q1", PageIndexes: []int{1}},
	})
	if len(merged) != 2 {
		t.Fatalf("expected q1 duplicates merged, got %d answers", len(merged))
	}
	if merged[0].Question != 1 || merged[1].Question != 2 {
		t.Fatalf("expected q1 before q2, got %+v", merged)
	}
	if !reflect.DeepEqual(merged[0].PageIndexes, []int{1, 2}) {
		t.Fatalf("expected q1 pages [1 2], got %v", merged[0].PageIndexes)
	}
}

// TestMergeMissingPagesSortLast verifies the missing-page sentinel.
func TestMergeMissingPagesSortLast(t *testing.T) {
	merged := Merge([]stream.Answer{
		{Question: 1, Text: "no pages"},
		{Question: 9, Text: "paged", PageIndexes: []int{7}},
	})
	if merged[0].Question != 9 || merged[1].Question != 1 {
		t.Fatalf("answers without pages must sort last, got %+v", merged)
	}
}

// TestMergeEmptyInput verifies a nil input yields an empty result.
func TestMergeEmptyInput(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("expected no merged answers, got %+v", got)
	}
}
