package cucumber

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"gradescribe/internal/answers"
	"gradescribe/internal/stream"
)

// pageIsComplete asserts a page reached its frozen terminal phase.
func (s *featureState) pageIsComplete(number int) error {
	page, ok := s.finalState.Pages.Get(number)
	if !ok {
		return fmt.Errorf("page %d was never observed", number)
	}
	if page.Phase != stream.PageComplete {
		return fmt.Errorf("page %d is %s, not complete", number, page.Phase)
	}
	return nil
}

// theMergedAnswersAre merges the captured answers and compares them
// against the expected table rows in order.
func (s *featureState) theMergedAnswersAre(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("expected a header row and at least one answer row")
	}
	merged := answers.Materialize(s.finalState)

	expected := table.Rows[1:]
	if len(merged) != len(expected) {
		return fmt.Errorf("expected %d answers, got %d: %+v", len(expected), len(merged), merged)
	}
	for i, row := range expected {
		if len(row.Cells) != 4 {
			return fmt.Errorf("row %d: expected 4 cells", i)
		}
		question, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("row %d: bad question number: %w", i, err)
		}
		sub := row.Cells[1].Value
		text := unescape(row.Cells[2].Value)
		pages := row.Cells[3].Value

		got := merged[i]
		if got.Question != question || got.SubQuestion != sub {
			return fmt.Errorf("row %d: expected question %d%s, got %d%s", i, question, sub, got.Question, got.SubQuestion)
		}
		if got.Text != text {
			return fmt.Errorf("row %d: expected text %q, got %q", i, text, got.Text)
		}
		if formatPages(got.PageIndexes) != pages {
			return fmt.Errorf("row %d: expected pages %s, got %s", i, pages, formatPages(got.PageIndexes))
		}
	}
	return nil
}

// unescape expands literal \n sequences from table cells.
func unescape(value string) string {
	return strings.ReplaceAll(value, `\n`, "\n")
}

// formatPages renders page indexes as a comma-separated list.
func formatPages(indexes []int) string {
	parts := make([]string, 0, len(indexes))
	for _, index := range indexes {
		parts = append(parts, strconv.Itoa(index))
	}
	return strings.Join(parts, ",")
}
