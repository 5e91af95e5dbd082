package rubric

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem in a rubric.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("rubric validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// Normalize trims whitespace and validates a rubric.
func Normalize(rubric Rubric) (Rubric, error) {
	collector := &issueCollector{}
	if rubric.Version == 0 {
		collector.add("version", "is required")
	} else if rubric.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", rubric.Version))
	}

	rubric.ID = strings.TrimSpace(rubric.ID)
	if rubric.ID == "" {
		collector.add("id", "is required")
	}
	rubric.Title = strings.TrimSpace(rubric.Title)

	if len(rubric.Questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	seenNumbers := map[int]struct{}{}
	for i, question := range rubric.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		if question.Number <= 0 {
			collector.add(prefix+".number", "must be positive")
		} else if _, exists := seenNumbers[question.Number]; exists {
			collector.add(prefix+".number", fmt.Sprintf("duplicate number %d", question.Number))
		} else {
			seenNumbers[question.Number] = struct{}{}
		}

		question.Prompt = strings.TrimSpace(question.Prompt)
		if question.Points < 0 {
			collector.add(prefix+".points", "must not be negative")
		}

		seenSubIDs := map[string]struct{}{}
		for j, sub := range question.SubQuestions {
			subPrefix := fmt.Sprintf("%s.sub_questions[%d]", prefix, j)
			sub.ID = strings.TrimSpace(sub.ID)
			if sub.ID == "" {
				collector.add(subPrefix+".id", "is required")
			} else if _, exists := seenSubIDs[sub.ID]; exists {
				collector.add(subPrefix+".id", fmt.Sprintf("duplicate id %q", sub.ID))
			} else {
				seenSubIDs[sub.ID] = struct{}{}
			}
			sub.Prompt = strings.TrimSpace(sub.Prompt)
			if sub.Points < 0 {
				collector.add(subPrefix+".points", "must not be negative")
			}
			question.SubQuestions[j] = sub
		}
		rubric.Questions[i] = question
	}

	if err := collector.result(); err != nil {
		return Rubric{}, err
	}
	return rubric, nil
}
