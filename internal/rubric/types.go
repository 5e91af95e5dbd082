// Package rubric loads exam rubric files.
package rubric

// Rubric defines the exam rubric schema loaded from JSON or YAML.
type Rubric struct {
	Version   int        `json:"version" yaml:"version"`
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question describes one exam question and its gradable parts.
type Question struct {
	Number       int           `json:"number" yaml:"number"`
	Prompt       string        `json:"prompt" yaml:"prompt"`
	Points       float64       `json:"points" yaml:"points"`
	SubQuestions []SubQuestion `json:"sub_questions,omitempty" yaml:"sub_questions,omitempty"`
}

// SubQuestion describes a lettered or numbered part of a question.
type SubQuestion struct {
	ID     string  `json:"id" yaml:"id"`
	Prompt string  `json:"prompt" yaml:"prompt"`
	Points float64 `json:"points" yaml:"points"`
}

// QuestionNumbers returns the question numbers in rubric order.
func (rubric Rubric) QuestionNumbers() []int {
	numbers := make([]int, 0, len(rubric.Questions))
	for _, question := range rubric.Questions {
		numbers = append(numbers, question.Number)
	}
	return numbers
}
