package app

import (
	"fmt"
	"strings"

	"feedback-quiz-service/internal/domain"
)

const feedbackPreamble = `You are an AI assistant designed to provide personalized feedback based on user answers to a series of questions.

You will receive a set of questions and the user's answers. Your goal is to analyze these answers and provide constructive feedback.
Consider the type of each question when analyzing the answers, and offer insights based on the combined responses.

Here are the questions and the user's answers:
`

const feedbackInstruction = `
Based on these answers, provide personalized feedback to the user:
`

// BuildPrompt renders the questions and one respondent's answers for the model.
// Missing answers render empty; the caller decides whether partial sets are eligible.
func BuildPrompt(questions []domain.Question, answers domain.AnswerSet) (string, error) {
	var b strings.Builder
	b.WriteString(feedbackPreamble)
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return "", fmt.Errorf("%w: question %s has no text", domain.ErrInvalidQuestion, q.ID)
		}
		if !q.Type.Valid() {
			return "", fmt.Errorf("%w: question %s has unknown type %q", domain.ErrInvalidQuestion, q.ID, q.Type)
		}

		fmt.Fprintf(&b, "\nQuestion (%s):\n", q.ID)
		fmt.Fprintf(&b, "  Type: %s\n", q.Type)
		fmt.Fprintf(&b, "  Text: %s\n", q.Text)
		if len(q.Options) > 0 {
			b.WriteString("  Options:\n")
			for _, opt := range q.Options {
				fmt.Fprintf(&b, "    - %s\n", opt)
			}
		}
		fmt.Fprintf(&b, "  Answer: %s\n", answers[q.ID].String())
	}
	b.WriteString(feedbackInstruction)
	return b.String(), nil
}
