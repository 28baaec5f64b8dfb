package domain

import (
	"fmt"
	"strings"
)

// NormalizeOptions trims every option and drops the empty ones.
func NormalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// NormalizeQuestion repairs authoring input: trimmed text, normalized options,
// and no options at all on a sliding-bar question.
func NormalizeQuestion(q Question) Question {
	q.Text = strings.TrimSpace(q.Text)
	switch q.Type {
	case QuestionSlidingBar:
		q.Options = nil
	case QuestionMultipleChoice:
		q.Options = NormalizeOptions(q.Options)
	}
	return q
}

// ValidateQuestion enforces the type/options invariant.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	}
	switch q.Type {
	case QuestionMultipleChoice:
		options := NormalizeOptions(q.Options)
		seen := make(map[string]struct{}, len(options))
		for _, opt := range options {
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("%w: duplicate option %q", ErrInvalidQuestion, opt)
			}
			seen[opt] = struct{}{}
		}
		if len(seen) < 2 {
			return fmt.Errorf("%w: multiple-choice needs at least 2 options", ErrInvalidQuestion)
		}
	case QuestionSlidingBar:
		if q.Options != nil {
			return fmt.Errorf("%w: sliding-bar questions take no options", ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, q.Type)
	}
	return nil
}

// ValidateQuizForPublish checks a quiz can be shared.
func ValidateQuizForPublish(quiz Quiz) error {
	if len(quiz.Questions) == 0 {
		return ErrEmptyQuiz
	}
	ids := make(map[string]struct{}, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidQuestion, i+1)
		}
		if _, dup := ids[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %s", ErrInvalidQuestion, q.ID)
		}
		ids[q.ID] = struct{}{}
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
