package app

import (
	"context"
	"errors"
	"strings"

	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
)

// TextGenerator is the hosted language model. Implementations return
// domain.ErrContentBlocked (possibly wrapped) on a safety refusal.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, safety domain.SafetyConfig) (string, error)
}

// FeedbackService turns one answer set into narrative feedback.
type FeedbackService struct {
	generator TextGenerator
	quizzes   QuizRepository
}

func NewFeedbackService(generator TextGenerator, quizzes QuizRepository) *FeedbackService {
	return &FeedbackService{generator: generator, quizzes: quizzes}
}

// ForQuiz validates a possibly partial answer map against a stored quiz and generates feedback.
func (s *FeedbackService) ForQuiz(ctx context.Context, quizID string, answers domain.AnswerSet) (string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", storeErr("get quiz", err)
	}
	resolved, err := domain.ResolveAnswers(quiz, answers)
	if err != nil {
		return "", err
	}
	return s.Generate(ctx, quiz.Questions, resolved)
}

// Generate makes exactly one generator call; retries are up to the caller.
func (s *FeedbackService) Generate(ctx context.Context, questions []domain.Question, answers domain.AnswerSet) (string, error) {
	if len(questions) == 0 {
		return "", domain.ErrEmptyQuiz
	}
	prompt, err := BuildPrompt(questions, answers)
	if err != nil {
		return "", err
	}

	log := config.WithContext(ctx)
	text, err := s.generator.Complete(ctx, prompt, domain.FeedbackSafety)
	if err != nil {
		if errors.Is(err, domain.ErrContentBlocked) {
			log.WithError(err).Warn("feedback blocked by safety filter")
			return "", domain.ErrContentBlocked
		}
		log.WithError(err).Error("feedback generation failed")
		return "", &domain.GenerationError{Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &domain.GenerationError{Err: errors.New("empty model output")}
	}
	return text, nil
}
