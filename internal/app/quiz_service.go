package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// QuizStore persists quiz definitions (Postgres, MongoDB, in-memory).
type QuizStore interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	// PutQuiz inserts when quiz.ID is empty and returns the assigned id.
	PutQuiz(ctx context.Context, quiz domain.Quiz) (string, error)
	ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error)
}

// ResponseStore is the append-only log of submitted answer sets.
type ResponseStore interface {
	AppendResponse(ctx context.Context, quizID string, answers domain.AnswerSet) (string, error)
	// ListResponses returns records in no particular order.
	ListResponses(ctx context.Context, quizID string) ([]domain.ResponseRecord, error)
}

// QuizRepository loads quiz content through a cache in front of the QuizStore.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	Invalidate(ctx context.Context, quizID string)
}

// QuizService contains the authoring and results use cases.
type QuizService struct {
	store     QuizStore
	quizzes   QuizRepository
	responses ResponseStore
	now       func() time.Time
}

func NewQuizService(store QuizStore, quizzes QuizRepository, responses ResponseStore) *QuizService {
	return &QuizService{store: store, quizzes: quizzes, responses: responses, now: time.Now}
}

// SaveQuiz publishes a new quiz or overwrites one the owner already has.
func (s *QuizService) SaveQuiz(ctx context.Context, ownerID string, draft domain.Quiz) (domain.Quiz, error) {
	log := config.WithContext(ctx)
	if ownerID == "" {
		return domain.Quiz{}, domain.ErrForbidden
	}

	quiz := prepareQuiz(draft)
	if err := domain.ValidateQuizForPublish(quiz); err != nil {
		return domain.Quiz{}, err
	}

	if quiz.ID != "" {
		existing, err := s.store.LoadQuiz(ctx, quiz.ID)
		if err != nil {
			return domain.Quiz{}, storeErr("load quiz", err)
		}
		if existing.OwnerID != ownerID {
			return domain.Quiz{}, domain.ErrForbidden
		}
		quiz.OwnerID = existing.OwnerID
		quiz.CreatedAt = existing.CreatedAt
	} else {
		quiz.OwnerID = ownerID
		quiz.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	}

	id, err := s.store.PutQuiz(ctx, quiz)
	if err != nil {
		log.WithError(err).Error("failed to save quiz")
		return domain.Quiz{}, storeErr("put quiz", err)
	}
	quiz.ID = id
	s.quizzes.Invalidate(ctx, id)

	log.WithField("quiz_id", id).WithField("questions", len(quiz.Questions)).Info("quiz saved")
	return quiz, nil
}

// GetQuiz is the public read used by respondents.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, storeErr("get quiz", err)
	}
	return quiz, nil
}

// ListQuizzes returns the owner's quizzes, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context, ownerID string) ([]domain.Quiz, error) {
	quizzes, err := s.store.ListQuizzesByOwner(ctx, ownerID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("failed to list quizzes")
		return nil, storeErr("list quizzes", err)
	}
	return quizzes, nil
}

// Results aggregates every response; only the owner may see them.
func (s *QuizService) Results(ctx context.Context, ownerID, quizID string) (domain.QuizResults, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizResults{}, err
	}
	if quiz.OwnerID != ownerID {
		return domain.QuizResults{}, domain.ErrForbidden
	}
	records, err := s.responses.ListResponses(ctx, quizID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("failed to list responses")
		return domain.QuizResults{}, storeErr("list responses", err)
	}
	return SummarizeQuiz(quiz, records), nil
}

// prepareQuiz applies defaults and repairs question shapes before validation.
func prepareQuiz(draft domain.Quiz) domain.Quiz {
	quiz := draft
	quiz.Title = strings.TrimSpace(quiz.Title)
	if quiz.Title == "" {
		quiz.Title = domain.DefaultTitle
	}
	quiz.EndMessage = strings.TrimSpace(quiz.EndMessage)
	if quiz.EndMessage == "" {
		quiz.EndMessage = domain.DefaultEndMessage
	}
	quiz.Questions = make([]domain.Question, len(draft.Questions))
	for i, q := range draft.Questions {
		q = domain.NormalizeQuestion(q)
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		quiz.Questions[i] = q
	}
	return quiz
}

// storeErr keeps domain errors and cancellation intact and tags the rest as store failures.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
