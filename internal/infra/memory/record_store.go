package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"feedback-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// RecordStore keeps quizzes and responses in process memory (useful for tests/demos).
type RecordStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	quizzes   map[string]domain.Quiz
	responses map[string][]domain.ResponseRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		now:       time.Now,
		quizzes:   make(map[string]domain.Quiz),
		responses: make(map[string][]domain.ResponseRecord),
	}
}

// Seed stores quizzes as-is, keeping their ids.
func (s *RecordStore) Seed(quizzes ...domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quizzes {
		s.quizzes[q.ID] = cloneQuiz(q)
	}
}

func (s *RecordStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[quizID]; ok {
		return cloneQuiz(quiz), nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *RecordStore) PutQuiz(_ context.Context, quiz domain.Quiz) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return quiz.ID, nil
}

func (s *RecordStore) ListQuizzesByOwner(_ context.Context, ownerID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0)
	for _, q := range s.quizzes {
		if q.OwnerID == ownerID {
			out = append(out, cloneQuiz(q))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *RecordStore) AppendResponse(_ context.Context, quizID string, answers domain.AnswerSet) (string, error) {
	rec := domain.ResponseRecord{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		Answers:   cloneAnswers(answers),
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.responses[quizID] = append(s.responses[quizID], rec)
	s.mu.Unlock()
	return rec.ID, nil
}

func (s *RecordStore) ListResponses(_ context.Context, quizID string) ([]domain.ResponseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.responses[quizID]
	out := make([]domain.ResponseRecord, len(stored))
	for i, rec := range stored {
		rec.Answers = cloneAnswers(rec.Answers)
		out[i] = rec
	}
	return out, nil
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		if question.Options != nil {
			question.Options = append([]string(nil), question.Options...)
		}
		questions[i] = question
	}
	q.Questions = questions
	return q
}

func cloneAnswers(answers domain.AnswerSet) domain.AnswerSet {
	out := make(domain.AnswerSet, len(answers))
	for id, a := range answers {
		out[id] = a
	}
	return out
}
