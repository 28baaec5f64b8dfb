package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedback-quiz-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	store := NewRecordStore()
	store.Seed(sampleQuiz())
	loader := &countingLoader{QuizLoader: store}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}

	repo.Invalidate(context.Background(), "quiz-1")
	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 3: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

// gatedLoader returns stale content for its first call and blocks until released.
type gatedLoader struct {
	QuizLoader
	started chan struct{}
	release chan struct{}
	stale   domain.Quiz
	calls   int
}

func (l *gatedLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	if l.calls == 1 {
		close(l.started)
		<-l.release
		return l.stale, nil
	}
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func TestQuizRepositoryDropsLoadRacingInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()
	edited := sampleQuiz()
	edited.Title = "Edited"
	store.Seed(edited)
	loader := &gatedLoader{
		QuizLoader: store,
		started:    make(chan struct{}),
		release:    make(chan struct{}),
		stale:      sampleQuiz(),
	}
	repo := NewQuizRepository(loader, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = repo.GetQuiz(ctx, "quiz-1")
	}()
	<-loader.started
	repo.Invalidate(ctx, "quiz-1")
	close(loader.release)
	<-done

	got, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != "Edited" {
		t.Fatalf("stale quiz cached after invalidate: %q", got.Title)
	}
}

func TestQuizRepositoryMissingQuiz(t *testing.T) {
	repo := NewQuizRepository(NewRecordStore(), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestRecordStoreKeepsOptionsShape(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()
	id, err := store.PutQuiz(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	got, err := store.LoadQuiz(ctx, id)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if got.Questions[1].Options != nil {
		t.Fatalf("slider must come back without options, got %q", got.Questions[1].Options)
	}
	if len(got.Questions[0].Options) != 2 {
		t.Fatalf("choice options lost: %+v", got.Questions[0])
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:      "quiz-1",
		OwnerID: "owner-1",
		Title:   "Team check-in",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionMultipleChoice, Text: "Happy with the sprint?", Options: []string{"Yes", "No"}},
			{ID: "q2", Type: domain.QuestionSlidingBar, Text: "Rate the workload"},
		},
	}
}
