package app_test

import (
	"errors"
	"testing"

	"feedback-quiz-service/internal/app"
	"feedback-quiz-service/internal/domain"
)

func TestProgressWalksForwardAndBack(t *testing.T) {
	p := app.NewProgress(sampleQuiz())
	if p.Index() != 0 || p.Complete() {
		t.Fatalf("expected to start at question 0")
	}

	if err := p.Advance(); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected ErrAnswerRequired, got %v", err)
	}
	if p.Index() != 0 {
		t.Fatalf("failed advance moved the index")
	}
	if err := p.Retreat(); !errors.Is(err, domain.ErrCannotRetreat) {
		t.Fatalf("expected ErrCannotRetreat, got %v", err)
	}

	if err := p.SetAnswer("q1", domain.ChoiceAnswer("No")); err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	if err := p.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if q, ok := p.Current(); !ok || q.ID != "q2" {
		t.Fatalf("expected q2, got %+v", q)
	}

	if err := p.Retreat(); err != nil || p.Index() != 0 {
		t.Fatalf("retreat: %v index=%d", err, p.Index())
	}
	if a, _ := p.Answers()["q1"].Choice(); a != "No" {
		t.Fatalf("retreat lost the answer")
	}
	if err := p.Advance(); err != nil {
		t.Fatalf("advance again: %v", err)
	}

	if err := p.SetAnswer("q2", domain.ScaleAnswer(6)); err != nil {
		t.Fatalf("answer q2: %v", err)
	}
	if err := p.Advance(); err != nil || !p.Complete() {
		t.Fatalf("expected complete, err=%v", err)
	}
	if _, ok := p.Current(); ok {
		t.Fatalf("complete progress has no current question")
	}

	if err := p.Advance(); !errors.Is(err, domain.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete on advance, got %v", err)
	}
	if err := p.Retreat(); !errors.Is(err, domain.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete on retreat, got %v", err)
	}
	if err := p.SetAnswer("q1", domain.ChoiceAnswer("Yes")); !errors.Is(err, domain.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete on answer, got %v", err)
	}
}

func TestProgressRejectsBadAnswers(t *testing.T) {
	p := app.NewProgress(sampleQuiz())

	cases := []struct {
		name string
		id   string
		ans  domain.Answer
		want error
	}{
		{"unknown option", "q1", domain.ChoiceAnswer("Maybe"), domain.ErrInvalidAnswer},
		{"number for choice", "q1", domain.ScaleAnswer(3), domain.ErrInvalidAnswer},
		{"not reached", "q2", domain.ScaleAnswer(3), domain.ErrInvalidAnswer},
		{"unknown question", "q9", domain.ChoiceAnswer("Yes"), domain.ErrQuestionNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := p.SetAnswer(tc.id, tc.ans); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(p.Answers()) != 0 {
		t.Fatalf("rejected answers were stored: %+v", p.Answers())
	}
}

func TestRestoreProgressFromDraft(t *testing.T) {
	quiz := sampleQuiz()
	draft := domain.Draft{SessionID: "s1", QuizID: quiz.ID, Index: 1, Answers: domain.AnswerSet{"q1": domain.ChoiceAnswer("Yes")}}

	p := app.RestoreProgress(quiz, draft)
	if p.Index() != 1 || p.Complete() {
		t.Fatalf("unexpected state index=%d complete=%v", p.Index(), p.Complete())
	}
	if got := p.Draft("s1", quiz.ID); got.Index != 1 || len(got.Answers) != 1 {
		t.Fatalf("draft round trip changed state: %+v", got)
	}

	draft.Index = 5
	if p := app.RestoreProgress(quiz, draft); p.Index() != 1 {
		t.Fatalf("expected index clamped to last question, got %d", p.Index())
	}
}

func TestRestoreProgressAfterQuizEdit(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions[0].Options = []string{"A", "B"}
	quiz.Questions = quiz.Questions[:1]
	draft := domain.Draft{
		SessionID: "s1",
		QuizID:    quiz.ID,
		Index:     1,
		Answers:   domain.AnswerSet{"q1": domain.ChoiceAnswer("Yes"), "q2": domain.ScaleAnswer(4)},
	}

	p := app.RestoreProgress(quiz, draft)
	if p.Index() != 0 {
		t.Fatalf("expected index 0, got %d", p.Index())
	}
	if len(p.Answers()) != 0 {
		t.Fatalf("stale answers kept: %+v", p.Answers())
	}
	if err := p.SetAnswer("q1", domain.ChoiceAnswer("A")); err != nil {
		t.Fatalf("re-answer: %v", err)
	}
}
