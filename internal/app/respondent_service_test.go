package app_test

import (
	"context"
	"errors"
	"testing"

	"feedback-quiz-service/internal/app"
	"feedback-quiz-service/internal/domain"
)

func newRespondentService(s testStores) *app.RespondentService {
	return app.NewRespondentService(s.quizRepo, s.sessions, s.sessions, s.records)
}

func TestRespondentSubmitsOnce(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores()
	svc := newRespondentService(stores)

	view, err := svc.Start(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Index != 0 || view.Total != 2 || view.Question == nil || view.Question.ID != "q1" {
		t.Fatalf("unexpected opening view %+v", view)
	}

	if _, err := svc.Advance(ctx, view.SessionID); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected ErrAnswerRequired, got %v", err)
	}
	if _, err := svc.Answer(ctx, view.SessionID, "q1", domain.ChoiceAnswer("Yes")); err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	if _, err := svc.Advance(ctx, view.SessionID); err != nil {
		t.Fatalf("advance: %v", err)
	}

	resumed, err := svc.Get(ctx, view.SessionID)
	if err != nil || resumed.Index != 1 || len(resumed.Answers) != 1 {
		t.Fatalf("draft not restored: %+v err=%v", resumed, err)
	}

	if _, err := svc.Answer(ctx, view.SessionID, "q2", domain.ScaleAnswer(8)); err != nil {
		t.Fatalf("answer q2: %v", err)
	}
	done, err := svc.Advance(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("final advance: %v", err)
	}
	if !done.Complete || done.ResponseID == "" || done.EndMessage != "Thanks!" || done.Question != nil {
		t.Fatalf("unexpected final view %+v", done)
	}

	if _, err := svc.Advance(ctx, view.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected draft cleared after submit, got %v", err)
	}
	records, _ := stores.records.ListResponses(ctx, "quiz-1")
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	if v, _ := records[0].Answers["q2"].Scale(); v != 8 {
		t.Fatalf("stored answers wrong: %+v", records[0].Answers)
	}
}

func TestRespondentGuardBlocksSecondSubmit(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores()
	svc := newRespondentService(stores)

	view, _ := svc.Start(ctx, "quiz-1")
	draft, err := stores.sessions.LoadDraft(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	draft.Index = 1
	draft.Answers = domain.AnswerSet{"q1": domain.ChoiceAnswer("No"), "q2": domain.ScaleAnswer(2)}

	if _, err := svc.Advance(ctx, view.SessionID); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected ErrAnswerRequired, got %v", err)
	}
	_ = stores.sessions.SaveDraft(ctx, draft)
	if _, err := svc.Advance(ctx, view.SessionID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// a stale copy of the draft replayed after submission
	_ = stores.sessions.SaveDraft(ctx, draft)
	if _, err := svc.Advance(ctx, view.SessionID); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	records, _ := stores.records.ListResponses(ctx, "quiz-1")
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
}

type brokenResponses struct {
	fail bool
	app.ResponseStore
}

func (b *brokenResponses) AppendResponse(ctx context.Context, quizID string, answers domain.AnswerSet) (string, error) {
	if b.fail {
		return "", errors.New("disk full")
	}
	return b.ResponseStore.AppendResponse(ctx, quizID, answers)
}

func TestRespondentAppendFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores()
	responses := &brokenResponses{fail: true, ResponseStore: stores.records}
	svc := app.NewRespondentService(stores.quizRepo, stores.sessions, stores.sessions, responses)

	view, _ := svc.Start(ctx, "quiz-1")
	_, _ = svc.Answer(ctx, view.SessionID, "q1", domain.ChoiceAnswer("Yes"))
	_, _ = svc.Advance(ctx, view.SessionID)
	_, _ = svc.Answer(ctx, view.SessionID, "q2", domain.ScaleAnswer(4))

	if _, err := svc.Advance(ctx, view.SessionID); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	still, err := svc.Get(ctx, view.SessionID)
	if err != nil || still.Index != 1 || still.Complete {
		t.Fatalf("expected draft kept at last question, got %+v err=%v", still, err)
	}

	responses.fail = false
	done, err := svc.Advance(ctx, view.SessionID)
	if err != nil || !done.Complete {
		t.Fatalf("retry: %+v err=%v", done, err)
	}
}

func TestRespondentRetreatAndAbandon(t *testing.T) {
	ctx := context.Background()
	svc := newRespondentService(newTestStores())

	view, _ := svc.Start(ctx, "quiz-1")
	if _, err := svc.Retreat(ctx, view.SessionID); !errors.Is(err, domain.ErrCannotRetreat) {
		t.Fatalf("expected ErrCannotRetreat, got %v", err)
	}
	_, _ = svc.Answer(ctx, view.SessionID, "q1", domain.ChoiceAnswer("No"))
	_, _ = svc.Advance(ctx, view.SessionID)
	back, err := svc.Retreat(ctx, view.SessionID)
	if err != nil || back.Index != 0 {
		t.Fatalf("retreat: %+v err=%v", back, err)
	}
	if a, _ := back.Answers["q1"].Choice(); a != "No" {
		t.Fatalf("retreat dropped the answer: %+v", back.Answers)
	}

	if err := svc.Abandon(ctx, view.SessionID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := svc.Get(ctx, view.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRespondentStartUnknownQuiz(t *testing.T) {
	svc := newRespondentService(newTestStores())
	if _, err := svc.Start(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestRespondentSessionSurvivesQuizEdit(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores()
	svc := newRespondentService(stores)
	quizzes := newTestService(stores)

	view, err := svc.Start(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Answer(ctx, view.SessionID, "q1", domain.ChoiceAnswer("Yes")); err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	if _, err := svc.Advance(ctx, view.SessionID); err != nil {
		t.Fatalf("advance: %v", err)
	}

	edited := sampleQuiz()
	edited.Questions[0].Options = []string{"A", "B"}
	if _, err := quizzes.SaveQuiz(ctx, "owner-1", edited); err != nil {
		t.Fatalf("edit quiz: %v", err)
	}

	resumed, err := svc.Get(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("get after edit: %v", err)
	}
	if resumed.Index != 1 || len(resumed.Answers) != 0 {
		t.Fatalf("expected stale answer dropped at index 1, got %+v", resumed)
	}
	if _, err := svc.Answer(ctx, view.SessionID, "q1", domain.ChoiceAnswer("A")); err != nil {
		t.Fatalf("re-answer q1: %v", err)
	}
	if _, err := svc.Retreat(ctx, view.SessionID); err != nil {
		t.Fatalf("retreat: %v", err)
	}

	shrunk := sampleQuiz()
	shrunk.Questions[0].Options = []string{"A", "B"}
	shrunk.Questions = shrunk.Questions[:1]
	if _, err := svc.Advance(ctx, view.SessionID); err != nil {
		t.Fatalf("advance again: %v", err)
	}
	if _, err := quizzes.SaveQuiz(ctx, "owner-1", shrunk); err != nil {
		t.Fatalf("shrink quiz: %v", err)
	}
	resumed, err = svc.Get(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("get after shrink: %v", err)
	}
	if resumed.Index != 0 || resumed.Total != 1 {
		t.Fatalf("expected index clamped to the only question, got %+v", resumed)
	}
	done, err := svc.Advance(ctx, view.SessionID)
	if err != nil || !done.Complete {
		t.Fatalf("expected submit after shrink, got %+v err=%v", done, err)
	}
}
