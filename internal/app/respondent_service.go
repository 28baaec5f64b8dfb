package app

import (
	"context"
	"errors"
	"time"

	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// DraftStore keeps in-progress answers for a session until submit or abandon.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft domain.Draft) error
	// LoadDraft returns domain.ErrSessionNotFound for unknown or expired sessions.
	LoadDraft(ctx context.Context, sessionID string) (domain.Draft, error)
	ClearDraft(ctx context.Context, sessionID string) error
}

// SubmissionGuard makes a session submit at most once.
type SubmissionGuard interface {
	// Acquire reports false when the session already submitted.
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// SessionView is what a respondent client needs to render the next step.
type SessionView struct {
	SessionID  string           `json:"sessionId"`
	QuizID     string           `json:"quizId"`
	Title      string           `json:"title"`
	Index      int              `json:"index"`
	Total      int              `json:"total"`
	Complete   bool             `json:"complete"`
	Question   *domain.Question `json:"question,omitempty"`
	Answers    domain.AnswerSet `json:"answers"`
	EndMessage string           `json:"endMessage,omitempty"`
	ResponseID string           `json:"responseId,omitempty"`
}

// RespondentService drives anonymous respondents through a quiz.
type RespondentService struct {
	quizzes   QuizRepository
	drafts    DraftStore
	guard     SubmissionGuard
	responses ResponseStore
	now       func() time.Time
}

func NewRespondentService(quizzes QuizRepository, drafts DraftStore, guard SubmissionGuard, responses ResponseStore) *RespondentService {
	return &RespondentService{quizzes: quizzes, drafts: drafts, guard: guard, responses: responses, now: time.Now}
}

// Start opens a new session at the first question.
func (s *RespondentService) Start(ctx context.Context, quizID string) (SessionView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return SessionView{}, storeErr("get quiz", err)
	}
	if len(quiz.Questions) == 0 {
		return SessionView{}, domain.ErrEmptyQuiz
	}
	progress := NewProgress(quiz)
	sessionID := uuid.NewString()
	if err := s.save(ctx, progress.Draft(sessionID, quiz.ID)); err != nil {
		return SessionView{}, err
	}
	config.WithContext(ctx).WithField("quiz_id", quizID).WithField("session_id", sessionID).Info("respondent session started")
	return view(sessionID, quiz, progress), nil
}

// Get returns the current state of a session.
func (s *RespondentService) Get(ctx context.Context, sessionID string) (SessionView, error) {
	quiz, progress, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return view(sessionID, quiz, progress), nil
}

// Answer records a value for a reached question without moving.
func (s *RespondentService) Answer(ctx context.Context, sessionID, questionID string, answer domain.Answer) (SessionView, error) {
	quiz, progress, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := progress.SetAnswer(questionID, answer); err != nil {
		return SessionView{}, err
	}
	if err := s.save(ctx, progress.Draft(sessionID, quiz.ID)); err != nil {
		return SessionView{}, err
	}
	return view(sessionID, quiz, progress), nil
}

// Advance moves to the next question; leaving the last one submits the answers.
func (s *RespondentService) Advance(ctx context.Context, sessionID string) (SessionView, error) {
	quiz, progress, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := progress.Advance(); err != nil {
		return SessionView{}, err
	}
	if !progress.Complete() {
		if err := s.save(ctx, progress.Draft(sessionID, quiz.ID)); err != nil {
			return SessionView{}, err
		}
		return view(sessionID, quiz, progress), nil
	}

	responseID, err := s.submit(ctx, sessionID, quiz.ID, progress.Answers())
	if err != nil {
		return SessionView{}, err
	}
	out := view(sessionID, quiz, progress)
	out.ResponseID = responseID
	return out, nil
}

// Retreat goes back one question.
func (s *RespondentService) Retreat(ctx context.Context, sessionID string) (SessionView, error) {
	quiz, progress, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := progress.Retreat(); err != nil {
		return SessionView{}, err
	}
	if err := s.save(ctx, progress.Draft(sessionID, quiz.ID)); err != nil {
		return SessionView{}, err
	}
	return view(sessionID, quiz, progress), nil
}

// Abandon drops the draft; nothing is persisted for partial attempts.
func (s *RespondentService) Abandon(ctx context.Context, sessionID string) error {
	if err := s.drafts.ClearDraft(ctx, sessionID); err != nil {
		return storeErr("clear draft", err)
	}
	config.WithContext(ctx).WithField("session_id", sessionID).Info("respondent session abandoned")
	return nil
}

func (s *RespondentService) submit(ctx context.Context, sessionID, quizID string, answers domain.AnswerSet) (string, error) {
	log := config.WithContext(ctx).WithField("session_id", sessionID).WithField("quiz_id", quizID)

	ok, err := s.guard.Acquire(ctx, sessionID)
	if err != nil {
		return "", storeErr("acquire submission", err)
	}
	if !ok {
		return "", domain.ErrAlreadySubmitted
	}

	responseID, err := s.responses.AppendResponse(ctx, quizID, answers)
	if err != nil {
		log.WithError(err).Error("failed to append response")
		// Leave the draft at the last question so the respondent can retry.
		if rerr := s.guard.Release(ctx, sessionID); rerr != nil {
			log.WithError(rerr).Warn("failed to release submission guard")
		}
		return "", storeErr("append response", err)
	}

	if err := s.drafts.ClearDraft(ctx, sessionID); err != nil {
		log.WithError(err).Warn("failed to clear draft after submit")
	}
	log.WithField("response_id", responseID).Info("responses submitted")
	return responseID, nil
}

func (s *RespondentService) load(ctx context.Context, sessionID string) (domain.Quiz, *Progress, error) {
	draft, err := s.drafts.LoadDraft(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Quiz{}, nil, err
		}
		return domain.Quiz{}, nil, storeErr("load draft", err)
	}
	quiz, err := s.quizzes.GetQuiz(ctx, draft.QuizID)
	if err != nil {
		return domain.Quiz{}, nil, storeErr("get quiz", err)
	}
	return quiz, RestoreProgress(quiz, draft), nil
}

func (s *RespondentService) save(ctx context.Context, draft domain.Draft) error {
	draft.UpdatedAt = s.now().UTC()
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return storeErr("save draft", err)
	}
	return nil
}

func view(sessionID string, quiz domain.Quiz, progress *Progress) SessionView {
	v := SessionView{
		SessionID: sessionID,
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Index:     progress.Index(),
		Total:     len(quiz.Questions),
		Complete:  progress.Complete(),
		Answers:   progress.Answers(),
	}
	if q, ok := progress.Current(); ok {
		v.Question = &q
	}
	if v.Complete {
		v.EndMessage = quiz.EndMessage
	}
	return v
}
