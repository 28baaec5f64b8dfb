package domain

import "errors"

var (
	// ErrInvalidQuestion is returned when a question violates its shape rules.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrEmptyQuiz is returned when a quiz without questions is published.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrAnswerRequired blocks advancing past an unanswered question.
	ErrAnswerRequired = errors.New("answer required before advancing")
	// ErrInvalidAnswer indicates an answer value does not fit its question.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrGenerationFailed wraps any upstream text-generation failure.
	ErrGenerationFailed = errors.New("feedback generation failed")
	// ErrContentBlocked is returned when the generator refuses on safety grounds.
	ErrContentBlocked = errors.New("feedback blocked by content safety policy")
	// ErrStoreUnavailable wraps record store failures.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrForbidden is returned when a user acts on a quiz they do not own.
	ErrForbidden = errors.New("quiz belongs to another user")
	// ErrSessionNotFound is returned when a respondent session does not exist or expired.
	ErrSessionNotFound = errors.New("respondent session not found")
	// ErrSessionComplete is returned for any change after the last question.
	ErrSessionComplete = errors.New("respondent session already complete")
	// ErrCannotRetreat is returned when going back from the first question.
	ErrCannotRetreat = errors.New("already at the first question")
	// ErrAlreadySubmitted guards against a second submission for one session.
	ErrAlreadySubmitted = errors.New("responses already submitted")
)

// GenerationError carries the upstream cause of a failed feedback call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return ErrGenerationFailed.Error()
	}
	return ErrGenerationFailed.Error() + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrGenerationFailed) match.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}
