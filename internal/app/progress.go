package app

import (
	"fmt"

	"feedback-quiz-service/internal/domain"
)

// Progress walks one respondent through a quiz, one question at a time.
type Progress struct {
	questions []domain.Question
	index     int
	complete  bool
	answers   domain.AnswerSet
}

// NewProgress starts at the first question with no answers.
func NewProgress(quiz domain.Quiz) *Progress {
	return &Progress{questions: quiz.Questions, answers: domain.AnswerSet{}}
}

// RestoreProgress rebuilds a Progress from a stored draft. The quiz may have
// been edited since the draft was saved: answers that no longer fit are
// dropped and the position is clamped to the remaining questions.
func RestoreProgress(quiz domain.Quiz, draft domain.Draft) *Progress {
	p := NewProgress(quiz)
	for id, a := range draft.Answers {
		q, ok := quiz.Question(id)
		if !ok {
			continue
		}
		resolved, err := domain.ResolveAnswer(q, a)
		if err != nil {
			continue
		}
		p.answers[id] = resolved
	}
	p.complete = draft.Complete
	p.index = draft.Index
	if p.index >= len(quiz.Questions) {
		p.index = len(quiz.Questions) - 1
	}
	if p.index < 0 {
		p.index = 0
	}
	return p
}

// Index is the current question position; meaningless once complete.
func (p *Progress) Index() int { return p.index }

func (p *Progress) Complete() bool { return p.complete }

// Current returns the question being shown.
func (p *Progress) Current() (domain.Question, bool) {
	if p.complete || p.index >= len(p.questions) {
		return domain.Question{}, false
	}
	return p.questions[p.index], true
}

// Answers returns a copy of the answers collected so far.
func (p *Progress) Answers() domain.AnswerSet {
	out := make(domain.AnswerSet, len(p.answers))
	for id, a := range p.answers {
		out[id] = a
	}
	return out
}

// SetAnswer records a value for any question already reached.
func (p *Progress) SetAnswer(questionID string, a domain.Answer) error {
	if p.complete {
		return domain.ErrSessionComplete
	}
	for i, q := range p.questions {
		if q.ID != questionID {
			continue
		}
		if i > p.index {
			return fmt.Errorf("%w: question %s not reached yet", domain.ErrInvalidAnswer, questionID)
		}
		resolved, err := domain.ResolveAnswer(q, a)
		if err != nil {
			return err
		}
		p.answers[questionID] = resolved
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
}

// Advance moves past the current question once it has an answer.
func (p *Progress) Advance() error {
	if p.complete {
		return domain.ErrSessionComplete
	}
	if len(p.questions) == 0 {
		return domain.ErrEmptyQuiz
	}
	current := p.questions[p.index]
	if _, ok := p.answers[current.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrAnswerRequired, current.ID)
	}
	if p.index+1 < len(p.questions) {
		p.index++
	} else {
		p.complete = true
	}
	return nil
}

// Retreat goes back one question; it never leaves the first question or Complete.
func (p *Progress) Retreat() error {
	if p.complete {
		return domain.ErrSessionComplete
	}
	if p.index == 0 {
		return domain.ErrCannotRetreat
	}
	p.index--
	return nil
}

// Draft snapshots the progress for a DraftStore.
func (p *Progress) Draft(sessionID, quizID string) domain.Draft {
	return domain.Draft{
		SessionID: sessionID,
		QuizID:    quizID,
		Index:     p.index,
		Complete:  p.complete,
		Answers:   p.Answers(),
	}
}
