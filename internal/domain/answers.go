package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// AnswerKind tells which arm of Answer is populated.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerChoice
	AnswerScale
)

// Answer is one respondent value: a chosen option or a scale position.
// On the wire it is a bare JSON string or number.
type Answer struct {
	kind   AnswerKind
	choice string
	scale  float64
}

// AnswerSet maps question IDs to answers.
type AnswerSet map[string]Answer

func ChoiceAnswer(option string) Answer {
	return Answer{kind: AnswerChoice, choice: option}
}

func ScaleAnswer(value float64) Answer {
	return Answer{kind: AnswerScale, scale: value}
}

func (a Answer) Kind() AnswerKind { return a.kind }

// Choice returns the selected option when a is a choice answer.
func (a Answer) Choice() (string, bool) {
	return a.choice, a.kind == AnswerChoice
}

// Scale returns the raw slider value when a is a scale answer.
func (a Answer) Scale() (float64, bool) {
	return a.scale, a.kind == AnswerScale
}

// String renders the value the way it is shown to the language model.
func (a Answer) String() string {
	switch a.kind {
	case AnswerChoice:
		return a.choice
	case AnswerScale:
		return strconv.FormatFloat(a.scale, 'f', -1, 64)
	default:
		return ""
	}
}

// Value returns the untyped form used by document stores.
func (a Answer) Value() any {
	switch a.kind {
	case AnswerChoice:
		return a.choice
	case AnswerScale:
		return a.scale
	default:
		return nil
	}
}

// AnswerFromValue builds an Answer from a decoded JSON/BSON value.
func AnswerFromValue(v any) (Answer, error) {
	switch val := v.(type) {
	case string:
		return ChoiceAnswer(val), nil
	case float64:
		return ScaleAnswer(val), nil
	case float32:
		return ScaleAnswer(float64(val)), nil
	case int:
		return ScaleAnswer(float64(val)), nil
	case int32:
		return ScaleAnswer(float64(val)), nil
	case int64:
		return ScaleAnswer(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Answer{}, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		return ScaleAnswer(f), nil
	default:
		return Answer{}, fmt.Errorf("%w: unsupported value %T", ErrInvalidAnswer, v)
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.kind == AnswerNone {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = Answer{}
		return nil
	}
	parsed, err := AnswerFromValue(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ResolveAnswer checks that a fits question q and returns it in canonical form.
func ResolveAnswer(q Question, a Answer) (Answer, error) {
	switch q.Type {
	case QuestionMultipleChoice:
		choice, ok := a.Choice()
		if !ok {
			return Answer{}, fmt.Errorf("%w: question %s expects an option", ErrInvalidAnswer, q.ID)
		}
		for _, opt := range q.Options {
			if opt == choice {
				return a, nil
			}
		}
		return Answer{}, fmt.Errorf("%w: %q is not an option of question %s", ErrInvalidAnswer, choice, q.ID)
	case QuestionSlidingBar:
		value, ok := a.Scale()
		if !ok {
			return Answer{}, fmt.Errorf("%w: question %s expects a number", ErrInvalidAnswer, q.ID)
		}
		if math.IsNaN(value) || value != math.Trunc(value) || value < ScaleMin || value > ScaleMax {
			return Answer{}, fmt.Errorf("%w: question %s expects an integer in [%d,%d], got %v", ErrInvalidAnswer, q.ID, ScaleMin, ScaleMax, value)
		}
		return a, nil
	default:
		return Answer{}, fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, q.Type)
	}
}

// ResolveAnswers validates a possibly partial answer set against the quiz.
// Keys that name no question are rejected.
func ResolveAnswers(quiz Quiz, answers AnswerSet) (AnswerSet, error) {
	out := make(AnswerSet, len(answers))
	for id, a := range answers {
		q, ok := quiz.Question(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
		}
		resolved, err := ResolveAnswer(q, a)
		if err != nil {
			return nil, err
		}
		out[id] = resolved
	}
	return out, nil
}
