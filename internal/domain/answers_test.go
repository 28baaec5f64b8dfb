package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAnswerSetJSON(t *testing.T) {
	var set AnswerSet
	if err := json.Unmarshal([]byte(`{"q1":"Yes","q2":7}`), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if choice, ok := set["q1"].Choice(); !ok || choice != "Yes" {
		t.Fatalf("expected choice Yes, got %+v", set["q1"])
	}
	if value, ok := set["q2"].Scale(); !ok || value != 7 {
		t.Fatalf("expected scale 7, got %+v", set["q2"])
	}

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"q1":"Yes","q2":7}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestAnswerRejectsObjects(t *testing.T) {
	var a Answer
	if err := json.Unmarshal([]byte(`{"x":1}`), &a); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
}

func TestResolveAnswer(t *testing.T) {
	choice := Question{ID: "q1", Type: QuestionMultipleChoice, Text: "Pick", Options: []string{"Yes", "No"}}
	slider := Question{ID: "q2", Type: QuestionSlidingBar, Text: "Rate"}

	if _, err := ResolveAnswer(choice, ChoiceAnswer("Yes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ResolveAnswer(choice, ChoiceAnswer("Maybe")); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected unknown option rejected, got %v", err)
	}
	if _, err := ResolveAnswer(choice, ScaleAnswer(3)); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected number rejected for choice, got %v", err)
	}
	if _, err := ResolveAnswer(slider, ScaleAnswer(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range []float64{-1, 11, 4.5} {
		if _, err := ResolveAnswer(slider, ScaleAnswer(v)); !errors.Is(err, ErrInvalidAnswer) {
			t.Fatalf("expected %v rejected, got %v", v, err)
		}
	}
	if _, err := ResolveAnswer(slider, ChoiceAnswer("7")); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected string rejected for slider, got %v", err)
	}
}

func TestResolveAnswersUnknownQuestion(t *testing.T) {
	quiz := Quiz{Questions: []Question{{ID: "q1", Type: QuestionSlidingBar, Text: "Rate"}}}
	_, err := ResolveAnswers(quiz, AnswerSet{"ghost": ScaleAnswer(1)})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestGenerationErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("upstream 503")
	err := error(&GenerationError{Err: cause})
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause to match: %v", err)
	}
}
