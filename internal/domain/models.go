package domain

import "time"

// QuestionType tags how a question is answered.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionSlidingBar     QuestionType = "sliding-bar"
)

// Valid reports whether t belongs to the closed set of question types.
func (t QuestionType) Valid() bool {
	return t == QuestionMultipleChoice || t == QuestionSlidingBar
}

const (
	// DefaultTitle replaces a blank quiz title.
	DefaultTitle = "My Feedback Quiz"
	// DefaultEndMessage replaces a blank closing message.
	DefaultEndMessage = "Thank you for your feedback!"

	// ScaleMin and ScaleMax bound sliding-bar answers.
	ScaleMin = 0
	ScaleMax = 10
)

// Question is one survey item. Options are present only for multiple-choice.
type Question struct {
	ID      string       `json:"id" bson:"id"`
	Type    QuestionType `json:"type" bson:"type"`
	Text    string       `json:"text" bson:"text"`
	Options []string     `json:"options,omitempty" bson:"options,omitempty"`
}

// Quiz is an authored survey owned by one user.
type Quiz struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	Title      string     `json:"title"`
	Questions  []Question `json:"questions"`
	EndMessage string     `json:"endMessage,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Question returns the question with the given id.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// ResponseRecord is a persisted, immutable answer set.
type ResponseRecord struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quizId"`
	Answers   AnswerSet `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
}

// OptionCount is the tally for one multiple-choice option.
type OptionCount struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ScaleBucket is the tally for one sliding-bar value.
type ScaleBucket struct {
	Value      int     `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionSummary is the derived statistic for one question.
type QuestionSummary struct {
	QuestionID  string        `json:"questionId"`
	Type        QuestionType  `json:"type"`
	Text        string        `json:"text"`
	Total       int           `json:"total"`
	NoResponses bool          `json:"noResponses"`
	Options     []OptionCount `json:"options,omitempty"`
	Buckets     []ScaleBucket `json:"buckets,omitempty"`
	Average     *float64      `json:"average,omitempty"`
}

// QuizResults bundles every question summary for the owner's results view.
type QuizResults struct {
	QuizID        string            `json:"quizId"`
	Title         string            `json:"title"`
	ResponseCount int               `json:"responseCount"`
	Summaries     []QuestionSummary `json:"summaries"`
}

// Draft is the server-held state of one respondent session.
type Draft struct {
	SessionID string    `json:"sessionId"`
	QuizID    string    `json:"quizId"`
	Index     int       `json:"index"`
	Complete  bool      `json:"complete"`
	Answers   AnswerSet `json:"answers"`
	UpdatedAt time.Time `json:"updatedAt"`
}
