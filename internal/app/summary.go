package app

import (
	"math"
	"sort"

	"feedback-quiz-service/internal/domain"
)

// Summarize tallies every answer given to one question.
// The caller filters out respondents who never answered it.
func Summarize(question domain.Question, answers []domain.Answer) domain.QuestionSummary {
	summary := domain.QuestionSummary{
		QuestionID: question.ID,
		Type:       question.Type,
		Text:       question.Text,
	}
	switch question.Type {
	case domain.QuestionMultipleChoice:
		summarizeChoice(&summary, question.Options, answers)
	case domain.QuestionSlidingBar:
		summarizeScale(&summary, answers)
	}
	summary.NoResponses = summary.Total == 0
	return summary
}

func summarizeChoice(summary *domain.QuestionSummary, options []string, answers []domain.Answer) {
	counts := make([]domain.OptionCount, len(options))
	index := make(map[string]int, len(options))
	for i, opt := range options {
		counts[i] = domain.OptionCount{Option: opt}
		if _, dup := index[opt]; !dup {
			index[opt] = i
		}
	}

	// Answers matching no option (stale data from an edited question) still count toward the total.
	for _, a := range answers {
		if choice, ok := a.Choice(); ok {
			if i, known := index[choice]; known {
				counts[i].Count++
			}
		}
	}

	summary.Total = len(answers)
	if summary.Total > 0 {
		for i := range counts {
			counts[i].Percentage = percentage(counts[i].Count, summary.Total)
		}
	}
	summary.Options = counts
}

func summarizeScale(summary *domain.QuestionSummary, answers []domain.Answer) {
	buckets := make([]domain.ScaleBucket, domain.ScaleMax-domain.ScaleMin+1)
	for i := range buckets {
		buckets[i].Value = domain.ScaleMin + i
	}

	values := make([]float64, 0, len(answers))
	for _, a := range answers {
		if v, ok := a.Scale(); ok && !math.IsNaN(v) {
			values = append(values, v)
		}
	}

	for _, v := range values {
		bucket := int(math.Floor(v + 0.5))
		if bucket >= domain.ScaleMin && bucket <= domain.ScaleMax {
			buckets[bucket-domain.ScaleMin].Count++
		}
	}

	summary.Total = len(values)
	if summary.Total > 0 {
		for i := range buckets {
			buckets[i].Percentage = percentage(buckets[i].Count, summary.Total)
		}
		avg := mean(values)
		summary.Average = &avg
	}
	summary.Buckets = buckets
}

func percentage(count, total int) float64 {
	return float64(count) / float64(total) * 100
}

// mean sums in sorted order so the result does not depend on arrival order.
func mean(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

// SummarizeQuiz builds the results view for every question in authored order.
func SummarizeQuiz(quiz domain.Quiz, records []domain.ResponseRecord) domain.QuizResults {
	results := domain.QuizResults{
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		ResponseCount: len(records),
		Summaries:     make([]domain.QuestionSummary, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		results.Summaries = append(results.Summaries, Summarize(q, answersFor(q.ID, records)))
	}
	return results
}

func answersFor(questionID string, records []domain.ResponseRecord) []domain.Answer {
	out := make([]domain.Answer, 0, len(records))
	for _, rec := range records {
		if a, ok := rec.Answers[questionID]; ok && a.Kind() != domain.AnswerNone {
			out = append(out, a)
		}
	}
	return out
}
