package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"feedback-quiz-service/internal/app"
	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Handler serves the REST API for owners and respondents.
type Handler struct {
	quizzes     *app.QuizService
	respondents *app.RespondentService
	feedback    *app.FeedbackService
	publicURL   string
}

func NewHandler(quizzes *app.QuizService, respondents *app.RespondentService, feedback *app.FeedbackService, publicURL string) *Handler {
	return &Handler{
		quizzes:     quizzes,
		respondents: respondents,
		feedback:    feedback,
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

type savedQuiz struct {
	Quiz     domain.Quiz `json:"quiz"`
	ShareURL string      `json:"shareUrl,omitempty"`
}

type quizSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Questions int       `json:"questions"`
	CreatedAt time.Time `json:"createdAt"`
	ShareURL  string    `json:"shareUrl,omitempty"`
}

// publicQuiz is what respondents see; the owner stays hidden.
type publicQuiz struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Questions  []domain.Question `json:"questions"`
	EndMessage string            `json:"endMessage,omitempty"`
}

type feedbackRequest struct {
	Answers domain.AnswerSet `json:"answers"`
}

type feedbackResponse struct {
	Feedback string `json:"feedback"`
}

type answerRequest struct {
	Answer domain.Answer `json:"answer"`
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var draft domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	draft.ID = ""
	h.saveQuiz(w, r, draft, http.StatusCreated)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var draft domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	draft.ID = chi.URLParam(r, "id")
	h.saveQuiz(w, r, draft, http.StatusOK)
}

func (h *Handler) saveQuiz(w http.ResponseWriter, r *http.Request, draft domain.Quiz, status int) {
	ownerID, _ := OwnerFromContext(r.Context())
	quiz, err := h.quizzes.SaveQuiz(r.Context(), ownerID, draft)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, status, savedQuiz{Quiz: quiz, ShareURL: h.shareURL(quiz.ID)})
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := OwnerFromContext(r.Context())
	quizzes, err := h.quizzes.ListQuizzes(r.Context(), ownerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]quizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, quizSummary{
			ID:        q.ID,
			Title:     q.Title,
			Questions: len(q.Questions),
			CreatedAt: q.CreatedAt,
			ShareURL:  h.shareURL(q.ID),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := OwnerFromContext(r.Context())
	results, err := h.quizzes.Results(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicQuiz{
		ID:         quiz.ID,
		Title:      quiz.Title,
		Questions:  quiz.Questions,
		EndMessage: quiz.EndMessage,
	})
}

func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text, err := h.feedback.ForQuiz(r.Context(), chi.URLParam(r, "id"), req.Answers)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackResponse{Feedback: text})
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.respondents.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.respondents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.respondents.Answer(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "questionId"), req.Answer)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	view, err := h.respondents.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	view, err := h.respondents.Retreat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := h.respondents.Abandon(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	config.WithContext(r.Context()).Debug("session draft cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) shareURL(quizID string) string {
	if h.publicURL == "" || quizID == "" {
		return ""
	}
	return h.publicURL + "/quiz/" + quizID
}
