package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
)

type errorPayload struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Message: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrEmptyQuiz),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, domain.ErrAnswerRequired),
		errors.Is(err, domain.ErrCannotRetreat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionComplete),
		errors.Is(err, domain.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// clientError logs server-side failures and returns a client-safe message.
func clientError(ctx context.Context, err error) (int, string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		config.WithContext(ctx).WithError(err).Error("request failed")
		return status, http.StatusText(status)
	}
	return status, err.Error()
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := clientError(r.Context(), err)
	writeError(w, status, msg)
}
