package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Handler   *Handler
	WSHandler *WSHandler
	Auth      *Authenticator
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", cfg.WSHandler.ServeWS)

	h := cfg.Handler
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth.RequireOwner)
			r.Post("/quizzes", h.CreateQuiz)
			r.Get("/quizzes", h.ListQuizzes)
			r.Put("/quizzes/{id}", h.UpdateQuiz)
			r.Get("/quizzes/{id}/results", h.Results)
		})

		r.Get("/quizzes/{id}", h.GetQuiz)
		r.Post("/quizzes/{id}/feedback", h.Feedback)
		r.Post("/quizzes/{id}/sessions", h.StartSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.AbandonSession)
			r.Put("/answers/{questionId}", h.AnswerQuestion)
			r.Post("/advance", h.Advance)
			r.Post("/retreat", h.Retreat)
		})
	})
	return r
}
