package http

import (
	"context"
	"encoding/json"
	"net/http"

	"feedback-quiz-service/internal/app"
	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler drives one respondent session over a websocket.
type WSHandler struct {
	respondents *app.RespondentService
	feedback    *app.FeedbackService
	upgrader    websocket.Upgrader
}

func NewWSHandler(respondents *app.RespondentService, feedback *app.FeedbackService) *WSHandler {
	return &WSHandler{
		respondents: respondents,
		feedback:    feedback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string        `json:"questionId"`
	Answer     domain.Answer `json:"answer"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServeWS starts a session for ?quizId= or resumes ?sessionId=, then handles
// answer, next, prev and feedback messages until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	sessionID := r.URL.Query().Get("sessionId")
	if quizID == "" && sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing quizId or sessionId")
		return
	}

	log := config.WithContext(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	var view app.SessionView
	if sessionID != "" {
		view, err = h.respondents.Get(ctx, sessionID)
	} else {
		view, err = h.respondents.Start(ctx, quizID)
	}
	if err != nil {
		_ = conn.WriteJSON(errorMessage(ctx, err))
		return
	}
	sessionID = view.SessionID

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Warn("ws write failed")
				return
			}
		}
	}()

	send <- outboundMessage{Type: "session", Payload: view}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var (
			next app.SessionView
			out  outboundMessage
			err  error
		)
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if jerr := json.Unmarshal(inbound.Payload, &payload); jerr != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid answer payload", Status: http.StatusBadRequest}}
				continue
			}
			next, err = h.respondents.Answer(ctx, sessionID, payload.QuestionID, payload.Answer)
			out = outboundMessage{Type: "session", Payload: next}
		case "next":
			next, err = h.respondents.Advance(ctx, sessionID)
			out = outboundMessage{Type: "session", Payload: next}
			if next.Complete {
				out.Type = "submitted"
			}
		case "prev":
			next, err = h.respondents.Retreat(ctx, sessionID)
			out = outboundMessage{Type: "session", Payload: next}
		case "feedback":
			var text string
			next = view
			text, err = h.feedback.ForQuiz(ctx, view.QuizID, view.Answers)
			out = outboundMessage{Type: "feedback", Payload: feedbackResponse{Feedback: text}}
		default:
			send <- outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type", Status: http.StatusBadRequest}}
			continue
		}

		if err != nil {
			send <- errorMessage(ctx, err)
			continue
		}
		view = next
		send <- out
	}

	close(send)
	<-writerDone
}

func errorMessage(ctx context.Context, err error) outboundMessage {
	status, msg := clientError(ctx, err)
	return outboundMessage{Type: "error", Payload: errorPayload{Message: msg, Status: status}}
}
