package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feedback-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// RecordStore keeps quizzes as JSONB documents and responses as an append-only table.
type RecordStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool, now: time.Now}
}

func (s *RecordStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

// PutQuiz upserts the whole document; owner_id and created_at are written once.
func (s *RecordStore) PutQuiz(ctx context.Context, quiz domain.Quiz) (string, error) {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = s.now().UTC()
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return "", fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (id, owner_id, data, created_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		quiz.ID, quiz.OwnerID, string(data), quiz.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("put quiz: %w", err)
	}
	return quiz.ID, nil
}

func (s *RecordStore) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM quizzes WHERE owner_id=$1 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]domain.Quiz, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			return nil, fmt.Errorf("unmarshal quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *RecordStore) AppendResponse(ctx context.Context, quizID string, answers domain.AnswerSet) (string, error) {
	data, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO responses (id, quiz_id, answers, created_at) VALUES ($1, $2, $3::jsonb, $4)`,
		id, quizID, string(data), s.now().UTC())
	if err != nil {
		return "", fmt.Errorf("append response: %w", err)
	}
	return id, nil
}

func (s *RecordStore) ListResponses(ctx context.Context, quizID string) ([]domain.ResponseRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, answers, created_at FROM responses WHERE quiz_id=$1`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ResponseRecord, 0)
	for rows.Next() {
		rec := domain.ResponseRecord{QuizID: quizID}
		var raw []byte
		if err := rows.Scan(&rec.ID, &raw, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal(raw, &rec.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
