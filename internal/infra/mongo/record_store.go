package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback-quiz-service/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	quizzesCollection   = "quizzes"
	responsesCollection = "responses"
)

type quizDoc struct {
	ID         string            `bson:"_id"`
	OwnerID    string            `bson:"ownerId"`
	Title      string            `bson:"title"`
	Questions  []domain.Question `bson:"questions"`
	EndMessage string            `bson:"endMessage,omitempty"`
	CreatedAt  time.Time         `bson:"createdAt"`
}

type responseDoc struct {
	ID        string         `bson:"_id"`
	QuizID    string         `bson:"quizId"`
	Answers   map[string]any `bson:"answers"`
	CreatedAt time.Time      `bson:"createdAt"`
}

// RecordStore persists quizzes and responses as MongoDB documents.
type RecordStore struct {
	quizzes   *mongo.Collection
	responses *mongo.Collection
	now       func() time.Time
}

func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{
		quizzes:   db.Collection(quizzesCollection),
		responses: db.Collection(responsesCollection),
		now:       time.Now,
	}
}

// EnsureIndexes creates the lookup indexes used by owner listings and results.
func (s *RecordStore) EnsureIndexes(ctx context.Context) error {
	if _, err := s.quizzes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("quiz index: %w", err)
	}
	if _, err := s.responses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "quizId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("response index: %w", err)
	}
	return nil
}

func (s *RecordStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var doc quizDoc
	err := s.quizzes.FindOne(ctx, bson.M{"_id": quizID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return doc.quiz(), nil
}

func (s *RecordStore) PutQuiz(ctx context.Context, quiz domain.Quiz) (string, error) {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = s.now().UTC()
	}
	// BSON datetimes keep milliseconds only.
	quiz.CreatedAt = quiz.CreatedAt.Truncate(time.Millisecond)
	doc := quizDoc{
		ID:         quiz.ID,
		OwnerID:    quiz.OwnerID,
		Title:      quiz.Title,
		Questions:  quiz.Questions,
		EndMessage: quiz.EndMessage,
		CreatedAt:  quiz.CreatedAt,
	}
	_, err := s.quizzes.ReplaceOne(ctx, bson.M{"_id": quiz.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("put quiz: %w", err)
	}
	return quiz.ID, nil
}

func (s *RecordStore) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.quizzes.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	var docs []quizDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	out := make([]domain.Quiz, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.quiz())
	}
	return out, nil
}

func (s *RecordStore) AppendResponse(ctx context.Context, quizID string, answers domain.AnswerSet) (string, error) {
	doc := responseDoc{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		Answers:   make(map[string]any, len(answers)),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	for id, a := range answers {
		doc.Answers[id] = a.Value()
	}
	if _, err := s.responses.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("append response: %w", err)
	}
	return doc.ID, nil
}

func (s *RecordStore) ListResponses(ctx context.Context, quizID string) ([]domain.ResponseRecord, error) {
	cursor, err := s.responses.Find(ctx, bson.M{"quizId": quizID})
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	var docs []responseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	out := make([]domain.ResponseRecord, 0, len(docs))
	for _, d := range docs {
		rec := domain.ResponseRecord{
			ID:        d.ID,
			QuizID:    d.QuizID,
			Answers:   make(domain.AnswerSet, len(d.Answers)),
			CreatedAt: d.CreatedAt,
		}
		for id, v := range d.Answers {
			a, err := domain.AnswerFromValue(v)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", d.ID, err)
			}
			rec.Answers[id] = a
		}
		out = append(out, rec)
	}
	return out, nil
}

func (d quizDoc) quiz() domain.Quiz {
	questions := d.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	return domain.Quiz{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		Title:      d.Title,
		Questions:  questions,
		EndMessage: d.EndMessage,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}
