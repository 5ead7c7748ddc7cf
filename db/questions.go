package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// QuestionStore holds the admin-authored onboarding questions.
type QuestionStore struct {
	coll *mongo.Collection
}

func NewQuestionStore(database *mongo.Database) *QuestionStore {
	return &QuestionStore{coll: database.Collection(QuestionsCollection)}
}

// List returns the questions ordered by index.
func (s *QuestionStore) List(ctx context.Context) ([]models.Question, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"index": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

// Upsert replaces the question at q.Index.
func (s *QuestionStore) Upsert(ctx context.Context, q models.Question) error {
	q.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"index":         q.Index,
		"prompt":        q.Prompt,
		"selectionMode": q.SelectionMode,
		"options":       q.Options,
		"updatedAt":     q.UpdatedAt,
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"index": q.Index}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save question %d: %w", q.Index, err)
	}
	return nil
}

// SeedIfEmpty inserts questions only when the collection has none.
func (s *QuestionStore) SeedIfEmpty(ctx context.Context, questions []models.Question) error {
	count, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	documents := make([]interface{}, 0, len(questions))
	now := time.Now()
	for _, q := range questions {
		q.UpdatedAt = now
		documents = append(documents, q)
	}
	if _, err := s.coll.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}
	return nil
}
