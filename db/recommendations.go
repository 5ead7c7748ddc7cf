package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// RecommendationStore persists onboarding snapshots and recommendation rows.
// Both are insert-only: a re-run of onboarding adds a new batch.
type RecommendationStore struct {
	assessments     *mongo.Collection
	recommendations *mongo.Collection
}

func NewRecommendationStore(database *mongo.Database) *RecommendationStore {
	return &RecommendationStore{
		assessments:     database.Collection(AssessmentsCollection),
		recommendations: database.Collection(RecommendationsCollection),
	}
}

// SaveAssessment stores the submitted answer snapshot.
func (s *RecommendationStore) SaveAssessment(ctx context.Context, assessment models.Assessment) error {
	if _, err := s.assessments.InsertOne(ctx, assessment); err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// InsertBatch stores one batch of recommendation rows.
func (s *RecommendationStore) InsertBatch(ctx context.Context, records []models.RecommendationRecord) error {
	if len(records) == 0 {
		return nil
	}
	documents := make([]interface{}, 0, len(records))
	for _, r := range records {
		documents = append(documents, r)
	}
	if _, err := s.recommendations.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to save recommendations: %w", err)
	}
	return nil
}

// Latest returns the most recent batch for userID ordered by rank.
func (s *RecommendationStore) Latest(ctx context.Context, userID string) ([]models.RecommendationRecord, error) {
	var newest models.RecommendationRecord
	err := s.recommendations.FindOne(ctx,
		bson.M{"userId": userID},
		options.FindOne().SetSort(bson.M{"createdAt": -1}),
	).Decode(&newest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recommendations: %w", err)
	}

	cursor, err := s.recommendations.Find(ctx,
		bson.M{"userId": userID, "batchId": newest.BatchID},
		options.Find().SetSort(bson.M{"rank": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation batch: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.RecommendationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return records, nil
}
