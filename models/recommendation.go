package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommendation is a ranked persona produced by the recommendation engine.
type Recommendation struct {
	PersonaName string `json:"personaName"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

// RecommendationRecord is a persisted recommendation row. Rows are insert-only;
// every onboarding run writes a new batch.
type RecommendationRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string             `bson:"userId" json:"userId"`
	PersonaID   string             `bson:"personaId" json:"personaId"`
	PersonaName string             `bson:"personaName" json:"personaName"`
	Score       int                `bson:"score" json:"score"`
	Rank        int                `bson:"rank" json:"rank"`
	BatchID     string             `bson:"batchId" json:"batchId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
