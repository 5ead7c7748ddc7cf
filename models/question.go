package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectionMode says how many options a question accepts.
type SelectionMode string

const (
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// Question is one onboarding prompt. Index is its stable position in the flow.
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Index         int                `bson:"index" json:"index"`
	Prompt        string             `bson:"prompt" json:"prompt"`
	SelectionMode SelectionMode      `bson:"selectionMode" json:"selectionMode"`
	Options       []Option           `bson:"options" json:"options"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Option is a selectable answer. Every persona in MatchingRoles receives one
// vote when the option is picked.
type Option struct {
	Key           string   `bson:"key" json:"key"`
	Label         string   `bson:"label" json:"label"`
	MatchingRoles []string `bson:"matchingRoles" json:"matchingRoles"`
}

// AnswerSet maps a question index to the option keys selected for it.
type AnswerSet map[int][]string

// Assessment is the immutable snapshot of one completed onboarding run.
type Assessment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string              `bson:"userId" json:"userId"`
	BatchID   string              `bson:"batchId" json:"batchId"`
	Answers   map[string][]string `bson:"answers" json:"answers"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
