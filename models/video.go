package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoSession is a video call with a persona's avatar replica.
type VideoSession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"userId" json:"userId"`
	PersonaID       string             `bson:"personaId" json:"personaId"`
	ConversationID  string             `bson:"conversationId" json:"conversationId"`
	ConversationURL string             `bson:"conversationUrl" json:"conversationUrl"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	EndedAt         *time.Time         `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
}
