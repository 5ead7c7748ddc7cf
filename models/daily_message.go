package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyMessage is a pre-generated, single-use supportive message for one
// (user, persona) pair.
type DailyMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string             `bson:"userId" json:"userId"`
	PersonaID   string             `bson:"personaId" json:"personaId"`
	MessageText string             `bson:"messageText" json:"messageText"`
	Used        bool               `bson:"used" json:"used"`
	UsedAt      *time.Time         `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
