package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Persona is an AI companion profile the user can talk to.
type Persona struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Style       string             `bson:"style" json:"style"`
	Description string             `bson:"description" json:"description"`
	AvatarURL   string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	ReplicaID   string             `bson:"replicaId,omitempty" json:"replicaId,omitempty"` // Tavus replica
}
