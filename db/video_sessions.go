package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

const (
	VideoStatusActive = "active"
	VideoStatusEnded  = "ended"
)

// VideoSessionStore records video calls with persona avatars.
type VideoSessionStore struct {
	coll *mongo.Collection
}

func NewVideoSessionStore(database *mongo.Database) *VideoSessionStore {
	return &VideoSessionStore{coll: database.Collection(VideoSessionsCollection)}
}

func (s *VideoSessionStore) Create(ctx context.Context, session models.VideoSession) (models.VideoSession, error) {
	session.Status = VideoStatusActive
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	result, err := s.coll.InsertOne(ctx, session)
	if err != nil {
		return models.VideoSession{}, fmt.Errorf("failed to store video session: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = id
	}
	return session, nil
}

// End marks the user's conversation as ended. It returns ErrNotFound when the
// user has no active session with that id.
func (s *VideoSessionStore) End(ctx context.Context, userID, conversationID string) error {
	now := time.Now()
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "conversationId": conversationID, "status": VideoStatusActive},
		bson.M{"$set": bson.M{"status": VideoStatusEnded, "endedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to end video session: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
