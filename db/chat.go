package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// ChatStore persists chat transcripts.
type ChatStore struct {
	coll *mongo.Collection
}

func NewChatStore(database *mongo.Database) *ChatStore {
	return &ChatStore{coll: database.Collection(ChatMessagesCollection)}
}

// Append stores one chat turn and returns it with its id set.
func (s *ChatStore) Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	result, err := s.coll.InsertOne(ctx, msg)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to store chat message: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = id
	}
	return msg, nil
}

// History returns up to limit most recent turns, oldest first.
func (s *ChatStore) History(ctx context.Context, userID, personaID string, limit int) ([]models.ChatMessage, error) {
	return s.recent(ctx, bson.M{"userId": userID, "personaId": personaID}, limit)
}

// RecentUserTexts returns the texts of the last n user-authored turns, oldest
// first.
func (s *ChatStore) RecentUserTexts(ctx context.Context, userID, personaID string, n int) ([]string, error) {
	messages, err := s.recent(ctx, bson.M{"userId": userID, "personaId": personaID, "sender": models.SenderUser}, n)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Text)
	}
	return texts, nil
}

func (s *ChatStore) recent(ctx context.Context, filter bson.M, limit int) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
