package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// DailyMessageStore is the per (user, persona) pool of daily messages.
type DailyMessageStore struct {
	coll *mongo.Collection
}

func NewDailyMessageStore(database *mongo.Database) *DailyMessageStore {
	return &DailyMessageStore{coll: database.Collection(DailyMessagesCollection)}
}

func unusedFilter(userID, personaID string) bson.M {
	return bson.M{"userId": userID, "personaId": personaID, "used": false}
}

// CountUnused returns how many messages remain unused in the pool.
func (s *DailyMessageStore) CountUnused(ctx context.Context, userID, personaID string) (int, error) {
	count, err := s.coll.CountDocuments(ctx, unusedFilter(userID, personaID))
	if err != nil {
		return 0, fmt.Errorf("failed to count unused daily messages: %w", err)
	}
	return int(count), nil
}

// PickAndMarkUsed takes one unused message at random and marks it used. The
// used flag flips in a single conditional update, so two concurrent callers
// can never receive the same message. ok is false only when no unused message
// is left.
func (s *DailyMessageStore) PickAndMarkUsed(ctx context.Context, userID, personaID string) (string, bool, error) {
	return pickUnused(ctx,
		func(ctx context.Context) (primitive.ObjectID, bool, error) {
			return s.sampleUnused(ctx, userID, personaID)
		},
		s.claim,
	)
}

// pickUnused samples and claims until a claim succeeds or the pool is empty.
// A lost claim means another caller used that message, so the pool shrinks
// on every retry.
func pickUnused(
	ctx context.Context,
	sample func(context.Context) (primitive.ObjectID, bool, error),
	claim func(context.Context, primitive.ObjectID) (string, bool, error),
) (string, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", false, fmt.Errorf("daily message pick interrupted: %w", err)
		}
		id, found, err := sample(ctx)
		if err != nil {
			return "", false, err
		}
		if !found {
			return "", false, nil
		}
		text, claimed, err := claim(ctx, id)
		if err != nil {
			return "", false, err
		}
		if claimed {
			return text, true, nil
		}
	}
}

// claim flips used on id if it is still unused. claimed is false when another
// caller got there first.
func (s *DailyMessageStore) claim(ctx context.Context, id primitive.ObjectID) (string, bool, error) {
	var picked models.DailyMessage
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "used": false},
		bson.M{"$set": bson.M{"used": true, "usedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&picked)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to mark daily message used: %w", err)
	}
	return picked.MessageText, true, nil
}

func (s *DailyMessageStore) sampleUnused(ctx context.Context, userID, personaID string) (primitive.ObjectID, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: unusedFilter(userID, personaID)}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return primitive.NilObjectID, false, fmt.Errorf("failed to sample daily message: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return primitive.NilObjectID, false, cursor.Err()
	}
	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.Decode(&doc); err != nil {
		return primitive.NilObjectID, false, fmt.Errorf("failed to decode sampled message: %w", err)
	}
	return doc.ID, true, nil
}

// InsertMessages adds freshly generated messages to the pool as unused.
func (s *DailyMessageStore) InsertMessages(ctx context.Context, userID, personaID string, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	now := time.Now()
	documents := make([]interface{}, 0, len(texts))
	for _, text := range texts {
		documents = append(documents, models.DailyMessage{
			UserID:      userID,
			PersonaID:   personaID,
			MessageText: text,
			CreatedAt:   now,
		})
	}
	if _, err := s.coll.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to store daily messages: %w", err)
	}
	return nil
}
