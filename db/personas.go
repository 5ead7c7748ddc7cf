package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// PersonaStore reads and seeds the persona catalogue.
type PersonaStore struct {
	coll *mongo.Collection
}

func NewPersonaStore(database *mongo.Database) *PersonaStore {
	return &PersonaStore{coll: database.Collection(PersonasCollection)}
}

// List returns every persona ordered by name.
func (s *PersonaStore) List(ctx context.Context) ([]models.Persona, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer cursor.Close(ctx)

	var personas []models.Persona
	if err := cursor.All(ctx, &personas); err != nil {
		return nil, fmt.Errorf("failed to decode personas: %w", err)
	}
	return personas, nil
}

// FindByID looks a persona up by its hex id.
func (s *PersonaStore) FindByID(ctx context.Context, id string) (*models.Persona, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid persona id %q: %w", id, ErrNotFound)
	}

	var persona models.Persona
	err = s.coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&persona)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find persona: %w", err)
	}
	return &persona, nil
}

// FindByNames returns the personas with the given names keyed by name.
// Unknown names are simply absent from the result.
func (s *PersonaStore) FindByNames(ctx context.Context, names []string) (map[string]models.Persona, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("failed to find personas: %w", err)
	}
	defer cursor.Close(ctx)

	var personas []models.Persona
	if err := cursor.All(ctx, &personas); err != nil {
		return nil, fmt.Errorf("failed to decode personas: %w", err)
	}

	byName := make(map[string]models.Persona, len(personas))
	for _, p := range personas {
		byName[p.Name] = p
	}
	return byName, nil
}

// Seed upserts personas by name, leaving existing ids untouched.
func (s *PersonaStore) Seed(ctx context.Context, personas []models.Persona) error {
	for _, p := range personas {
		update := bson.M{"$setOnInsert": bson.M{
			"name":        p.Name,
			"style":       p.Style,
			"description": p.Description,
			"avatarUrl":   p.AvatarURL,
			"replicaId":   p.ReplicaID,
		}}
		_, err := s.coll.UpdateOne(ctx, bson.M{"name": p.Name}, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed persona %s: %w", p.Name, err)
		}
	}
	return nil
}
