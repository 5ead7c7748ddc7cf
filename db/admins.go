package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// ErrAdminExists is returned when creating an admin whose email is taken.
var ErrAdminExists = errors.New("admin already exists")

// AdminStore manages content administrator accounts.
type AdminStore struct {
	coll *mongo.Collection
}

func NewAdminStore(database *mongo.Database) *AdminStore {
	return &AdminStore{coll: database.Collection(AdminsCollection)}
}

func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

// Create inserts a new admin. The password must already be hashed.
func (s *AdminStore) Create(ctx context.Context, admin models.Admin) (models.Admin, error) {
	if _, err := s.FindByEmail(ctx, admin.Email); err == nil {
		return models.Admin{}, ErrAdminExists
	} else if !errors.Is(err, ErrNotFound) {
		return models.Admin{}, err
	}

	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	result, err := s.coll.InsertOne(ctx, admin)
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		admin.ID = id
	}
	return admin, nil
}
