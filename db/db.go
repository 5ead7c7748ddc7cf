package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PersonasCollection        = "personas"
	QuestionsCollection       = "questions"
	AssessmentsCollection     = "assessments"
	RecommendationsCollection = "recommendations"
	DailyMessagesCollection   = "daily_messages"
	ChatMessagesCollection    = "chat_messages"
	VideoSessionsCollection   = "video_sessions"
	AdminsCollection          = "admins"
)

// ErrNotFound is returned by stores when a lookup matches no document.
var ErrNotFound = errors.New("not found")

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// extractDBName parses the database name from the URI, defaulting to "mindhaven"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mindhaven"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "mindhaven"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	logger.Info("Using database", "name", dbName)

	MongoDatabase = client.Database(dbName)
	return nil
}

// EnsureIndexes creates the indexes the stores rely on. Safe to call on every
// start.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		DailyMessagesCollection: {
			{Keys: bsonD("userId", "personaId", "used")},
		},
		ChatMessagesCollection: {
			{Keys: bsonD("userId", "personaId", "createdAt")},
		},
		RecommendationsCollection: {
			{Keys: bsonD("userId", "createdAt")},
		},
		QuestionsCollection: {
			{Keys: bsonD("index"), Options: options.Index().SetUnique(true)},
		},
		PersonasCollection: {
			{Keys: bsonD("name"), Options: options.Index().SetUnique(true)},
		},
		AdminsCollection: {
			{Keys: bsonD("email"), Options: options.Index().SetUnique(true)},
		},
	}

	for collection, specs := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
