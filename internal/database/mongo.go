package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

// ConnectMongo connects to MongoDB and selects the database named in the URI
// (default "evermind").
func ConnectMongo(mongoURI string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}

	Client = client
	DB = client.Database(mongoDBName(mongoURI))

	log.Println("✅ Connected to MongoDB")
	return nil
}

func mongoDBName(mongoURI string) string {
	dbName := "evermind"
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			dbName = dbPart
		}
	}
	return dbName
}

// EnsureContentIndexes creates the indexes the content-trust queries depend
// on. The unique (user_id, entry_day) index on mood_entries is the
// authoritative guard for the one-mood-submission-per-day rule: the
// canSubmit pre-check is only a fast path, a duplicate-key error on insert is
// the real signal.
func EnsureContentIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	moodIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "entry_day", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_entry_day"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_at"),
		},
	}
	if _, err := DB.Collection("mood_entries").Indexes().CreateMany(ctx, moodIdx); err != nil {
		return err
	}

	windowIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_at"),
		},
	}
	for _, coll := range []string{"posts", "comments", "journals"} {
		if _, err := DB.Collection(coll).Indexes().CreateMany(ctx, windowIdx); err != nil {
			return err
		}
	}

	return nil
}

func DisconnectMongo() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}
