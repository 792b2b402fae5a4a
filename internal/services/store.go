package services

import (
	"context"
	"errors"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadySubmittedToday is returned when a user tries to submit a second
// mood entry within the same UTC calendar day. The unique (user_id, entry_day)
// index makes this authoritative even under concurrent submissions.
var ErrAlreadySubmittedToday = errors.New("mood entry already submitted today")

// ActionType identifies a rate-limited user action.
type ActionType string

const (
	ActionTypePost    ActionType = "post"
	ActionTypeComment ActionType = "comment"
)

func (a ActionType) collection() string {
	if a == ActionTypeComment {
		return "comments"
	}
	return "posts"
}

// Store is the persistence surface the content-trust engine depends on.
// All queries filter on user_id plus a created_at range; nothing here is
// cached, every check re-reads the store.
type Store interface {
	CountActionsSince(ctx context.Context, userID string, action ActionType, since time.Time) (int64, error)
	PostsSince(ctx context.Context, userID string, since time.Time) ([]models.Post, error)
	CommentsSince(ctx context.Context, userID string, since time.Time) ([]models.Comment, error)
	HasMoodEntryBetween(ctx context.Context, userID string, from, to time.Time) (bool, error)

	InsertPost(ctx context.Context, post *models.Post) error
	InsertComment(ctx context.Context, comment *models.Comment) error
	InsertMoodEntry(ctx context.Context, entry *models.MoodEntry) error
	InsertJournal(ctx context.Context, journal *models.Journal) error

	ListPosts(ctx context.Context, limit, skip int) ([]models.Post, int64, error)
	ListComments(ctx context.Context, postID string, limit, skip int) ([]models.Comment, int64, error)
	ListMoodEntries(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error)
	ListJournals(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error)
}

// MongoStore implements Store on top of the MongoDB content collections.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) CountActionsSince(ctx context.Context, userID string, action ActionType, since time.Time) (int64, error) {
	return s.db.Collection(action.collection()).CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	})
}

func (s *MongoStore) PostsSince(ctx context.Context, userID string, since time.Time) ([]models.Post, error) {
	cursor, err := s.db.Collection("posts").Find(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoStore) CommentsSince(ctx context.Context, userID string, since time.Time) ([]models.Comment, error) {
	cursor, err := s.db.Collection("comments").Find(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *MongoStore) HasMoodEntryBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	count, err := s.db.Collection("mood_entries").CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lte": to},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) InsertPost(ctx context.Context, post *models.Post) error {
	_, err := s.db.Collection("posts").InsertOne(ctx, post)
	return err
}

func (s *MongoStore) InsertComment(ctx context.Context, comment *models.Comment) error {
	_, err := s.db.Collection("comments").InsertOne(ctx, comment)
	return err
}

func (s *MongoStore) InsertMoodEntry(ctx context.Context, entry *models.MoodEntry) error {
	_, err := s.db.Collection("mood_entries").InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadySubmittedToday
	}
	return err
}

func (s *MongoStore) InsertJournal(ctx context.Context, journal *models.Journal) error {
	_, err := s.db.Collection("journals").InsertOne(ctx, journal)
	return err
}

func (s *MongoStore) ListPosts(ctx context.Context, limit, skip int) ([]models.Post, int64, error) {
	var posts []models.Post
	total, err := s.list(ctx, "posts", bson.M{}, limit, skip, &posts)
	return posts, total, err
}

func (s *MongoStore) ListComments(ctx context.Context, postID string, limit, skip int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	total, err := s.list(ctx, "comments", bson.M{"post_id": postID}, limit, skip, &comments)
	return comments, total, err
}

func (s *MongoStore) ListMoodEntries(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error) {
	var entries []models.MoodEntry
	total, err := s.list(ctx, "mood_entries", bson.M{"user_id": userID}, limit, skip, &entries)
	return entries, total, err
}

func (s *MongoStore) ListJournals(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error) {
	var journals []models.Journal
	total, err := s.list(ctx, "journals", bson.M{"user_id": userID}, limit, skip, &journals)
	return journals, total, err
}

// list runs the shared count + newest-first page query.
func (s *MongoStore) list(ctx context.Context, collection string, filter bson.M, limit, skip int, dest interface{}) (int64, error) {
	coll := s.db.Collection(collection)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})
	findOptions.SetLimit(int64(limit))
	findOptions.SetSkip(int64(skip))

	cursor, err := coll.Find(ctx, filter, findOptions)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, dest); err != nil {
		return 0, err
	}
	return total, nil
}
