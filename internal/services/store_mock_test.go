package services

import (
	"context"
	"time"

	"github.com/evermind-app/evermind-backend/internal/models"
)

// mockStore implements Store with overridable function fields. Methods with a
// nil field return zero values.
type mockStore struct {
	countActionsSince   func(ctx context.Context, userID string, action ActionType, since time.Time) (int64, error)
	postsSince          func(ctx context.Context, userID string, since time.Time) ([]models.Post, error)
	commentsSince       func(ctx context.Context, userID string, since time.Time) ([]models.Comment, error)
	hasMoodEntryBetween func(ctx context.Context, userID string, from, to time.Time) (bool, error)
	insertPost          func(ctx context.Context, post *models.Post) error
	insertComment       func(ctx context.Context, comment *models.Comment) error
	insertMoodEntry     func(ctx context.Context, entry *models.MoodEntry) error
	insertJournal       func(ctx context.Context, journal *models.Journal) error
	listPosts           func(ctx context.Context, limit, skip int) ([]models.Post, int64, error)
	listComments        func(ctx context.Context, postID string, limit, skip int) ([]models.Comment, int64, error)
	listMoodEntries     func(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error)
	listJournals        func(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error)
}

func (m *mockStore) CountActionsSince(ctx context.Context, userID string, action ActionType, since time.Time) (int64, error) {
	if m.countActionsSince == nil {
		return 0, nil
	}
	return m.countActionsSince(ctx, userID, action, since)
}

func (m *mockStore) PostsSince(ctx context.Context, userID string, since time.Time) ([]models.Post, error) {
	if m.postsSince == nil {
		return nil, nil
	}
	return m.postsSince(ctx, userID, since)
}

func (m *mockStore) CommentsSince(ctx context.Context, userID string, since time.Time) ([]models.Comment, error) {
	if m.commentsSince == nil {
		return nil, nil
	}
	return m.commentsSince(ctx, userID, since)
}

func (m *mockStore) HasMoodEntryBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	if m.hasMoodEntryBetween == nil {
		return false, nil
	}
	return m.hasMoodEntryBetween(ctx, userID, from, to)
}

func (m *mockStore) InsertPost(ctx context.Context, post *models.Post) error {
	if m.insertPost == nil {
		return nil
	}
	return m.insertPost(ctx, post)
}

func (m *mockStore) InsertComment(ctx context.Context, comment *models.Comment) error {
	if m.insertComment == nil {
		return nil
	}
	return m.insertComment(ctx, comment)
}

func (m *mockStore) InsertMoodEntry(ctx context.Context, entry *models.MoodEntry) error {
	if m.insertMoodEntry == nil {
		return nil
	}
	return m.insertMoodEntry(ctx, entry)
}

func (m *mockStore) InsertJournal(ctx context.Context, journal *models.Journal) error {
	if m.insertJournal == nil {
		return nil
	}
	return m.insertJournal(ctx, journal)
}

func (m *mockStore) ListPosts(ctx context.Context, limit, skip int) ([]models.Post, int64, error) {
	if m.listPosts == nil {
		return nil, 0, nil
	}
	return m.listPosts(ctx, limit, skip)
}

func (m *mockStore) ListComments(ctx context.Context, postID string, limit, skip int) ([]models.Comment, int64, error) {
	if m.listComments == nil {
		return nil, 0, nil
	}
	return m.listComments(ctx, postID, limit, skip)
}

func (m *mockStore) ListMoodEntries(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error) {
	if m.listMoodEntries == nil {
		return nil, 0, nil
	}
	return m.listMoodEntries(ctx, userID, limit, skip)
}

func (m *mockStore) ListJournals(ctx context.Context, userID string, limit, skip int) ([]models.Journal, int64, error) {
	if m.listJournals == nil {
		return nil, 0, nil
	}
	return m.listJournals(ctx, userID, limit, skip)
}
