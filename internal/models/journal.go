package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journal represents a private journaling entry for a user. Unlike mood
// entries there is no daily cap; the analysis is best-effort.
type Journal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID  string `bson:"user_id" json:"user_id"`
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`

	Analysis MoodAnalysis `bson:"analysis" json:"analysis"`
}
