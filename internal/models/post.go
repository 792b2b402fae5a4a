package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a community post. SpamScore and IsFlagged are the moderation
// diagnostics computed at creation time and stored alongside the row.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID  string `bson:"user_id" json:"user_id"`
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`

	SpamScore int  `bson:"spam_score" json:"spam_score"`
	IsFlagged bool `bson:"is_flagged" json:"is_flagged"`
}

// Comment is a reply to a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID  string `bson:"user_id" json:"user_id"`
	PostID  string `bson:"post_id" json:"post_id"`
	Content string `bson:"content" json:"content"`

	SpamScore int  `bson:"spam_score" json:"spam_score"`
	IsFlagged bool `bson:"is_flagged" json:"is_flagged"`
}
