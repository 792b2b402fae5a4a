package services

import (
	"context"
	"fmt"
	"time"
)

const (
	behaviorWindow = 7 * 24 * time.Hour

	postVolumeThreshold    = 50
	commentVolumeThreshold = 200

	postVolumePenalty    = 30
	commentVolumePenalty = 20
	spamPostPenalty      = 10

	suspiciousThreshold = 50
)

// BehaviorProfile is a user's trailing-7-day abuse-risk estimate. Recomputed
// from the store on every call, never cached.
type BehaviorProfile struct {
	Score         int      `json:"score"`
	IsSuspicious  bool     `json:"is_suspicious"`
	Warnings      []string `json:"warnings"`
	PostsCount    int      `json:"posts_count"`
	CommentsCount int      `json:"comments_count"`
}

// BehaviorScorer aggregates a user's recent volume and per-post spam scores
// into a suspicion score. A store failure yields a neutral profile: behavior
// checks never block on infrastructure problems.
type BehaviorScorer struct {
	store  Store
	scorer *ContentScorer
}

func NewBehaviorScorer(store Store, scorer *ContentScorer) *BehaviorScorer {
	return &BehaviorScorer{store: store, scorer: scorer}
}

func (b *BehaviorScorer) Profile(ctx context.Context, userID string, now time.Time) BehaviorProfile {
	since := now.Add(-behaviorWindow)

	posts, err := b.store.PostsSince(ctx, userID, since)
	if err != nil {
		return BehaviorProfile{}
	}
	comments, err := b.store.CommentsSince(ctx, userID, since)
	if err != nil {
		return BehaviorProfile{}
	}

	profile := BehaviorProfile{
		PostsCount:    len(posts),
		CommentsCount: len(comments),
	}

	if profile.PostsCount > postVolumeThreshold {
		profile.Score += postVolumePenalty
		profile.Warnings = append(profile.Warnings, fmt.Sprintf("High post volume (%d in 7 days)", profile.PostsCount))
	}
	if profile.CommentsCount > commentVolumeThreshold {
		profile.Score += commentVolumePenalty
		profile.Warnings = append(profile.Warnings, fmt.Sprintf("High comment volume (%d in 7 days)", profile.CommentsCount))
	}

	spamPosts := 0
	for _, post := range posts {
		analysis := b.scorer.Analyze(post.Title + " " + post.Content)
		if analysis.IsSpam {
			spamPosts++
		}
	}
	if spamPosts > 0 {
		profile.Score += spamPostPenalty * spamPosts
		profile.Warnings = append(profile.Warnings, fmt.Sprintf("%d recent posts flagged as spam", spamPosts))
	}

	if profile.Score > 100 {
		profile.Score = 100
	}
	profile.IsSuspicious = profile.Score >= suspiciousThreshold

	return profile
}
