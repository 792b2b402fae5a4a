package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ModerationChannel is the Redis Pub/Sub channel blocked actions are
// announced on. Publishing through Redis (rather than in-process) keeps the
// admin feed working when the backend runs as multiple instances.
const ModerationChannel = "moderation_events"

// ModerationEvent is the payload broadcast when the gate blocks an action.
type ModerationEvent struct {
	Type       string    `json:"type"` // always "blocked" for now
	UserID     string    `json:"user_id"`
	ActionType string    `json:"action_type"`
	Reason     string    `json:"reason"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventConn is the minimal WebSocket surface the feed needs.
type EventConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// ModerationFeed fans Redis moderation events out to connected admin
// WebSocket clients.
type ModerationFeed struct {
	rdb *redis.Client

	mu    sync.RWMutex
	conns map[string]EventConn

	started sync.Once
}

func NewModerationFeed(rdb *redis.Client) *ModerationFeed {
	return &ModerationFeed{
		rdb:   rdb,
		conns: make(map[string]EventConn),
	}
}

// Publish announces a blocked action. Best effort: a Pub/Sub failure must
// not fail the request that triggered it.
func (f *ModerationFeed) Publish(ctx context.Context, event ModerationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := f.rdb.Publish(ctx, ModerationChannel, payload).Err(); err != nil {
		log.Printf("moderation feed: publish failed: %v", err)
	}
}

// Start subscribes to the moderation channel and begins fanning out events.
// Safe to call more than once; only the first call subscribes.
func (f *ModerationFeed) Start(ctx context.Context) {
	f.started.Do(func() {
		sub := f.rdb.Subscribe(ctx, ModerationChannel)
		go func() {
			for msg := range sub.Channel() {
				var event ModerationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				f.broadcast(event)
			}
		}()
	})
}

// Register attaches an admin connection under the given id, replacing any
// previous connection with the same id.
func (f *ModerationFeed) Register(id string, conn EventConn) {
	f.mu.Lock()
	if old, ok := f.conns[id]; ok {
		old.Close()
	}
	f.conns[id] = conn
	f.mu.Unlock()
}

// Unregister detaches an admin connection.
func (f *ModerationFeed) Unregister(id string) {
	f.mu.Lock()
	delete(f.conns, id)
	f.mu.Unlock()
}

func (f *ModerationFeed) broadcast(event ModerationEvent) {
	f.mu.RLock()
	conns := make([]EventConn, 0, len(f.conns))
	for _, c := range f.conns {
		conns = append(conns, c)
	}
	f.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(event); err != nil {
			// Dead connections are cleaned up by the ws read loop.
			continue
		}
	}
}
