package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var eventsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin token gates this endpoint, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ModerationEventsWebSocket streams moderation block events to admin
// dashboards in real time. Authenticated with the admin token, passed either
// as a Bearer header or a `token` query parameter for browser clients.
func ModerationEventsWebSocket(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(r) {
		http.Error(w, "admin token required", http.StatusUnauthorized)
		return
	}

	conn, err := eventsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WARNING: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	moderationFeed.Register(id, conn)
	defer moderationFeed.Unregister(id)

	// Read loop exists only to detect the peer going away; inbound
	// messages are discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
