package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// FeedEvent is a row-insert event delivered to chat room subscribers.
type FeedEvent struct {
	Event  string      `json:"event"` // INSERT
	Table  string      `json:"table"`
	RoomID uint        `json:"roomID"`
	Row    interface{} `json:"row"`
}

// FeedHub fans out chat room events to websocket subscribers. Subscriptions
// are per room; a connection only ever receives events for the room it
// subscribed to.
type FeedHub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*websocket.Conn]bool
}

var ChatFeed = NewFeedHub()

func NewFeedHub() *FeedHub {
	return &FeedHub{rooms: make(map[uint]map[*websocket.Conn]bool)}
}

func (h *FeedHub) Subscribe(roomID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[roomID][conn] = true
}

func (h *FeedHub) Unsubscribe(roomID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast sends a row-insert event to every subscriber of the room.
// Dead connections are dropped from the room on write failure.
func (h *FeedHub) Broadcast(roomID uint, table string, row interface{}) {
	event := FeedEvent{Event: "INSERT", Table: table, RoomID: roomID, Row: row}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("feed: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	subs := make([]*websocket.Conn, 0, len(h.rooms[roomID]))
	for conn := range h.rooms[roomID] {
		subs = append(subs, conn)
	}
	h.mu.RUnlock()

	for _, conn := range subs {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.Unsubscribe(roomID, conn)
			conn.Close()
		}
	}
}

// SubscriberCount reports how many connections follow a room.
func (h *FeedHub) SubscriberCount(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
