package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHubBroadcast(t *testing.T) {
	hub := NewFeedHub()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Subscribe(7, conn)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "dial failed")
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount(7) == 0 {
		require.False(t, time.Now().After(deadline), "subscription never registered")
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(7, "chat_messages", map[string]string{"content": "hello"})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err, "read failed")

	var event FeedEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "INSERT", event.Event)
	assert.Equal(t, uint(7), event.RoomID)
	assert.Equal(t, "chat_messages", event.Table)
}

func TestFeedHubUnsubscribeDropsRoom(t *testing.T) {
	hub := NewFeedHub()

	// Broadcasting to a room with no subscribers is a no-op.
	hub.Broadcast(1, "chat_messages", map[string]string{"content": "void"})
	assert.Equal(t, 0, hub.SubscriberCount(1))
}
