package routes

import (
	"fmt"
	"net/http"
	"testing"

	"property-management-server/models"

	"github.com/kataras/iris/v12"
)

func chatApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		chat := app.Party("/api/chat")
		chat.Post("/rooms", FindOrCreateChatRoom)
		chat.Get("/rooms", GetChatRooms)
		chat.Get("/rooms/{id}/messages", GetChatMessages)
		chat.Post("/rooms/{id}/messages", SendChatMessage)
	})
}

func TestFindOrCreateChatRoomIsIdempotent(t *testing.T) {
	setupTestDB(t)
	app := chatApp(t)

	body := map[string]interface{}{"propertyID": 1, "tenantID": 2}

	resp := doJSON(t, app, http.MethodPost, "/api/chat/rooms", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first call, got %d: %s", resp.Code, resp.Body.String())
	}
	var first models.ChatRoom
	decodeBody(t, resp, &first)

	resp = doJSON(t, app, http.MethodPost, "/api/chat/rooms", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on second call, got %d", resp.Code)
	}
	var second models.ChatRoom
	decodeBody(t, resp, &second)

	if first.ID != second.ID {
		t.Errorf("expected the same room both times, got %d and %d", first.ID, second.ID)
	}
}

func TestChatMessagesKeepInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	app := chatApp(t)

	room := models.ChatRoom{PropertyID: 1, TenantID: 2}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/chat/rooms/%d/messages", room.ID),
			map[string]interface{}{"senderID": 1, "content": c})
		if resp.Code != http.StatusCreated {
			t.Fatalf("send %q failed: %d %s", c, resp.Code, resp.Body.String())
		}
	}

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/chat/rooms/%d/messages", room.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listing struct {
		Data []models.ChatMessage `json:"data"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Data) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(listing.Data))
	}
	for i, c := range contents {
		if listing.Data[i].Content != c {
			t.Errorf("message %d: expected %q, got %q", i, c, listing.Data[i].Content)
		}
	}
}

func TestSendMessageToUnknownRoom(t *testing.T) {
	setupTestDB(t)
	app := chatApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/chat/rooms/999/messages",
		map[string]interface{}{"senderID": 1, "content": "hello?"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
