package routes

import (
	"log"
	"net/http"

	"property-management-server/models"
	"property-management-server/services"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// FindOrCreateChatRoom returns the room for a (property, tenant) pair,
// creating it on first use. The pair is unique so concurrent calls for the
// same pair converge on one row.
// POST /api/chat/rooms
func FindOrCreateChatRoom(ctx iris.Context) {
	var input ChatRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var room models.ChatRoom
	result := storage.DB.
		Where("property_id = ? AND tenant_id = ?", input.PropertyID, input.TenantID).
		First(&room)

	if result.Error == nil {
		ctx.JSON(room)
		return
	}

	room = models.ChatRoom{PropertyID: input.PropertyID, TenantID: input.TenantID}
	if err := storage.DB.Create(&room).Error; err != nil {
		// Lost the race to another request; the row exists now.
		if retry := storage.DB.
			Where("property_id = ? AND tenant_id = ?", input.PropertyID, input.TenantID).
			First(&room); retry.Error == nil {
			ctx.JSON(room)
			return
		}
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create chat room", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(room)
}

// GetChatRooms lists rooms, optionally scoped to a property or tenant.
// GET /api/chat/rooms?propertyID=...&tenantID=...
func GetChatRooms(ctx iris.Context) {
	propertyID, _ := ctx.URLParamInt("propertyID")
	tenantID, _ := ctx.URLParamInt("tenantID")

	query := storage.DB.Model(&models.ChatRoom{}).Order("updated_at DESC")
	if propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}

	rooms := []models.ChatRoom{}
	if err := query.Find(&rooms).Error; err != nil {
		log.Printf("Error fetching chat rooms: %v", err)
		ctx.JSON(iris.Map{"data": []models.ChatRoom{}, "error": "Failed to fetch chat rooms"})
		return
	}

	ctx.JSON(iris.Map{"data": rooms})
}

// GetChatMessages returns a room's messages in insertion order.
// GET /api/chat/rooms/{id}/messages
func GetChatMessages(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var room models.ChatRoom
	roomExists := storage.DB.Find(&room, id)
	if roomExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if roomExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	messages := []models.ChatMessage{}
	if err := storage.DB.
		Preload("Sender").
		Where("room_id = ?", room.ID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		log.Printf("Error fetching chat messages: %v", err)
		ctx.JSON(iris.Map{"data": []models.ChatMessage{}, "error": "Failed to fetch messages"})
		return
	}

	ctx.JSON(iris.Map{"data": messages})
}

// SendChatMessage appends a message, fans it out on the room's feed, and
// push-notifies the counterparty.
// POST /api/chat/rooms/{id}/messages
func SendChatMessage(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var room models.ChatRoom
	roomExists := storage.DB.Find(&room, id)
	if roomExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if roomExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input ChatMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	message := models.ChatMessage{
		RoomID:   room.ID,
		SenderID: input.SenderID,
		Content:  input.Content,
	}
	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to send message", ctx)
		return
	}

	storage.DB.Model(&room).Update("updated_at", message.CreatedAt)

	services.ChatFeed.Broadcast(room.ID, "chat_messages", message)

	go notifyChatCounterparty(room, message)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// notifyChatCounterparty pushes a preview to whoever did not send the
// message: the tenant's user when the manager wrote, the property's manager
// otherwise.
func notifyChatCounterparty(room models.ChatRoom, message models.ChatMessage) {
	var sender models.User
	if err := storage.DB.First(&sender, message.SenderID).Error; err != nil {
		return
	}

	var tenant models.Tenant
	if err := storage.DB.First(&tenant, room.TenantID).Error; err != nil {
		return
	}

	recipientID := tenant.UserID
	if message.SenderID == tenant.UserID {
		var property models.Property
		if err := storage.DB.First(&property, room.PropertyID).Error; err != nil {
			return
		}
		recipientID = property.ManagerID
	}
	if recipientID == 0 || recipientID == message.SenderID {
		return
	}

	preview := message.Content
	if len(preview) > 100 {
		preview = preview[:97] + "..."
	}

	notifications := services.NewNotificationService()
	if err := notifications.SendMessageNotification(recipientID, sender.FullName, preview, room.ID); err != nil {
		log.Printf("Failed to notify chat counterparty: %v", err)
	}
}

// ChatRoomFeed upgrades the connection to a websocket and streams row-insert
// events for the room until the client disconnects.
// GET /api/chat/rooms/{id}/feed
func ChatRoomFeed(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var room models.ChatRoom
	roomExists := storage.DB.Find(&room, id)
	if roomExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if roomExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	conn, err := feedUpgrader.Upgrade(ctx.ResponseWriter().Naive(), ctx.Request(), nil)
	if err != nil {
		log.Printf("Feed upgrade failed for room %d: %v", room.ID, err)
		return
	}

	services.ChatFeed.Subscribe(room.ID, conn)
	defer func() {
		services.ChatFeed.Unsubscribe(room.ID, conn)
		conn.Close()
	}()

	// Drain reads so pings/close frames are handled; the server never
	// expects client payloads on the feed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type ChatRoomInput struct {
	PropertyID uint `json:"propertyID" validate:"required"`
	TenantID   uint `json:"tenantID" validate:"required"`
}

type ChatMessageInput struct {
	SenderID uint   `json:"senderID" validate:"required"`
	Content  string `json:"content" validate:"required,max=4000"`
}
