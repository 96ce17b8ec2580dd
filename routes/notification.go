package routes

import (
	"log"

	"property-management-server/models"
	"property-management-server/services"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// currentUserID reads the authenticated user's ID stashed by the auth
// middleware. Zero means the value was never set.
func currentUserID(ctx iris.Context) uint {
	if v, ok := ctx.Values().Get("userID").(uint); ok {
		return v
	}
	return 0
}

// GetNotifications lists the caller's notifications, newest first.
// GET /api/notifications?unread=true
func GetNotifications(ctx iris.Context) {
	userID := currentUserID(ctx)
	unreadOnly, _ := ctx.URLParamBool("unread")

	query := storage.DB.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	notifications := []models.Notification{}
	if err := query.Find(&notifications).Error; err != nil {
		log.Printf("Error fetching notifications: %v", err)
		ctx.JSON(iris.Map{"data": []models.Notification{}, "error": "Failed to fetch notifications"})
		return
	}

	ctx.JSON(iris.Map{"data": notifications})
}

// GetUnreadNotificationCount returns how many unread rows the caller has.
// GET /api/notifications/unread-count
func GetUnreadNotificationCount(ctx iris.Context) {
	userID := currentUserID(ctx)

	var count int64
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"count": count})
}

// MarkNotificationRead flags one of the caller's notifications as read.
// PATCH /api/notifications/{id}/read
func MarkNotificationRead(ctx iris.Context) {
	userID := currentUserID(ctx)
	params := ctx.Params()
	id := params.Get("id")

	result := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// MarkAllNotificationsRead flags every unread notification of the caller.
// PATCH /api/notifications/read-all
func MarkAllNotificationsRead(ctx iris.Context) {
	userID := currentUserID(ctx)

	result := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"updated": result.RowsAffected})
}

// SendNotification lets a manager push an ad-hoc notification to a user.
// POST /api/notifications/push
func SendNotification(ctx iris.Context) {
	var input SendNotificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	notifications := services.NewNotificationService()
	if err := notifications.Notify(input.UserID, input.Title, input.Message, defaultString(input.Type, "system"), input.Link, ""); err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to send notification", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true})
}

type SendNotificationInput struct {
	UserID  uint   `json:"userID" validate:"required"`
	Title   string `json:"title" validate:"required,max=256"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=payment_reminder maintenance message system"`
	Link    string `json:"link" validate:"max=512"`
}
