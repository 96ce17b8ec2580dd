package services

import (
	"encoding/json"
	"fmt"
	"log"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"
)

// NotificationService persists notification rows and relays them as push
// messages to the user's registered devices.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// Notify inserts a notification row and pushes it to the user's devices.
// The tag deduplicates recurring reminders (e.g. payment-42). Push failures
// are logged, not returned; the row insert is the source of truth.
func (ns *NotificationService) Notify(userID uint, title, message, nType, link, tag string) error {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    nType,
		Link:    link,
		Tag:     tag,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		return err
	}

	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		// No devices or notifications disabled; the in-app row still exists.
		return nil
	}

	data := map[string]string{
		"type": nType,
		"link": link,
		"tag":  tag,
	}
	for _, token := range tokens {
		if err := utils.SendPushNotification(token, title, message, data); err != nil {
			log.Printf("Failed to send push notification to token %s: %v", token, err)
		}
	}
	return nil
}

// SendPaymentReminder notifies a tenant's user about an upcoming payment.
func (ns *NotificationService) SendPaymentReminder(userID uint, payment *models.Payment, daysUntilDue int) error {
	title := "Payment Reminder"
	body := fmt.Sprintf("Payment of $%.2f is due in %d days", payment.Amount, daysUntilDue)
	tag := fmt.Sprintf("payment-%d", payment.ID)
	link := fmt.Sprintf("/payments/%d", payment.ID)
	return ns.Notify(userID, title, body, "payment_reminder", link, tag)
}

// SendMaintenanceAlert notifies a property manager about an open request.
func (ns *NotificationService) SendMaintenanceAlert(userID uint, request *models.MaintenanceRequest) error {
	title := "Maintenance Request"
	body := fmt.Sprintf("New maintenance request: %s", request.Title)
	tag := fmt.Sprintf("maintenance-%d", request.ID)
	link := fmt.Sprintf("/maintenance/%d", request.ID)
	return ns.Notify(userID, title, body, "maintenance", link, tag)
}

// SendMessageNotification notifies a chat counterparty about a new message.
func (ns *NotificationService) SendMessageNotification(userID uint, senderName, preview string, roomID uint) error {
	title := fmt.Sprintf("New message from %s", senderName)
	link := fmt.Sprintf("/chat/%d", roomID)
	return ns.Notify(userID, title, preview, "message", link, "")
}
