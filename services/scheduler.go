package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the recurring background jobs: payment/maintenance
// reminders, payment reconciliation against Stripe, and lease expiry.
// Runs server-side on a cron schedule, independent of any client.
type Scheduler struct {
	cron          *cron.Cron
	notifications *NotificationService
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		notifications: NewNotificationService(),
	}
}

func (s *Scheduler) Start() {
	s.cron.AddFunc("@hourly", func() { s.RunReminderSweep(time.Now()) })
	s.cron.AddFunc("@hourly", func() { s.RunPaymentReconciliation() })
	s.cron.AddFunc("@daily", func() { s.RunLeaseExpiry(time.Now()) })
	s.cron.Start()
	log.Println("Scheduler started (reminders hourly, lease expiry daily)")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

const reminderLookaheadDays = 3

// RunReminderSweep re-queries pending payments and open maintenance requests
// and notifies the responsible users. Each item carries a dedup tag so a
// reminder fires at most once per 24h across sweeps.
func (s *Scheduler) RunReminderSweep(now time.Time) {
	var payments []models.Payment
	if err := storage.DB.Where("status = ? AND due_date >= ?", "pending", now).
		Find(&payments).Error; err != nil {
		log.Printf("reminder sweep: failed to load pending payments: %v", err)
		return
	}

	for i := range payments {
		payment := &payments[i]
		daysUntilDue := int(payment.DueDate.Sub(now).Hours()/24) + 1
		if daysUntilDue > reminderLookaheadDays {
			continue
		}

		tag := fmt.Sprintf("payment-%d", payment.ID)
		if s.alreadyNotified(tag, now) {
			continue
		}

		var tenant models.Tenant
		if err := storage.DB.First(&tenant, payment.TenantID).Error; err != nil {
			continue
		}
		if err := s.notifications.SendPaymentReminder(tenant.UserID, payment, daysUntilDue); err != nil {
			log.Printf("reminder sweep: payment %d: %v", payment.ID, err)
		}
	}

	var requests []models.MaintenanceRequest
	if err := storage.DB.Where("status = ?", "Pending").Find(&requests).Error; err != nil {
		log.Printf("reminder sweep: failed to load maintenance requests: %v", err)
		return
	}

	for i := range requests {
		request := &requests[i]
		tag := fmt.Sprintf("maintenance-%d", request.ID)
		if s.alreadyNotified(tag, now) {
			continue
		}

		var property models.Property
		if err := storage.DB.First(&property, request.PropertyID).Error; err != nil {
			continue
		}
		if property.ManagerID == 0 {
			continue
		}
		if err := s.notifications.SendMaintenanceAlert(property.ManagerID, request); err != nil {
			log.Printf("reminder sweep: maintenance %d: %v", request.ID, err)
		}
	}
}

// alreadyNotified checks the dedup tag, preferring Redis when available and
// falling back to the notifications table.
func (s *Scheduler) alreadyNotified(tag string, now time.Time) bool {
	if storage.Redis != nil {
		ok, err := storage.Redis.SetNX(context.Background(), "reminder:"+tag, "1", 23*time.Hour).Result()
		if err == nil {
			return !ok
		}
	}

	var count int64
	storage.DB.Model(&models.Notification{}).
		Where("tag = ? AND created_at > ?", tag, now.Add(-24*time.Hour)).
		Count(&count)
	return count > 0
}

// RunPaymentReconciliation settles pending payment rows that carry a Stripe
// intent id. A row stuck in pending with a succeeded intent is the
// charged-but-unrecorded window; the sweep closes it.
func (s *Scheduler) RunPaymentReconciliation() {
	var payments []models.Payment
	if err := storage.DB.Where("status = ? AND stripe_payment_intent_id <> ''", "pending").
		Find(&payments).Error; err != nil {
		log.Printf("reconciliation: failed to load pending payments: %v", err)
		return
	}

	for i := range payments {
		payment := &payments[i]
		intent, err := GetPaymentIntent(payment.StripePaymentIntentID)
		if err != nil {
			log.Printf("reconciliation: payment %d intent %s: %v",
				payment.ID, payment.StripePaymentIntentID, err)
			continue
		}

		switch intent.Status {
		case "succeeded":
			now := time.Now()
			storage.DB.Model(payment).Updates(map[string]interface{}{
				"status":    "completed",
				"paid_date": now,
			})
			log.Printf("reconciliation: payment %d settled from intent %s", payment.ID, intent.ID)
		case "canceled":
			storage.DB.Model(payment).Update("status", "failed")
		}
	}
}

// RunLeaseExpiry moves active leases past their end date to Expired.
func (s *Scheduler) RunLeaseExpiry(now time.Time) {
	result := storage.DB.Model(&models.Lease{}).
		Where("status = ? AND end_date < ?", "Active", now).
		Update("status", "Expired")
	if result.Error != nil {
		log.Printf("lease expiry: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("lease expiry: %d leases expired", result.RowsAffected)
	}
}
