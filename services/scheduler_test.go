package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"property-management-server/models"
	"property-management-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSchedulerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Tenant{},
		&models.Lease{},
		&models.MaintenanceRequest{},
		&models.Payment{},
		&models.Notification{},
	)
	require.NoError(t, err, "failed to migrate test database")

	storage.DB = db
	storage.Redis = nil
	return db
}

func seedTenantWithUser(t *testing.T, db *gorm.DB) models.Tenant {
	t.Helper()

	allows := false
	user := models.User{
		FullName:            "Test Tenant",
		Email:               fmt.Sprintf("%s@example.com", t.Name()),
		AllowsNotifications: &allows,
	}
	require.NoError(t, db.Create(&user).Error)

	tenant := models.Tenant{UserID: user.ID, PropertyID: 1}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func TestReminderSweepNotifiesOnlyUpcomingPayments(t *testing.T) {
	db := setupSchedulerDB(t)
	tenant := seedTenantWithUser(t, db)

	now := time.Now()
	dueSoon := models.Payment{
		TenantID: tenant.ID,
		Amount:   1200,
		Status:   "pending",
		DueDate:  now.Add(24 * time.Hour),
	}
	dueLater := models.Payment{
		TenantID: tenant.ID,
		Amount:   1200,
		Status:   "pending",
		DueDate:  now.Add(10 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&dueSoon).Error)
	require.NoError(t, db.Create(&dueLater).Error)

	s := NewScheduler()
	s.RunReminderSweep(now)

	var notifications []models.Notification
	db.Find(&notifications)
	require.Len(t, notifications, 1, "only the payment due within the window should notify")
	assert.Equal(t, fmt.Sprintf("payment-%d", dueSoon.ID), notifications[0].Tag)
	assert.Equal(t, tenant.UserID, notifications[0].UserID)
	assert.Contains(t, notifications[0].Message, "$1200.00")
}

func TestReminderSweepDeduplicatesWithinADay(t *testing.T) {
	db := setupSchedulerDB(t)
	tenant := seedTenantWithUser(t, db)

	now := time.Now()
	payment := models.Payment{
		TenantID: tenant.ID,
		Amount:   900,
		Status:   "pending",
		DueDate:  now.Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&payment).Error)

	s := NewScheduler()
	s.RunReminderSweep(now)
	s.RunReminderSweep(now.Add(time.Hour))

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count, "second sweep within 24h must not re-notify")
}

func TestLeaseExpiry(t *testing.T) {
	db := setupSchedulerDB(t)

	now := time.Now()
	expired := models.Lease{PropertyID: 1, TenantID: 1, Status: "Active", EndDate: now.Add(-24 * time.Hour)}
	current := models.Lease{PropertyID: 1, TenantID: 2, Status: "Active", EndDate: now.Add(30 * 24 * time.Hour)}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&current).Error)

	s := NewScheduler()
	s.RunLeaseExpiry(now)

	var gotExpired models.Lease
	require.NoError(t, db.First(&gotExpired, expired.ID).Error)
	assert.Equal(t, "Expired", gotExpired.Status)

	var gotCurrent models.Lease
	require.NoError(t, db.First(&gotCurrent, current.ID).Error)
	assert.Equal(t, "Active", gotCurrent.Status)
}

func TestPaymentReconciliationSettlesSucceededIntent(t *testing.T) {
	db := setupSchedulerDB(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents/pi_orphan", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pi_orphan",
			"status": "succeeded",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	os.Setenv("STRIPE_SECRET_KEY", "sk_test_dummy")
	os.Setenv("STRIPE_API_URL", server.URL)
	defer os.Unsetenv("STRIPE_API_URL")

	orphan := models.Payment{
		TenantID:              1,
		Amount:                1500,
		Status:                "pending",
		StripePaymentIntentID: "pi_orphan",
		DueDate:               time.Now(),
	}
	require.NoError(t, db.Create(&orphan).Error)

	s := NewScheduler()
	s.RunPaymentReconciliation()

	var reloaded models.Payment
	db.First(&reloaded, orphan.ID)
	assert.Equal(t, "completed", reloaded.Status)
	assert.NotNil(t, reloaded.PaidDate, "reconciliation should set the paid date")
}
