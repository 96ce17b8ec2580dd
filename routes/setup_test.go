package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"property-management-server/models"
	"property-management-server/storage"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points storage.DB at a per-test in-memory database with the
// full schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Tenant{},
		&models.TenantReference{},
		&models.Lease{},
		&models.Vendor{},
		&models.MaintenanceRequest{},
		&models.Payment{},
		&models.PaymentSettings{},
		&models.CalendarEvent{},
		&models.Communication{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.Document{},
		&models.AuditLog{},
		&models.Notification{},
		&models.SystemSettings{},
		&models.AnalyticsEvent{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.DB = db
	return db
}

// newTestApp returns an Iris app with validation enabled and no auth
// middleware; tests exercise handlers directly.
func newTestApp(t *testing.T) *iris.Application {
	t.Helper()
	app := iris.New()
	app.Validator = validator.New()
	return app
}

func doJSON(t *testing.T, app *iris.Application, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", resp.Body.String(), err)
	}
}

func buildApp(t *testing.T, register func(app *iris.Application)) *iris.Application {
	t.Helper()
	app := newTestApp(t)
	register(app)
	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}
