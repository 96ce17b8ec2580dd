package routes

import (
	"net/http"
	"os"
	"testing"

	"property-management-server/models"
	"property-management-server/storage"

	"github.com/kataras/iris/v12"
)

func userApp(t *testing.T) *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "access-test-secret")
	os.Setenv("REFRESH_TOKEN_SECRET", "refresh-test-secret")
	return buildApp(t, func(app *iris.Application) {
		user := app.Party("/api/user")
		user.Post("/register", Register)
		user.Post("/login", Login)
		user.Post("/logout", Logout)
	})
}

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	app := userApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", map[string]interface{}{
		"fullName": "Pat Manager",
		"email":    "Pat@Example.com",
		"password": "hunter22",
		"role":     "property_manager",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var registered struct {
		Email        string `json:"email"`
		Role         string `json:"role"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	decodeBody(t, resp, &registered)
	if registered.Email != "pat@example.com" {
		t.Errorf("expected lowercased email, got %q", registered.Email)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Error("expected a token pair on register")
	}

	// Stored password must be hashed, never the plaintext.
	var stored models.User
	storage.DB.Where("email = ?", "pat@example.com").First(&stored)
	if stored.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}

	resp = doJSON(t, app, http.MethodPost, "/api/user/login", map[string]interface{}{
		"email":    "pat@example.com",
		"password": "hunter22",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", resp.Code, resp.Body.String())
	}

	var loggedIn struct {
		Role        string `json:"role"`
		AccessToken string `json:"accessToken"`
	}
	decodeBody(t, resp, &loggedIn)
	if loggedIn.Role != "property_manager" {
		t.Errorf("expected property_manager role, got %q", loggedIn.Role)
	}
	if loggedIn.AccessToken == "" {
		t.Error("expected access token on login")
	}
}

func TestLoginRejectsShortPassword(t *testing.T) {
	setupTestDB(t)
	app := userApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/login", map[string]interface{}{
		"email":    "who@example.com",
		"password": "abc",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from validation, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	app := userApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", map[string]interface{}{
		"fullName": "Tenant One",
		"email":    "tenant@example.com",
		"password": "correct-horse",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("register failed: %d %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, app, http.MethodPost, "/api/user/login", map[string]interface{}{
		"email":    "tenant@example.com",
		"password": "wrong-horse",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	app := userApp(t)

	body := map[string]interface{}{
		"fullName": "First",
		"email":    "dupe@example.com",
		"password": "secret123",
	}
	if resp := doJSON(t, app, http.MethodPost, "/api/user/register", body); resp.Code != http.StatusOK {
		t.Fatalf("first register failed: %d", resp.Code)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterInsertConflictReturnsConflict(t *testing.T) {
	db := setupTestDB(t)
	app := userApp(t)

	// Collide on the insert itself rather than the pre-check: a unique
	// phone index plus a seeded row with a different email means the
	// existence lookup misses and Create fails. The handler must not
	// mint tokens for a row that was never saved.
	if err := db.Exec("CREATE UNIQUE INDEX idx_users_phone ON users(phone_number)").Error; err != nil {
		t.Fatalf("failed to add index: %v", err)
	}
	seeded := models.User{FullName: "Seeded", Email: "seeded@example.com", PhoneNumber: "555-0100", Password: "x"}
	if err := db.Create(&seeded).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", map[string]interface{}{
		"fullName": "Second",
		"email":    "second@example.com",
		"phone":    "555-0100",
		"password": "secret123",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 when insert fails, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("expected only the seeded user, got %d rows", count)
	}
}

func TestLogout(t *testing.T) {
	setupTestDB(t)
	app := userApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/logout", map[string]interface{}{
		"refreshToken": "some-refresh-token",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		LoggedOut bool `json:"loggedOut"`
	}
	decodeBody(t, resp, &out)
	if !out.LoggedOut {
		t.Error("expected loggedOut true")
	}
}
