package routes

import (
	"fmt"
	"net/http"
	"testing"

	"property-management-server/models"
	"property-management-server/storage"

	"github.com/kataras/iris/v12"
)

func maintenanceApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		maintenance := app.Party("/api/maintenance")
		maintenance.Get("/", GetMaintenanceRequests)
		maintenance.Post("/", CreateMaintenanceRequest)
		maintenance.Patch("/{id}", UpdateMaintenanceRequest)
	})
}

func TestCreateMaintenanceRequestBumpsCounter(t *testing.T) {
	db := setupTestDB(t)
	app := maintenanceApp(t)

	property := models.Property{Address: "12 Oak St", Status: "Occupied", PropertyType: "Residential"}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/maintenance", map[string]interface{}{
		"propertyID": property.ID,
		"title":      "Leaking faucet",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.Property
	db.First(&reloaded, property.ID)
	if reloaded.MaintenanceRequests != 1 {
		t.Errorf("expected counter 1, got %d", reloaded.MaintenanceRequests)
	}
	if reloaded.Status != "Maintenance" {
		t.Errorf("expected status Maintenance, got %q", reloaded.Status)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/maintenance", map[string]interface{}{
		"propertyID": property.ID,
		"title":      "Broken window",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	db.First(&reloaded, property.ID)
	if reloaded.MaintenanceRequests != 2 {
		t.Errorf("expected counter 2 after second request, got %d", reloaded.MaintenanceRequests)
	}
}

func TestCreateMaintenanceRequestUnknownProperty(t *testing.T) {
	setupTestDB(t)
	app := maintenanceApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/maintenance", map[string]interface{}{
		"propertyID": 424242,
		"title":      "Ghost request",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing property, got %d", resp.Code)
	}

	var count int64
	storage.DB.Model(&models.MaintenanceRequest{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no request rows, got %d", count)
	}
}

func TestCompletingRequestRestoresProperty(t *testing.T) {
	db := setupTestDB(t)
	app := maintenanceApp(t)

	property := models.Property{Address: "5 Elm St", Status: "Occupied", PropertyType: "Residential"}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/maintenance", map[string]interface{}{
		"propertyID": property.ID,
		"title":      "HVAC service",
		"priority":   "High",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var request models.MaintenanceRequest
	decodeBody(t, resp, &request)

	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/maintenance/%d", request.ID), map[string]interface{}{
		"status": "Completed",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated models.MaintenanceRequest
	db.First(&updated, request.ID)
	if updated.Status != "Completed" {
		t.Errorf("expected status Completed, got %q", updated.Status)
	}
	if updated.CompletedDate == nil {
		t.Error("expected CompletedDate to be set")
	}

	var reloaded models.Property
	db.First(&reloaded, property.ID)
	if reloaded.MaintenanceRequests != 0 {
		t.Errorf("expected counter back to 0, got %d", reloaded.MaintenanceRequests)
	}
	if reloaded.Status != "Occupied" {
		t.Errorf("expected property back to Occupied, got %q", reloaded.Status)
	}
}
