package routes

import (
	"fmt"
	"net/http"
	"testing"

	"property-management-server/models"

	"github.com/kataras/iris/v12"
)

func propertyApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		properties := app.Party("/api/properties")
		properties.Get("/", GetProperties)
		properties.Post("/", CreateProperty)
		properties.Get("/{id}", GetProperty)
		properties.Patch("/{id}", UpdateProperty)
		properties.Delete("/{id}", DeleteProperty)
	})
}

func TestCreateAndSearchProperties(t *testing.T) {
	setupTestDB(t)
	app := propertyApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/properties", map[string]interface{}{
		"address":      "12 Oak St",
		"propertyType": "Residential",
		"revenue":      1000,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created models.Property
	decodeBody(t, resp, &created)
	if created.Status != "Vacant" {
		t.Errorf("expected default status Vacant, got %q", created.Status)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/properties", map[string]interface{}{
		"address":      "99 Pine Ave",
		"status":       "Occupied",
		"propertyType": "Commercial",
		"revenue":      2500,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, app, http.MethodGet, "/api/properties?search=oak", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listing struct {
		Data []models.Property `json:"data"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Data) != 1 {
		t.Fatalf("expected 1 match for 'oak', got %d", len(listing.Data))
	}
	if listing.Data[0].Address != "12 Oak St" {
		t.Errorf("expected '12 Oak St', got %q", listing.Data[0].Address)
	}
	if listing.Data[0].Revenue != 1000 {
		t.Errorf("expected revenue 1000, got %v", listing.Data[0].Revenue)
	}
}

func TestGetPropertiesFiltersAndSorts(t *testing.T) {
	setupTestDB(t)
	app := propertyApp(t)

	for _, p := range []map[string]interface{}{
		{"address": "1 Low Rd", "propertyType": "Residential", "revenue": 100, "status": "Occupied"},
		{"address": "2 High Rd", "propertyType": "Residential", "revenue": 900, "status": "Occupied"},
		{"address": "3 Empty Rd", "propertyType": "Commercial", "revenue": 0},
	} {
		if resp := doJSON(t, app, http.MethodPost, "/api/properties", p); resp.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", resp.Code, resp.Body.String())
		}
	}

	resp := doJSON(t, app, http.MethodGet, "/api/properties?status=Occupied&sortBy=revenue&order=desc", nil)
	var listing struct {
		Data []models.Property `json:"data"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Data) != 2 {
		t.Fatalf("expected 2 occupied properties, got %d", len(listing.Data))
	}
	if listing.Data[0].Revenue != 900 {
		t.Errorf("expected highest revenue first, got %v", listing.Data[0].Revenue)
	}
}

func TestUpdatePropertyPersistsZeroRevenue(t *testing.T) {
	db := setupTestDB(t)
	app := propertyApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/properties", map[string]interface{}{
		"address":      "12 Oak St",
		"propertyType": "Residential",
		"revenue":      1000,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("seed failed: %d %s", resp.Code, resp.Body.String())
	}
	var created models.Property
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/properties/%d", created.ID), map[string]interface{}{
		"address":      "12 Oak St",
		"status":       "Vacant",
		"propertyType": "Residential",
		"revenue":      0,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.Property
	if err := db.First(&reloaded, created.ID).Error; err != nil {
		t.Fatalf("failed to reload property: %v", err)
	}
	if reloaded.Revenue != 0 {
		t.Errorf("revenue update to 0 was lost: still %v", reloaded.Revenue)
	}
}

func TestGetPropertiesBackendError(t *testing.T) {
	db := setupTestDB(t)
	app := propertyApp(t)

	// Drop the table so the list query fails; the handler must degrade to
	// an empty list with an error message rather than a 500.
	if err := db.Migrator().DropTable(&models.Property{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/properties", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listing struct {
		Data  []models.Property `json:"data"`
		Error string            `json:"error"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Data) != 0 {
		t.Errorf("expected empty list, got %d rows", len(listing.Data))
	}
	if listing.Error == "" {
		t.Error("expected an error message alongside the empty list")
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	setupTestDB(t)
	app := propertyApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/properties/999", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	setupTestDB(t)
	app := propertyApp(t)

	// Missing propertyType and a bogus status must fail validation.
	resp := doJSON(t, app, http.MethodPost, "/api/properties", map[string]interface{}{
		"address": "12 Oak St",
		"status":  "Demolished",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}
