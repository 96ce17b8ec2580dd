package routes

import (
	"net/http"
	"testing"

	"property-management-server/models"

	"github.com/kataras/iris/v12"
)

func calendarApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		calendar := app.Party("/api/calendar")
		calendar.Get("/", GetCalendarEvents)
		calendar.Post("/", CreateCalendarEvent)
		calendar.Patch("/{id}", UpdateCalendarEvent)
		calendar.Delete("/{id}", DeleteCalendarEvent)
	})
}

func TestCalendarEventsDateRange(t *testing.T) {
	setupTestDB(t)
	app := calendarApp(t)

	events := []map[string]interface{}{
		{
			"title":     "Unit inspection",
			"eventType": "inspection",
			"startTime": "2026-09-10T09:00:00Z",
			"endTime":   "2026-09-10T10:00:00Z",
		},
		{
			"title":     "Lease signing",
			"eventType": "lease_signing",
			"startTime": "2026-10-05T14:00:00Z",
			"endTime":   "2026-10-05T15:00:00Z",
		},
	}
	for _, e := range events {
		if resp := doJSON(t, app, http.MethodPost, "/api/calendar", e); resp.Code != http.StatusCreated {
			t.Fatalf("seed event failed: %d %s", resp.Code, resp.Body.String())
		}
	}

	resp := doJSON(t, app, http.MethodGet,
		"/api/calendar?start=2026-09-01T00:00:00Z&end=2026-09-30T23:59:59Z", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listing struct {
		Data []models.CalendarEvent `json:"data"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Data) != 1 {
		t.Fatalf("expected 1 event in September window, got %d", len(listing.Data))
	}
	if listing.Data[0].Title != "Unit inspection" {
		t.Errorf("expected 'Unit inspection', got %q", listing.Data[0].Title)
	}
}

func TestCreateCalendarEventRejectsInvertedTimes(t *testing.T) {
	setupTestDB(t)
	app := calendarApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/calendar", map[string]interface{}{
		"title":     "Backwards event",
		"startTime": "2026-09-10T10:00:00Z",
		"endTime":   "2026-09-10T09:00:00Z",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for endTime before startTime, got %d", resp.Code)
	}
}
