package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetCalendarEvents lists events ordered by start time.
// GET /api/calendar?propertyID=...&tenantID=...&start=RFC3339&end=RFC3339
// The date range matches events overlapping [start, end]: start_time >= start
// and end_time <= end, mirroring the dashboard's month view query.
func GetCalendarEvents(ctx iris.Context) {
	propertyID, _ := ctx.URLParamInt("propertyID")
	tenantID, _ := ctx.URLParamInt("tenantID")
	startParam := ctx.URLParamDefault("start", "")
	endParam := ctx.URLParamDefault("end", "")

	query := storage.DB.Model(&models.CalendarEvent{}).Order("start_time ASC")

	if propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if startParam != "" {
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "start must be RFC3339", ctx)
			return
		}
		query = query.Where("start_time >= ?", start)
	}
	if endParam != "" {
		end, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "end must be RFC3339", ctx)
			return
		}
		query = query.Where("end_time <= ?", end)
	}

	events := []models.CalendarEvent{}
	if err := query.Find(&events).Error; err != nil {
		log.Printf("Error fetching calendar events: %v", err)
		ctx.JSON(iris.Map{"data": []models.CalendarEvent{}, "error": "Failed to fetch events"})
		return
	}

	ctx.JSON(iris.Map{"data": events})
}

func CreateCalendarEvent(ctx iris.Context) {
	var input CalendarEventInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.EndTime.After(input.StartTime) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endTime must be after startTime", ctx)
		return
	}

	event := models.CalendarEvent{
		PropertyID:  input.PropertyID,
		TenantID:    input.TenantID,
		Title:       input.Title,
		Description: input.Description,
		EventType:   input.EventType,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      defaultString(input.Status, "Scheduled"),
	}
	if input.Attendees != nil {
		event.Attendees = utils.MustJSON(input.Attendees)
	}

	if err := storage.DB.Create(&event).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create event", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(event)
}

func UpdateCalendarEvent(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var event models.CalendarEvent
	eventExists := storage.DB.Find(&event, id)
	if eventExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if eventExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input CalendarEventInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	event.PropertyID = input.PropertyID
	event.TenantID = input.TenantID
	event.Title = input.Title
	event.Description = input.Description
	event.EventType = input.EventType
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	if input.Status != "" {
		event.Status = input.Status
	}
	if input.Attendees != nil {
		event.Attendees = utils.MustJSON(input.Attendees)
	}

	if err := storage.DB.Save(&event).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update event", ctx)
		return
	}

	ctx.JSON(event)
}

func DeleteCalendarEvent(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var event models.CalendarEvent
	eventExists := storage.DB.Find(&event, id)
	if eventExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.CalendarEvent{}, id).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

type CalendarEventInput struct {
	PropertyID  uint      `json:"propertyID"`
	TenantID    uint      `json:"tenantID"`
	Title       string    `json:"title" validate:"required,max=256"`
	Description string    `json:"description"`
	EventType   string    `json:"eventType" validate:"omitempty,oneof=inspection viewing lease_signing maintenance other"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
	Status      string    `json:"status"`
	Attendees   []string  `json:"attendees"`
}
