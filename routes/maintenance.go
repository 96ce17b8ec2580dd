package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/services"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GetMaintenanceRequests lists requests with optional filters.
// GET /api/maintenance?propertyID=...&tenantID=...&status=...&priority=...
func GetMaintenanceRequests(ctx iris.Context) {
	propertyID, _ := ctx.URLParamInt("propertyID")
	tenantID, _ := ctx.URLParamInt("tenantID")
	status := ctx.URLParamDefault("status", "")
	priority := ctx.URLParamDefault("priority", "")

	query := storage.DB.Model(&models.MaintenanceRequest{}).Preload("Vendor")

	if propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}

	requests := []models.MaintenanceRequest{}
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		log.Printf("Error fetching maintenance requests: %v", err)
		ctx.JSON(iris.Map{"data": []models.MaintenanceRequest{}, "error": "Failed to fetch maintenance requests"})
		return
	}

	ctx.JSON(iris.Map{"data": requests})
}

// CreateMaintenanceRequest inserts the request and bumps the parent
// property's open-request counter while forcing its status to Maintenance.
// The counter bump is a single UPDATE with a database-side increment, so
// concurrent requests for the same property never lose a count.
func CreateMaintenanceRequest(ctx iris.Context) {
	var input CreateMaintenanceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	propertyExists := storage.DB.Find(&property, input.PropertyID)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Property does not exist", ctx)
		return
	}

	request := models.MaintenanceRequest{
		PropertyID:    input.PropertyID,
		TenantID:      input.TenantID,
		Title:         input.Title,
		Description:   input.Description,
		Status:        "Pending",
		Priority:      defaultString(input.Priority, "Medium"),
		ScheduledDate: input.ScheduledDate,
	}

	autoAssignVendor(&request)

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return tx.Model(&models.Property{}).Where("id = ?", input.PropertyID).
			Updates(map[string]interface{}{
				"maintenance_requests": gorm.Expr("maintenance_requests + 1"),
				"status":               "Maintenance",
			}).Error
	})
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create maintenance request", ctx)
		return
	}

	utils.Audit(ctx, "create", "maintenance_request", request.ID, nil, request)

	if property.ManagerID != 0 {
		notificationService := services.NewNotificationService()
		go notificationService.SendMaintenanceAlert(property.ManagerID, &request)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(request)
}

func UpdateMaintenanceRequest(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var request models.MaintenanceRequest
	requestExists := storage.DB.Find(&request, id)
	if requestExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if requestExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdateMaintenanceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := request

	if input.Title != "" {
		request.Title = input.Title
	}
	if input.Description != "" {
		request.Description = input.Description
	}
	if input.Priority != "" {
		request.Priority = input.Priority
	}
	if input.VendorID != nil {
		request.VendorID = input.VendorID
	}
	if input.ScheduledDate != nil {
		request.ScheduledDate = input.ScheduledDate
	}
	if input.Status != "" && input.Status != request.Status {
		request.Status = input.Status
		if input.Status == "Completed" {
			now := time.Now()
			request.CompletedDate = &now
		}
	}

	if err := storage.DB.Save(&request).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update maintenance request", ctx)
		return
	}

	// Closing a request decrements the open counter; the property leaves
	// Maintenance status once nothing is open against it.
	if before.Status != request.Status && (request.Status == "Completed" || request.Status == "Cancelled") {
		closeOutPropertyCounter(request.PropertyID)
	}

	utils.Audit(ctx, "update", "maintenance_request", request.ID, before, request)

	ctx.JSON(request)
}

func closeOutPropertyCounter(propertyID uint) {
	storage.DB.Model(&models.Property{}).
		Where("id = ? AND maintenance_requests > 0", propertyID).
		Update("maintenance_requests", gorm.Expr("maintenance_requests - 1"))

	var open int64
	storage.DB.Model(&models.MaintenanceRequest{}).
		Where("property_id = ? AND status IN ?", propertyID, []string{"Pending", "In Progress"}).
		Count(&open)
	if open == 0 {
		storage.DB.Model(&models.Property{}).
			Where("id = ? AND status = ?", propertyID, "Maintenance").
			Update("status", "Occupied")
	}
}

// autoAssignVendor picks an active vendor whose service type matches the
// request title when the system setting is enabled. Best effort only.
func autoAssignVendor(request *models.MaintenanceRequest) {
	var settings models.SystemSettings
	if err := storage.DB.First(&settings, 1).Error; err != nil || !settings.MaintenanceAutoAssign {
		return
	}

	var vendor models.Vendor
	result := storage.DB.Where("status = ? AND lower(?) LIKE '%' || lower(service_type) || '%'",
		"Active", request.Title).Limit(1).Find(&vendor)
	if result.Error == nil && result.RowsAffected > 0 {
		request.VendorID = &vendor.ID
	}
}

type CreateMaintenanceInput struct {
	PropertyID    uint       `json:"propertyID" validate:"required"`
	TenantID      uint       `json:"tenantID"`
	Title         string     `json:"title" validate:"required,max=256"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

type UpdateMaintenanceInput struct {
	Title         string     `json:"title" validate:"max=256"`
	Description   string     `json:"description"`
	Status        string     `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Completed Cancelled"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	VendorID      *uint      `json:"vendorID"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}
