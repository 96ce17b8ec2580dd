package routes

import (
	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetSystemSettings returns the single settings row, creating it with
// defaults on first read.
// GET /api/settings
func GetSystemSettings(ctx iris.Context) {
	settings, err := loadSystemSettings()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(settings)
}

// UpdateSystemSettings overwrites the settings row. Admin only.
// PUT /api/settings
func UpdateSystemSettings(ctx iris.Context) {
	settings, err := loadSystemSettings()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var input SystemSettingsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := *settings

	settings.MaintenanceAutoAssign = input.MaintenanceAutoAssign
	settings.PaymentReminders = input.PaymentReminders
	settings.EmailNotifications = input.EmailNotifications
	if input.MaxMaintenanceRequests > 0 {
		settings.MaxMaintenanceRequests = input.MaxMaintenanceRequests
	}
	if input.DefaultGracePeriod >= 0 {
		settings.DefaultGracePeriod = input.DefaultGracePeriod
	}

	if err := storage.DB.Save(settings).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update settings", ctx)
		return
	}

	utils.Audit(ctx, "update", "system_settings", settings.ID, before, settings)

	ctx.JSON(settings)
}

func loadSystemSettings() (*models.SystemSettings, error) {
	var settings models.SystemSettings
	result := storage.DB.First(&settings, 1)
	if result.Error == nil {
		return &settings, nil
	}

	settings = models.SystemSettings{
		PaymentReminders:       true,
		EmailNotifications:     true,
		MaxMaintenanceRequests: 10,
		DefaultGracePeriod:     5,
	}
	settings.ID = 1
	if err := storage.DB.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

type SystemSettingsInput struct {
	MaintenanceAutoAssign  bool `json:"maintenanceAutoAssign"`
	PaymentReminders       bool `json:"paymentReminders"`
	EmailNotifications     bool `json:"emailNotifications"`
	MaxMaintenanceRequests int  `json:"maxMaintenanceRequests" validate:"gte=0,lte=100"`
	DefaultGracePeriod     int  `json:"defaultGracePeriod" validate:"gte=0,lte=60"`
}
