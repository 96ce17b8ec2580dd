package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetAuditLogs lists audit entries filtered by actor, entity and date range,
// paginated newest first. Admin only.
// GET /api/audit-logs?userID=...&entityType=...&entityID=...&start=...&end=...&page=1&perPage=50
func GetAuditLogs(ctx iris.Context) {
	userID, _ := ctx.URLParamInt("userID")
	entityType := ctx.URLParamDefault("entityType", "")
	entityID, _ := ctx.URLParamInt("entityID")
	action := ctx.URLParamDefault("action", "")
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 500 {
		perPage = 50
	}

	query := storage.DB.Model(&models.AuditLog{})

	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID > 0 {
		query = query.Where("entity_id = ?", entityID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if start := ctx.URLParamDefault("start", ""); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if end := ctx.URLParamDefault("end", ""); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			query = query.Where("created_at <= ?", t)
		}
	}

	var total int64
	query.Count(&total)

	logs := []models.AuditLog{}
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error; err != nil {
		log.Printf("Error fetching audit logs: %v", err)
		ctx.JSON(iris.Map{"data": []models.AuditLog{}, "error": "Failed to fetch audit logs"})
		return
	}

	utils.JSONPage(ctx, logs, page, perPage, total)
}
