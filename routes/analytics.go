package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// TrackEvent records a client-side analytics event.
// POST /api/analytics/events
func TrackEvent(ctx iris.Context) {
	var input TrackEventInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	event := models.AnalyticsEvent{
		UserID:    currentUserID(ctx),
		EventType: input.EventType,
		EventData: utils.MustJSON(input.EventData),
		CreatedAt: time.Now(),
	}

	if err := storage.DB.Create(&event).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to record event", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true})
}

// GetDashboardStats aggregates the numbers shown on the landing dashboard:
// property status counts, active tenants, open maintenance, and revenue
// collected this month.
// GET /api/stats
func GetDashboardStats(ctx iris.Context) {
	stats := iris.Map{}

	var totalProperties, occupied, vacant, underMaintenance int64
	storage.DB.Model(&models.Property{}).Count(&totalProperties)
	storage.DB.Model(&models.Property{}).Where("status = ?", "Occupied").Count(&occupied)
	storage.DB.Model(&models.Property{}).Where("status = ?", "Vacant").Count(&vacant)
	storage.DB.Model(&models.Property{}).Where("status = ?", "Maintenance").Count(&underMaintenance)

	stats["totalProperties"] = totalProperties
	stats["occupiedProperties"] = occupied
	stats["vacantProperties"] = vacant
	stats["maintenanceProperties"] = underMaintenance
	if totalProperties > 0 {
		stats["occupancyRate"] = float64(occupied) / float64(totalProperties) * 100
	} else {
		stats["occupancyRate"] = 0.0
	}

	var activeTenants int64
	storage.DB.Model(&models.Tenant{}).Where("status = ?", "Active").Count(&activeTenants)
	stats["activeTenants"] = activeTenants

	var openMaintenance int64
	storage.DB.Model(&models.MaintenanceRequest{}).
		Where("status IN ?", []string{"Pending", "In Progress"}).
		Count(&openMaintenance)
	stats["openMaintenanceRequests"] = openMaintenance

	var expiringLeases int64
	cutoff := time.Now().AddDate(0, 0, 30)
	storage.DB.Model(&models.Lease{}).
		Where("status = ? AND end_date <= ?", "Active", cutoff).
		Count(&expiringLeases)
	stats["leasesExpiringSoon"] = expiringLeases

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	var monthlyRevenue float64
	storage.DB.Model(&models.Payment{}).
		Where("status = ? AND paid_date >= ?", "completed", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthlyRevenue)
	stats["monthlyRevenue"] = monthlyRevenue

	var pendingPayments int64
	storage.DB.Model(&models.Payment{}).Where("status = ?", "pending").Count(&pendingPayments)
	stats["pendingPayments"] = pendingPayments

	ctx.JSON(stats)
}

// GetAnalyticsSummary combines the revenue series and current occupancy
// over a window into one payload.
// GET /api/analytics?days=30
func GetAnalyticsSummary(ctx iris.Context) {
	days := ctx.URLParamIntDefault("days", 30)
	since := time.Now().AddDate(0, 0, -days)

	var totalRevenue float64
	storage.DB.Model(&models.Payment{}).
		Where("status = ? AND paid_date >= ?", "completed", since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	points := []RevenuePoint{}
	storage.DB.Model(&models.Payment{}).
		Select("date(paid_date) AS day, SUM(amount) AS total").
		Where("status = ? AND paid_date >= ?", "completed", since).
		Group("date(paid_date)").
		Order("day ASC").
		Scan(&points)

	var totalProperties, occupied int64
	storage.DB.Model(&models.Property{}).Count(&totalProperties)
	storage.DB.Model(&models.Property{}).Where("status = ?", "Occupied").Count(&occupied)

	occupancyRate := 0.0
	if totalProperties > 0 {
		occupancyRate = float64(occupied) / float64(totalProperties) * 100
	}

	ctx.JSON(iris.Map{
		"days":          days,
		"totalRevenue":  totalRevenue,
		"revenueByDay":  points,
		"occupancyRate": occupancyRate,
	})
}

// RevenuePoint is one day of collected revenue in the trend series.
type RevenuePoint struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// GetRevenueTrend returns per-day collected revenue over the window.
// GET /api/analytics/revenue?days=30
func GetRevenueTrend(ctx iris.Context) {
	days := ctx.URLParamIntDefault("days", 30)
	since := time.Now().AddDate(0, 0, -days)

	points := []RevenuePoint{}
	if err := storage.DB.Model(&models.Payment{}).
		Select("date(paid_date) AS day, SUM(amount) AS total").
		Where("status = ? AND paid_date >= ?", "completed", since).
		Group("date(paid_date)").
		Order("day ASC").
		Scan(&points).Error; err != nil {
		log.Printf("Error computing revenue trend: %v", err)
		ctx.JSON(iris.Map{"data": []RevenuePoint{}, "error": "Failed to compute revenue trend"})
		return
	}

	ctx.JSON(iris.Map{"data": points})
}

// EventCount is an aggregate row of analytics events by type.
type EventCount struct {
	EventType string `json:"eventType"`
	Count     int64  `json:"count"`
}

// GetEventCounts aggregates analytics events by type over the window.
// GET /api/analytics/events?days=7
func GetEventCounts(ctx iris.Context) {
	days := ctx.URLParamIntDefault("days", 7)
	since := time.Now().AddDate(0, 0, -days)

	counts := []EventCount{}
	if err := storage.DB.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("event_type").
		Order("count DESC").
		Scan(&counts).Error; err != nil {
		log.Printf("Error aggregating events: %v", err)
		ctx.JSON(iris.Map{"data": []EventCount{}, "error": "Failed to aggregate events"})
		return
	}

	ctx.JSON(iris.Map{"data": counts})
}

type TrackEventInput struct {
	EventType string                 `json:"eventType" validate:"required,max=64"`
	EventData map[string]interface{} `json:"eventData"`
}
