package routes

import (
	"fmt"
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetLeases lists leases with optional filters.
// GET /api/leases?status=...&propertyID=...&tenantID=...
func GetLeases(ctx iris.Context) {
	status := ctx.URLParamDefault("status", "")
	propertyID, _ := ctx.URLParamInt("propertyID")
	tenantID, _ := ctx.URLParamInt("tenantID")

	query := storage.DB.Model(&models.Lease{}).Preload("Property").Preload("Tenant")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}

	leases := []models.Lease{}
	if err := query.Order("created_at DESC").Find(&leases).Error; err != nil {
		log.Printf("Error fetching leases: %v", err)
		ctx.JSON(iris.Map{"data": []models.Lease{}, "error": "Failed to fetch leases"})
		return
	}

	ctx.JSON(iris.Map{"data": leases})
}

func CreateLease(ctx iris.Context) {
	var input CreateLeaseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.EndDate.After(input.StartDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be after startDate", ctx)
		return
	}

	documentURL := ""
	if input.Document != "" {
		publicID := fmt.Sprintf("lease_%d_%d", input.PropertyID, time.Now().UnixNano()/int64(time.Millisecond))
		documentURL = storage.UploadBase64File(input.Document, publicID, "raw")
		if documentURL == "" {
			log.Printf("Failed to upload lease document, continuing without one")
		}
	}

	lease := models.Lease{
		PropertyID:      input.PropertyID,
		TenantID:        input.TenantID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		MonthlyRent:     input.MonthlyRent,
		SecurityDeposit: input.SecurityDeposit,
		Status:          defaultString(input.Status, "Pending"),
		DocumentURL:     documentURL,
	}

	if err := storage.DB.Create(&lease).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create lease", ctx)
		return
	}

	utils.Audit(ctx, "create", "lease", lease.ID, nil, lease)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(lease)
}

func UpdateLease(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var lease models.Lease
	leaseExists := storage.DB.Find(&lease, id)
	if leaseExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if leaseExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdateLeaseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := lease

	if input.StartDate != nil {
		lease.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		lease.EndDate = *input.EndDate
	}
	if input.MonthlyRent != nil {
		lease.MonthlyRent = *input.MonthlyRent
	}
	if input.SecurityDeposit != nil {
		lease.SecurityDeposit = *input.SecurityDeposit
	}
	if input.Status != "" {
		lease.Status = input.Status
	}
	if input.Document != "" {
		publicID := fmt.Sprintf("lease_%d_%d", lease.PropertyID, time.Now().UnixNano()/int64(time.Millisecond))
		if url := storage.UploadBase64File(input.Document, publicID, "raw"); url != "" {
			lease.DocumentURL = url
		}
	}

	if !lease.EndDate.After(lease.StartDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be after startDate", ctx)
		return
	}

	if err := storage.DB.Save(&lease).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update lease", ctx)
		return
	}

	utils.Audit(ctx, "update", "lease", lease.ID, before, lease)

	ctx.JSON(lease)
}

func DeleteLease(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var lease models.Lease
	leaseExists := storage.DB.Find(&lease, id)
	if leaseExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Lease{}, id).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	utils.Audit(ctx, "delete", "lease", lease.ID, lease, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type CreateLeaseInput struct {
	PropertyID      uint      `json:"propertyID" validate:"required"`
	TenantID        uint      `json:"tenantID" validate:"required"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required"`
	MonthlyRent     float64   `json:"monthlyRent" validate:"required,gt=0"`
	SecurityDeposit float64   `json:"securityDeposit" validate:"gte=0"`
	Status          string    `json:"status" validate:"omitempty,oneof=Active Pending Expired Terminated"`
	Document        string    `json:"document"` // base64 payload, optional
}

type UpdateLeaseInput struct {
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	MonthlyRent     *float64   `json:"monthlyRent"`
	SecurityDeposit *float64   `json:"securityDeposit"`
	Status          string     `json:"status" validate:"omitempty,oneof=Active Pending Expired Terminated"`
	Document        string     `json:"document"`
}
