package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetTenants lists tenants joined with their user and property rows.
// GET /api/tenants?search=...&status=...&propertyID=...
func GetTenants(ctx iris.Context) {
	search := ctx.URLParamDefault("search", "")
	status := ctx.URLParamDefault("status", "")
	propertyID, _ := ctx.URLParamInt("propertyID")

	query := storage.DB.Model(&models.Tenant{}).
		Joins("JOIN users ON users.id = tenants.user_id").
		Preload("User").Preload("Property")

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("lower(users.full_name) LIKE lower(?) OR lower(users.email) LIKE lower(?)", pattern, pattern)
	}
	if status != "" {
		query = query.Where("tenants.status = ?", status)
	}
	if propertyID > 0 {
		query = query.Where("tenants.property_id = ?", propertyID)
	}

	tenants := []models.Tenant{}
	if err := query.Order("tenants.created_at DESC").Find(&tenants).Error; err != nil {
		log.Printf("Error fetching tenants: %v", err)
		ctx.JSON(iris.Map{"data": []models.Tenant{}, "error": "Failed to fetch tenants"})
		return
	}

	ctx.JSON(iris.Map{"data": tenants})
}

func GetTenant(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var tenant models.Tenant
	tenantExists := storage.DB.Preload("User").Preload("Property").Preload("Refs").Find(&tenant, id)
	if tenantExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if tenantExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(tenant)
}

func CreateTenant(ctx iris.Context) {
	var input CreateTenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tenant := models.Tenant{
		UserID:                input.UserID,
		PropertyID:            input.PropertyID,
		MoveInDate:            input.MoveInDate,
		LeaseEndDate:          input.LeaseEndDate,
		RentAmount:            input.RentAmount,
		SecurityDeposit:       input.SecurityDeposit,
		BackgroundCheckStatus: input.BackgroundCheckStatus,
		CreditScore:           input.CreditScore,
		EmploymentVerified:    input.EmploymentVerified,
		ReferencesVerified:    input.ReferencesVerified,
		Status:                defaultString(input.Status, "Active"),
	}

	if err := storage.DB.Create(&tenant).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create tenant", ctx)
		return
	}

	utils.Audit(ctx, "create", "tenant", tenant.ID, nil, tenant)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(tenant)
}

func UpdateTenant(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var tenant models.Tenant
	tenantExists := storage.DB.Find(&tenant, id)
	if tenantExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if tenantExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdateTenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := tenant

	if input.MoveInDate != nil {
		tenant.MoveInDate = input.MoveInDate
	}
	if input.LeaseEndDate != nil {
		tenant.LeaseEndDate = input.LeaseEndDate
	}
	if input.RentAmount != nil {
		tenant.RentAmount = *input.RentAmount
	}
	if input.SecurityDeposit != nil {
		tenant.SecurityDeposit = *input.SecurityDeposit
	}
	if input.BackgroundCheckStatus != "" {
		tenant.BackgroundCheckStatus = input.BackgroundCheckStatus
	}
	if input.CreditScore != nil {
		tenant.CreditScore = *input.CreditScore
	}
	if input.EmploymentVerified != nil {
		tenant.EmploymentVerified = *input.EmploymentVerified
	}
	if input.ReferencesVerified != nil {
		tenant.ReferencesVerified = *input.ReferencesVerified
	}
	if input.Status != "" {
		tenant.Status = input.Status
	}

	if err := storage.DB.Save(&tenant).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update tenant", ctx)
		return
	}

	utils.Audit(ctx, "update", "tenant", tenant.ID, before, tenant)

	ctx.JSON(tenant)
}

func DeleteTenant(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var tenant models.Tenant
	tenantExists := storage.DB.Find(&tenant, id)
	if tenantExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Tenant{}, id).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	utils.Audit(ctx, "delete", "tenant", tenant.ID, tenant, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

// Tenant references (screening)

func GetTenantReferences(ctx iris.Context) {
	tenantID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid tenant id", ctx)
		return
	}

	refs := []models.TenantReference{}
	if err := storage.DB.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&refs).Error; err != nil {
		log.Printf("Error fetching tenant references: %v", err)
		ctx.JSON(iris.Map{"data": []models.TenantReference{}, "error": "Failed to fetch references"})
		return
	}

	ctx.JSON(iris.Map{"data": refs})
}

func CreateTenantReference(ctx iris.Context) {
	tenantID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid tenant id", ctx)
		return
	}

	var input CreateTenantReferenceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	ref := models.TenantReference{
		TenantID:     tenantID,
		Name:         input.Name,
		Relationship: input.Relationship,
		Phone:        input.Phone,
		Email:        input.Email,
	}

	if err := storage.DB.Create(&ref).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create reference", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(ref)
}

func VerifyTenantReference(ctx iris.Context) {
	refID, err := ctx.Params().GetUint("refID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid reference id", ctx)
		return
	}

	var ref models.TenantReference
	refExists := storage.DB.Find(&ref, refID)
	if refExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	if err := storage.DB.Model(&ref).Updates(map[string]interface{}{
		"verified":          true,
		"verification_date": now,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(ref)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

type CreateTenantInput struct {
	UserID                uint       `json:"userID" validate:"required"`
	PropertyID            uint       `json:"propertyID" validate:"required"`
	MoveInDate            *time.Time `json:"moveInDate"`
	LeaseEndDate          *time.Time `json:"leaseEndDate"`
	RentAmount            float64    `json:"rentAmount" validate:"gte=0"`
	SecurityDeposit       float64    `json:"securityDeposit" validate:"gte=0"`
	BackgroundCheckStatus string     `json:"backgroundCheckStatus"`
	CreditScore           int        `json:"creditScore" validate:"gte=0,lte=850"`
	EmploymentVerified    bool       `json:"employmentVerified"`
	ReferencesVerified    bool       `json:"referencesVerified"`
	Status                string     `json:"status"`
}

type UpdateTenantInput struct {
	MoveInDate            *time.Time `json:"moveInDate"`
	LeaseEndDate          *time.Time `json:"leaseEndDate"`
	RentAmount            *float64   `json:"rentAmount"`
	SecurityDeposit       *float64   `json:"securityDeposit"`
	BackgroundCheckStatus string     `json:"backgroundCheckStatus"`
	CreditScore           *int       `json:"creditScore"`
	EmploymentVerified    *bool      `json:"employmentVerified"`
	ReferencesVerified    *bool      `json:"referencesVerified"`
	Status                string     `json:"status"`
}

type CreateTenantReferenceInput struct {
	Name         string `json:"name" validate:"required,max=256"`
	Relationship string `json:"relationship" validate:"required,max=128"`
	Phone        string `json:"phone" validate:"max=50"`
	Email        string `json:"email" validate:"omitempty,email"`
}
