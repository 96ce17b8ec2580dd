package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetVendors lists vendors with optional search/filter.
// GET /api/vendors?search=...&status=...&serviceType=...
func GetVendors(ctx iris.Context) {
	search := ctx.URLParamDefault("search", "")
	status := ctx.URLParamDefault("status", "")
	serviceType := ctx.URLParamDefault("serviceType", "")

	query := storage.DB.Model(&models.Vendor{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("lower(name) LIKE lower(?) OR lower(service_type) LIKE lower(?)", pattern, pattern)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}

	vendors := []models.Vendor{}
	if err := query.Order("created_at DESC").Find(&vendors).Error; err != nil {
		log.Printf("Error fetching vendors: %v", err)
		ctx.JSON(iris.Map{"data": []models.Vendor{}, "error": "Failed to fetch vendors"})
		return
	}

	ctx.JSON(iris.Map{"data": vendors})
}

func CreateVendor(ctx iris.Context) {
	var input VendorInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	vendor := models.Vendor{
		Name:            input.Name,
		ServiceType:     input.ServiceType,
		ContactName:     input.ContactName,
		Email:           input.Email,
		Phone:           input.Phone,
		Address:         input.Address,
		RateType:        input.RateType,
		RateAmount:      input.RateAmount,
		InsuranceExpiry: input.InsuranceExpiry,
		LicenseNumber:   input.LicenseNumber,
		Status:          defaultString(input.Status, "Active"),
	}

	if err := storage.DB.Create(&vendor).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create vendor", ctx)
		return
	}

	utils.Audit(ctx, "create", "vendor", vendor.ID, nil, vendor)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(vendor)
}

func UpdateVendor(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var vendor models.Vendor
	vendorExists := storage.DB.Find(&vendor, id)
	if vendorExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if vendorExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input VendorInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := vendor

	vendor.Name = input.Name
	vendor.ServiceType = input.ServiceType
	vendor.ContactName = input.ContactName
	vendor.Email = input.Email
	vendor.Phone = input.Phone
	vendor.Address = input.Address
	vendor.RateType = input.RateType
	vendor.RateAmount = input.RateAmount
	vendor.InsuranceExpiry = input.InsuranceExpiry
	vendor.LicenseNumber = input.LicenseNumber
	if input.Status != "" {
		vendor.Status = input.Status
	}

	if err := storage.DB.Save(&vendor).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update vendor", ctx)
		return
	}

	utils.Audit(ctx, "update", "vendor", vendor.ID, before, vendor)

	ctx.JSON(vendor)
}

func DeleteVendor(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var vendor models.Vendor
	vendorExists := storage.DB.Find(&vendor, id)
	if vendorExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Vendor{}, id).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	utils.Audit(ctx, "delete", "vendor", vendor.ID, vendor, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

// GetExpiringInsurance lists vendors whose insurance lapses inside the window.
// GET /api/vendors/expiring-insurance?days=30
func GetExpiringInsurance(ctx iris.Context) {
	days := ctx.URLParamIntDefault("days", 30)
	cutoff := time.Now().AddDate(0, 0, days)

	vendors := []models.Vendor{}
	if err := storage.DB.
		Where("insurance_expiry IS NOT NULL AND insurance_expiry <= ? AND status = ?", cutoff, "Active").
		Order("insurance_expiry ASC").
		Find(&vendors).Error; err != nil {
		log.Printf("Error fetching expiring insurance: %v", err)
		ctx.JSON(iris.Map{"data": []models.Vendor{}, "error": "Failed to fetch vendors"})
		return
	}

	ctx.JSON(iris.Map{"data": vendors})
}

type VendorInput struct {
	Name            string     `json:"name" validate:"required,max=256"`
	ServiceType     string     `json:"serviceType" validate:"required,max=128"`
	ContactName     string     `json:"contactName" validate:"max=256"`
	Email           string     `json:"email" validate:"omitempty,email"`
	Phone           string     `json:"phone" validate:"max=50"`
	Address         string     `json:"address" validate:"max=512"`
	RateType        string     `json:"rateType" validate:"omitempty,oneof=hourly flat per_visit"`
	RateAmount      float64    `json:"rateAmount" validate:"gte=0"`
	InsuranceExpiry *time.Time `json:"insuranceExpiry"`
	LicenseNumber   string     `json:"licenseNumber" validate:"max=128"`
	Status          string     `json:"status" validate:"omitempty,oneof=Active Inactive"`
}
