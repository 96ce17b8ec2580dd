package routes

import (
	"fmt"
	"log"
	"strings"
	"time"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

var propertySortColumns = map[string]string{
	"address":       "address",
	"status":        "status",
	"revenue":       "revenue",
	"occupancyRate": "occupancy_rate",
	"createdAt":     "created_at",
}

// GetProperties lists properties with optional search/filter/sort.
// GET /api/properties?search=...&status=...&propertyType=...&sortBy=...&order=...
// A query failure yields an empty list plus an error message, never a 500,
// so list views degrade instead of breaking.
func GetProperties(ctx iris.Context) {
	search := ctx.URLParamDefault("search", "")
	status := ctx.URLParamDefault("status", "")
	propertyType := ctx.URLParamDefault("propertyType", "")
	sortBy := ctx.URLParamDefault("sortBy", "")
	order := ctx.URLParamDefault("order", "desc")

	query := storage.DB.Model(&models.Property{})

	if search != "" {
		query = query.Where("lower(address) LIKE lower(?)", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if propertyType != "" {
		query = query.Where("property_type = ?", propertyType)
	}

	if column, ok := propertySortColumns[sortBy]; ok {
		direction := "ASC"
		if strings.EqualFold(order, "desc") {
			direction = "DESC"
		}
		query = query.Order(column + " " + direction)
	} else {
		query = query.Order("created_at DESC")
	}

	properties := []models.Property{}
	if err := query.Find(&properties).Error; err != nil {
		log.Printf("Error fetching properties: %v", err)
		ctx.JSON(iris.Map{"data": []models.Property{}, "error": "Failed to fetch properties"})
		return
	}

	ctx.JSON(iris.Map{"data": properties})
}

func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Preload("Tenants").Preload("Leases").Find(&property, id)

	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(property)
}

func CreateProperty(ctx iris.Context) {
	var input CreatePropertyInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	imageURL := ""
	if input.Image != "" {
		publicID := fmt.Sprintf("property_%d", time.Now().UnixNano()/int64(time.Millisecond))
		imageURL = storage.UploadBase64Image(input.Image, publicID)
		if imageURL == "" {
			log.Printf("Failed to upload property image, continuing without one")
		}
	}

	status := input.Status
	if status == "" {
		status = "Vacant"
	}

	property := models.Property{
		Address:       input.Address,
		Status:        status,
		PropertyType:  input.PropertyType,
		Revenue:       input.Revenue,
		OccupancyRate: input.OccupancyRate,
		ImageURL:      imageURL,
		ManagerID:     input.ManagerID,
	}

	result := storage.DB.Create(&property)
	if result.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create property", ctx)
		return
	}

	utils.Audit(ctx, "create", "property", property.ID, nil, property)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := property

	if input.Image != "" && !strings.Contains(input.Image, "res.cloudinary.com") {
		publicID := fmt.Sprintf("property_%d_%d", property.ID, time.Now().UnixNano()/int64(time.Millisecond))
		if url := storage.UploadBase64Image(input.Image, publicID); url != "" {
			property.ImageURL = url
		}
	}

	property.Address = input.Address
	property.Status = input.Status
	property.PropertyType = input.PropertyType
	property.Revenue = input.Revenue
	property.OccupancyRate = input.OccupancyRate
	if input.ManagerID != 0 {
		property.ManagerID = input.ManagerID
	}

	// Map form so zero values (revenue cleared to 0) still persist.
	rowsUpdated := storage.DB.Model(&property).Updates(map[string]interface{}{
		"address":        property.Address,
		"status":         property.Status,
		"property_type":  property.PropertyType,
		"revenue":        property.Revenue,
		"occupancy_rate": property.OccupancyRate,
		"manager_id":     property.ManagerID,
		"image_url":      property.ImageURL,
	})
	if rowsUpdated.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", rowsUpdated.Error.Error(), ctx)
		return
	}

	utils.Audit(ctx, "update", "property", property.ID, before, property)

	ctx.JSON(property)
}

func DeleteProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	propertyDeleted := storage.DB.Delete(&models.Property{}, id)
	if propertyDeleted.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", propertyDeleted.Error.Error(), ctx)
		return
	}

	if property.ImageURL != "" {
		if !storage.DeleteFileFromCloudinary(property.ImageURL) {
			log.Printf("WARNING: Failed to delete property image: %s", property.ImageURL)
		}
	}

	utils.Audit(ctx, "delete", "property", property.ID, property, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type CreatePropertyInput struct {
	Address       string  `json:"address" validate:"required,max=512"`
	Status        string  `json:"status" validate:"omitempty,oneof=Occupied Vacant Maintenance"`
	PropertyType  string  `json:"propertyType" validate:"required,oneof=Residential Commercial Industrial"`
	Revenue       float64 `json:"revenue" validate:"gte=0"`
	OccupancyRate float64 `json:"occupancyRate" validate:"gte=0,lte=100"`
	ManagerID     uint    `json:"managerID"`
	Image         string  `json:"image"` // base64 payload, optional
}

type UpdatePropertyInput struct {
	Address       string  `json:"address" validate:"required,max=512"`
	Status        string  `json:"status" validate:"required,oneof=Occupied Vacant Maintenance"`
	PropertyType  string  `json:"propertyType" validate:"required,oneof=Residential Commercial Industrial"`
	Revenue       float64 `json:"revenue" validate:"gte=0"`
	OccupancyRate float64 `json:"occupancyRate" validate:"gte=0,lte=100"`
	ManagerID     uint    `json:"managerID"`
	Image         string  `json:"image"`
}
