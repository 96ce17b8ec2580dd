package routes

import (
	"log"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetDocuments lists documents, optionally scoped to a property, tenant or
// lease.
// GET /api/documents?propertyID=...&tenantID=...&leaseID=...&type=...
func GetDocuments(ctx iris.Context) {
	propertyID, _ := ctx.URLParamInt("propertyID")
	tenantID, _ := ctx.URLParamInt("tenantID")
	leaseID, _ := ctx.URLParamInt("leaseID")
	docType := ctx.URLParamDefault("type", "")

	query := storage.DB.Model(&models.Document{}).Order("created_at DESC")
	if propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if leaseID > 0 {
		query = query.Where("lease_id = ?", leaseID)
	}
	if docType != "" {
		query = query.Where("type = ?", docType)
	}

	documents := []models.Document{}
	if err := query.Find(&documents).Error; err != nil {
		log.Printf("Error fetching documents: %v", err)
		ctx.JSON(iris.Map{"data": []models.Document{}, "error": "Failed to fetch documents"})
		return
	}

	ctx.JSON(iris.Map{"data": documents})
}

// UploadDocument stores the base64 payload and records its URL.
// POST /api/documents
func UploadDocument(ctx iris.Context) {
	var input DocumentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	document := models.Document{
		PropertyID: input.PropertyID,
		TenantID:   input.TenantID,
		LeaseID:    input.LeaseID,
		Name:       input.Name,
		Type:       defaultString(input.Type, "other"),
	}

	if err := storage.DB.Create(&document).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create document", ctx)
		return
	}

	url := storage.UploadBase64File(input.File, "document-"+utils.FormatUint(document.ID), "raw")
	if url == "" {
		storage.DB.Delete(&document)
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to upload document", ctx)
		return
	}

	document.URL = url
	if err := storage.DB.Save(&document).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to save document", ctx)
		return
	}

	utils.Audit(ctx, "create", "document", document.ID, nil, document)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(document)
}

func DeleteDocument(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var document models.Document
	documentExists := storage.DB.Find(&document, id)
	if documentExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if documentExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if document.URL != "" {
		storage.DeleteFileFromCloudinary(document.URL)
	}

	if err := storage.DB.Delete(&models.Document{}, id).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	utils.Audit(ctx, "delete", "document", document.ID, document, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type DocumentInput struct {
	PropertyID *uint  `json:"propertyID"`
	TenantID   *uint  `json:"tenantID"`
	LeaseID    *uint  `json:"leaseID"`
	Name       string `json:"name" validate:"required,max=256"`
	Type       string `json:"type" validate:"omitempty,oneof=lease insurance inspection other"`
	File       string `json:"file" validate:"required"`
}
