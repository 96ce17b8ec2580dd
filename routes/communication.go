package routes

import (
	"log"

	"property-management-server/models"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetCommunications lists the communication log for a property/tenant pair.
// GET /api/communications?propertyID=...&tenantID=...&unread=true
func GetCommunications(ctx iris.Context) {
	propertyID, _ := ctx.URLParamInt("propertyID")
	tenantID, _ := ctx.URLParamInt("tenantID")
	unreadOnly, _ := ctx.URLParamBool("unread")

	query := storage.DB.Model(&models.Communication{}).Order("created_at DESC")

	if propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	communications := []models.Communication{}
	if err := query.Find(&communications).Error; err != nil {
		log.Printf("Error fetching communications: %v", err)
		ctx.JSON(iris.Map{"data": []models.Communication{}, "error": "Failed to fetch communications"})
		return
	}

	ctx.JSON(iris.Map{"data": communications})
}

func CreateCommunication(ctx iris.Context) {
	var input CommunicationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	communication := models.Communication{
		PropertyID: input.PropertyID,
		TenantID:   input.TenantID,
		Subject:    input.Subject,
		Message:    input.Message,
		Direction:  input.Direction,
	}

	if err := storage.DB.Create(&communication).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create communication", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(communication)
}

func MarkCommunicationRead(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	result := storage.DB.Model(&models.Communication{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

type CommunicationInput struct {
	PropertyID uint   `json:"propertyID" validate:"required"`
	TenantID   uint   `json:"tenantID" validate:"required"`
	Subject    string `json:"subject" validate:"required,max=256"`
	Message    string `json:"message" validate:"required"`
	Direction  string `json:"direction" validate:"required,oneof=Incoming Outgoing"`
}
