package routes

import (
	"log"
	"time"

	"property-management-server/models"
	"property-management-server/services"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/kataras/iris/v12"
)

// GetPayments lists payment history, newest first.
// GET /api/payments?tenantID=...&leaseID=...&status=...
func GetPayments(ctx iris.Context) {
	tenantID, _ := ctx.URLParamInt("tenantID")
	leaseID, _ := ctx.URLParamInt("leaseID")
	status := ctx.URLParamDefault("status", "")

	query := storage.DB.Model(&models.Payment{})

	if tenantID > 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if leaseID > 0 {
		query = query.Where("lease_id = ?", leaseID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	payments := []models.Payment{}
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		log.Printf("Error fetching payments: %v", err)
		ctx.JSON(iris.Map{"data": []models.Payment{}, "error": "Failed to fetch payments"})
		return
	}

	ctx.JSON(iris.Map{"data": payments})
}

// CreatePayment records a payment row without charging anything (manual
// entry: cash, check, bank transfer).
func CreatePayment(ctx iris.Context) {
	var input CreatePaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	payment := models.Payment{
		LeaseID:       input.LeaseID,
		TenantID:      input.TenantID,
		PropertyID:    input.PropertyID,
		Amount:        input.Amount,
		Status:        defaultString(input.Status, "pending"),
		PaymentMethod: input.PaymentMethod,
		DueDate:       input.DueDate,
		PaidDate:      input.PaidDate,
	}

	if err := storage.DB.Create(&payment).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create payment", ctx)
		return
	}

	utils.Audit(ctx, "create", "payment", payment.ID, nil, payment)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(payment)
}

// ProcessCardPayment runs the card charge end to end. The row is recorded
// BEFORE the charge and settled after confirmation, so a crash between
// charge and record leaves a pending row carrying the intent id for the
// reconciliation sweep instead of a charged-but-unrecorded payment.
func ProcessCardPayment(ctx iris.Context) {
	var input ProcessCardPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	payment := models.Payment{
		LeaseID:       input.LeaseID,
		TenantID:      input.TenantID,
		PropertyID:    input.PropertyID,
		Amount:        input.Amount,
		Status:        "pending",
		PaymentMethod: "card",
		DueDate:       time.Now(),
	}
	if err := storage.DB.Create(&payment).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to record payment", ctx)
		return
	}

	amountCents := int64(input.Amount * 100)
	intent, err := services.CreatePaymentIntent(amountCents, "usd", input.PaymentMethodID, map[string]string{
		"payment_id": utils.FormatUint(payment.ID),
		"tenant_id":  utils.FormatUint(payment.TenantID),
	})
	if err != nil {
		storage.DB.Model(&payment).Update("status", "failed")
		utils.CreateError(iris.StatusBadGateway, "Payment Error", err.Error(), ctx)
		return
	}

	// The intent id is persisted before confirmation; from here on the
	// reconciliation sweep can settle the row if we lose the response.
	storage.DB.Model(&payment).Update("stripe_payment_intent_id", intent.ID)

	if intent.Status != "succeeded" {
		intent, err = services.ConfirmPaymentIntent(intent.ID)
		if err != nil {
			log.Printf("Payment %d: confirm failed, leaving pending for reconciliation: %v", payment.ID, err)
			utils.CreateError(iris.StatusBadGateway, "Payment Error", err.Error(), ctx)
			return
		}
	}

	if intent.Status == "succeeded" {
		now := time.Now()
		storage.DB.Model(&payment).Updates(map[string]interface{}{
			"status":    "completed",
			"paid_date": now,
		})
		payment.Status = "completed"
		payment.PaidDate = &now
	}
	payment.StripePaymentIntentID = intent.ID

	utils.Audit(ctx, "charge", "payment", payment.ID, nil, payment)

	ctx.JSON(iris.Map{
		"payment":      payment,
		"intentStatus": intent.Status,
		"clientSecret": intent.ClientSecret,
	})
}

// Payment settings per property

func GetPaymentSettings(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("propertyID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property id", ctx)
		return
	}

	var settings models.PaymentSettings
	result := storage.DB.Where("property_id = ?", propertyID).Limit(1).Find(&settings)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(settings)
}

func UpsertPaymentSettings(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("propertyID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property id", ctx)
		return
	}

	var input PaymentSettingsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var settings models.PaymentSettings
	result := storage.DB.Where("property_id = ?", propertyID).Limit(1).Find(&settings)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	settings.PropertyID = propertyID
	settings.LateFeeAmount = input.LateFeeAmount
	settings.GracePeriodDays = input.GracePeriodDays
	settings.AutoReminders = input.AutoReminders
	if input.PaymentMethods != nil {
		settings.PaymentMethods = utils.MustJSON(input.PaymentMethods)
	}
	if input.ReminderDays != nil {
		settings.ReminderDays = utils.MustJSON(input.ReminderDays)
	}

	if err := storage.DB.Save(&settings).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to save payment settings", ctx)
		return
	}

	ctx.JSON(settings)
}

type CreatePaymentInput struct {
	LeaseID       uint       `json:"leaseID"`
	TenantID      uint       `json:"tenantID" validate:"required"`
	PropertyID    uint       `json:"propertyID"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending completed failed"`
	PaymentMethod string     `json:"paymentMethod" validate:"max=32"`
	DueDate       time.Time  `json:"dueDate" validate:"required"`
	PaidDate      *time.Time `json:"paidDate"`
}

type ProcessCardPaymentInput struct {
	LeaseID         uint    `json:"leaseID"`
	TenantID        uint    `json:"tenantID" validate:"required"`
	PropertyID      uint    `json:"propertyID"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethodID string  `json:"paymentMethodID" validate:"required"`
}

type PaymentSettingsInput struct {
	LateFeeAmount   float64  `json:"lateFeeAmount" validate:"gte=0"`
	GracePeriodDays int      `json:"gracePeriodDays" validate:"gte=0,lte=60"`
	PaymentMethods  []string `json:"paymentMethods"`
	AutoReminders   bool     `json:"autoReminders"`
	ReminderDays    []int    `json:"reminderDays"`
}
