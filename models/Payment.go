package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Payment struct {
	gorm.Model
	LeaseID               uint       `json:"leaseID" gorm:"index"`
	TenantID              uint       `json:"tenantID" gorm:"index"`
	PropertyID            uint       `json:"propertyID" gorm:"index"`
	Amount                float64    `json:"amount"`
	Status                string     `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, completed, failed
	PaymentMethod         string     `json:"paymentMethod" gorm:"size:32"`
	StripePaymentIntentID string     `json:"stripePaymentIntentID" gorm:"size:128;index"`
	DueDate               time.Time  `json:"dueDate" gorm:"index"`
	PaidDate              *time.Time `json:"paidDate"`

	Lease  *Lease  `json:"lease,omitempty" gorm:"foreignKey:LeaseID;references:ID"`
	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID;references:ID"`
}

type PaymentSettings struct {
	gorm.Model
	PropertyID      uint           `json:"propertyID" gorm:"uniqueIndex;not null"`
	LateFeeAmount   float64        `json:"lateFeeAmount"`
	GracePeriodDays int            `json:"gracePeriodDays" gorm:"default:5"`
	PaymentMethods  datatypes.JSON `json:"paymentMethods"` // JSON array of accepted methods
	AutoReminders   bool           `json:"autoReminders" gorm:"default:true"`
	ReminderDays    datatypes.JSON `json:"reminderDays"` // JSON array of day offsets
}
