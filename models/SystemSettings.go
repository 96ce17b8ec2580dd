package models

import (
	"gorm.io/gorm"
)

// SystemSettings is a single-row table; the server always works with row ID 1.
type SystemSettings struct {
	gorm.Model
	MaintenanceAutoAssign  bool `json:"maintenanceAutoAssign" gorm:"default:false"`
	PaymentReminders       bool `json:"paymentReminders" gorm:"default:true"`
	EmailNotifications     bool `json:"emailNotifications" gorm:"default:true"`
	MaxMaintenanceRequests int  `json:"maxMaintenanceRequests" gorm:"default:10"`
	DefaultGracePeriod     int  `json:"defaultGracePeriod" gorm:"default:5"`
}
