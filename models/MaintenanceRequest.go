package models

import (
	"time"

	"gorm.io/gorm"
)

type MaintenanceRequest struct {
	gorm.Model
	PropertyID    uint       `json:"propertyID" gorm:"index;not null"`
	TenantID      uint       `json:"tenantID" gorm:"index"`
	VendorID      *uint      `json:"vendorID" gorm:"index"`
	Title         string     `json:"title" gorm:"size:256"`
	Description   string     `json:"description" gorm:"type:text"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:'Pending';index"` // Pending, In Progress, Completed, Cancelled
	Priority      string     `json:"priority" gorm:"type:varchar(10);default:'Medium'"`      // Low, Medium, High
	ScheduledDate *time.Time `json:"scheduledDate"`
	CompletedDate *time.Time `json:"completedDate"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID;references:ID"`
	Tenant   *Tenant   `json:"tenant,omitempty" gorm:"foreignKey:TenantID;references:ID"`
	Vendor   *Vendor   `json:"vendor,omitempty" gorm:"foreignKey:VendorID;references:ID"`
}
