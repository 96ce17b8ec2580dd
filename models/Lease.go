package models

import (
	"time"

	"gorm.io/gorm"
)

type Lease struct {
	gorm.Model
	PropertyID      uint      `json:"propertyID" gorm:"index;not null"`
	TenantID        uint      `json:"tenantID" gorm:"index;not null"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate" gorm:"index"`
	MonthlyRent     float64   `json:"monthlyRent"`
	SecurityDeposit float64   `json:"securityDeposit"`
	Status          string    `json:"status" gorm:"type:varchar(20);default:'Pending';index"` // Active, Pending, Expired, Terminated
	DocumentURL     string    `json:"documentURL" gorm:"size:512"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID;references:ID"`
	Tenant   *Tenant   `json:"tenant,omitempty" gorm:"foreignKey:TenantID;references:ID"`
}
