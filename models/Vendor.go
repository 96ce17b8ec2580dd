package models

import (
	"time"

	"gorm.io/gorm"
)

type Vendor struct {
	gorm.Model
	Name            string     `json:"name" gorm:"size:256;index"`
	ServiceType     string     `json:"serviceType" gorm:"size:128;index"`
	ContactName     string     `json:"contactName" gorm:"size:256"`
	Email           string     `json:"email" gorm:"size:256"`
	Phone           string     `json:"phone" gorm:"size:50"`
	Address         string     `json:"address" gorm:"size:512"`
	RateType        string     `json:"rateType" gorm:"size:32"` // hourly, flat, per_visit
	RateAmount      float64    `json:"rateAmount"`
	InsuranceExpiry *time.Time `json:"insuranceExpiry"`
	LicenseNumber   string     `json:"licenseNumber" gorm:"size:128"`
	Status          string     `json:"status" gorm:"type:varchar(20);default:'Active';index"` // Active, Inactive
}
