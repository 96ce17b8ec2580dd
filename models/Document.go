package models

import (
	"gorm.io/gorm"
)

type Document struct {
	gorm.Model
	PropertyID *uint  `json:"propertyID" gorm:"index"`
	TenantID   *uint  `json:"tenantID" gorm:"index"`
	LeaseID    *uint  `json:"leaseID" gorm:"index"`
	Name       string `json:"name" gorm:"size:256"`
	Type       string `json:"type" gorm:"size:64"` // lease, insurance, inspection, other
	URL        string `json:"url" gorm:"size:512"`
}
