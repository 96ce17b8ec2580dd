package models

import (
	"gorm.io/gorm"
)

type Communication struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"index"`
	TenantID   uint   `json:"tenantID" gorm:"index"`
	Subject    string `json:"subject" gorm:"size:256"`
	Message    string `json:"message" gorm:"type:text"`
	Direction  string `json:"direction" gorm:"type:varchar(10)"` // Incoming, Outgoing
	Read       bool   `json:"read" gorm:"default:false;index"`
}
