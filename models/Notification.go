package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index;not null"`
	Title   string `json:"title" gorm:"size:256"`
	Message string `json:"message" gorm:"type:text"`
	Type    string `json:"type" gorm:"size:32;index"` // payment_reminder, maintenance, message, system
	Link    string `json:"link" gorm:"size:512"`
	Tag     string `json:"tag" gorm:"size:64;index"` // dedup tag, e.g. payment-42
	Read    bool   `json:"read" gorm:"default:false;index"`
}
