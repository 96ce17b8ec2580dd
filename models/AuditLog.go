package models

import (
	"time"
)

type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userID" gorm:"index;not null"`
	Action     string    `json:"action" gorm:"size:64;index"`
	EntityType string    `json:"entityType" gorm:"size:64;index"`
	EntityID   uint      `json:"entityID" gorm:"index"`
	OldValues  string    `json:"oldValues" gorm:"type:text"`
	NewValues  string    `json:"newValues" gorm:"type:text"`
	IPAddress  string    `json:"ipAddress" gorm:"size:64"`
	UserAgent  string    `json:"userAgent" gorm:"size:256"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}
