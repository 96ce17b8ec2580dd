package models

import (
	"time"

	"gorm.io/datatypes"
)

type AnalyticsEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"userID" gorm:"index"`
	EventType string         `json:"eventType" gorm:"size:64;index"`
	EventData datatypes.JSON `json:"eventData"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
}
