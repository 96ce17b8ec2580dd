package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CalendarEvent struct {
	gorm.Model
	PropertyID  uint           `json:"propertyID" gorm:"index"`
	TenantID    uint           `json:"tenantID" gorm:"index"`
	Title       string         `json:"title" gorm:"size:256"`
	Description string         `json:"description" gorm:"type:text"`
	EventType   string         `json:"eventType" gorm:"size:32;index"` // inspection, viewing, lease_signing, maintenance
	StartTime   time.Time      `json:"startTime" gorm:"index"`
	EndTime     time.Time      `json:"endTime" gorm:"index"`
	Status      string         `json:"status" gorm:"type:varchar(20);default:'Scheduled'"`
	Attendees   datatypes.JSON `json:"attendees"` // JSON array of attendee emails
}
