package models

import (
	"gorm.io/gorm"
)

// ChatRoom is keyed by (property, tenant); one room per pair.
type ChatRoom struct {
	gorm.Model
	PropertyID uint `json:"propertyID" gorm:"index:idx_room_property_tenant,unique;not null"`
	TenantID   uint `json:"tenantID" gorm:"index:idx_room_property_tenant,unique;not null"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:RoomID"`
}

type ChatMessage struct {
	gorm.Model
	RoomID   uint   `json:"roomID" gorm:"index;not null"`
	SenderID uint   `json:"senderID" gorm:"index;not null"`
	Content  string `json:"content" gorm:"type:text"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID;references:ID"`
}
