package models

import (
	"time"

	"gorm.io/gorm"
)

type Tenant struct {
	gorm.Model
	UserID          uint       `json:"userID" gorm:"index"`
	PropertyID      uint       `json:"propertyID" gorm:"index"`
	MoveInDate      *time.Time `json:"moveInDate"`
	LeaseEndDate    *time.Time `json:"leaseEndDate"`
	RentAmount      float64    `json:"rentAmount"`
	SecurityDeposit float64    `json:"securityDeposit"`

	// Screening
	BackgroundCheckStatus string `json:"backgroundCheckStatus" gorm:"type:varchar(32)"`
	CreditScore           int    `json:"creditScore"`
	EmploymentVerified    bool   `json:"employmentVerified"`
	ReferencesVerified    bool   `json:"referencesVerified"`

	Status string `json:"status" gorm:"type:varchar(32);default:'Active';index"`

	User     *User             `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Property *Property         `json:"property,omitempty" gorm:"foreignKey:PropertyID;references:ID"`
	Refs     []TenantReference `json:"references,omitempty" gorm:"foreignKey:TenantID"`
}

type TenantReference struct {
	gorm.Model
	TenantID         uint       `json:"tenantID" gorm:"index;not null"`
	Name             string     `json:"name" gorm:"size:256"`
	Relationship     string     `json:"relationship" gorm:"size:128"`
	Phone            string     `json:"phone" gorm:"size:50"`
	Email            string     `json:"email" gorm:"size:256"`
	Verified         bool       `json:"verified"`
	VerificationDate *time.Time `json:"verificationDate"`
}
