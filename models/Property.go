package models

import (
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	Address             string  `json:"address" gorm:"size:512;index"`
	Status              string  `json:"status" gorm:"type:varchar(20);default:'Vacant';index"` // Occupied, Vacant, Maintenance
	PropertyType        string  `json:"propertyType" gorm:"type:varchar(20)"`                  // Residential, Commercial, Industrial
	Revenue             float64 `json:"revenue"`
	OccupancyRate       float64 `json:"occupancyRate"`
	MaintenanceRequests int     `json:"maintenanceRequests"`
	ImageURL            string  `json:"imageURL" gorm:"size:512"`
	ManagerID           uint    `json:"managerID" gorm:"index"`

	Tenants []Tenant `json:"tenants,omitempty"`
	Leases  []Lease  `json:"leases,omitempty"`
	Manager *User    `json:"manager,omitempty" gorm:"foreignKey:ManagerID;references:ID"`
}
