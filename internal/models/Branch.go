package models

import (
	"gorm.io/gorm"
)

// Branch represents a physical depot/office location. Employees, trucks and
// consignment origins are all scoped to a branch.
type Branch struct {
	gorm.Model

	Name     string `json:"name" gorm:"unique;not null" binding:"required"`
	Location string `json:"location" gorm:"not null" binding:"required"`
	Contact  string `json:"contact"`
	Address  string `json:"address"`

	// Associations
	Trucks       []Truck       `gorm:"foreignKey:BranchID" json:"trucks,omitempty"`
	Consignments []Consignment `gorm:"foreignKey:BranchID" json:"consignments,omitempty"`
}
