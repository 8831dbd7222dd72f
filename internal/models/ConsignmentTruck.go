package models

import "gorm.io/gorm"

// ConsignmentTruck records one dispatch event: which consignment was loaded
// onto which truck. Rows are append-only and feed the truck-usage report.
type ConsignmentTruck struct {
	gorm.Model
	ConsignmentID uint `json:"consignment_id" gorm:"index;not null"`
	TruckID       uint `json:"truck_id" gorm:"index;not null"`

	Consignment *Consignment `gorm:"foreignKey:ConsignmentID" json:"consignment,omitempty"`
	Truck       *Truck       `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
}
