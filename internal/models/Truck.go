// internal/models/truck.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Truck statuses. IN_TRANSIT is entered when cargo is allocated and left only
// through delivery completion; MAINTENANCE is entered and left manually.
const (
	TruckAvailable   = "AVAILABLE"
	TruckInTransit   = "IN_TRANSIT"
	TruckMaintenance = "MAINTENANCE"
)

// DefaultTruckCapacity is the fleet-standard load ceiling in cubic meters.
const DefaultTruckCapacity = 500.0

type Truck struct {
	gorm.Model
	Registration  string  `json:"registration" gorm:"unique;not null"`
	Capacity      float64 `json:"capacity" gorm:"not null;default:500"`
	Status        string  `json:"status" gorm:"not null;default:AVAILABLE"`
	DriverName    string  `json:"driver_name"`
	DriverContact string  `json:"driver_contact"`

	// BranchID is the truck's current base; DestinationBranchID is set only
	// while IN_TRANSIT.
	BranchID            uint    `json:"branch_id" gorm:"index;not null"`
	Branch              *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	DestinationBranchID *uint   `json:"destination_branch_id"`

	// IdleSince is stamped whenever the truck becomes AVAILABLE and feeds the
	// idle-time metric. Null while in transit or under maintenance.
	IdleSince *time.Time `json:"idle_since"`
}

// CanTransitionTruck reports whether a truck status change is legal.
func CanTransitionTruck(from, to string) bool {
	switch from {
	case TruckAvailable:
		return to == TruckInTransit || to == TruckMaintenance
	case TruckInTransit:
		return to == TruckAvailable
	case TruckMaintenance:
		return to == TruckAvailable
	}
	return false
}
