package models

import (
	"time"

	"gorm.io/gorm"
)

// Revenue is one booked transaction, written in the same transaction as the
// consignment that produced it.
type Revenue struct {
	gorm.Model
	BranchID        uint      `json:"branch_id" gorm:"index;not null"`
	Branch          *Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Amount          float64   `json:"amount" gorm:"not null"`
	TransactionDate time.Time `json:"transaction_date" gorm:"index;not null"`
	Description     string    `json:"description"`

	ConsignmentID *uint        `json:"consignment_id"`
	Consignment   *Consignment `gorm:"foreignKey:ConsignmentID;constraint:OnDelete:SET NULL;" json:"consignment,omitempty"`
}
