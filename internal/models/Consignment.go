// internal/models/consignment.go
package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Consignment statuses. DELIVERED and CANCELLED are terminal.
const (
	ConsignmentPending   = "PENDING"
	ConsignmentInTransit = "IN_TRANSIT"
	ConsignmentDelivered = "DELIVERED"
	ConsignmentCancelled = "CANCELLED"
)

// Consignment is a shipment record. Charge is computed once at creation from
// volume, weight and route and never recomputed.
type Consignment struct {
	gorm.Model
	TrackingCode string  `json:"tracking_code" gorm:"uniqueIndex;not null"`
	Volume       float64 `json:"volume" gorm:"not null"`
	Weight       float64 `json:"weight" gorm:"not null"`
	Type         string  `json:"type"`
	Description  string  `json:"description"`

	SenderName      string `json:"sender_name" gorm:"not null"`
	SenderAddress   string `json:"sender_address" gorm:"not null"`
	SenderContact   string `json:"sender_contact"`
	ReceiverName    string `json:"receiver_name" gorm:"not null"`
	ReceiverAddress string `json:"receiver_address" gorm:"not null"`
	ReceiverContact string `json:"receiver_contact"`

	Status string  `json:"status" gorm:"not null;default:PENDING;index"`
	Charge float64 `json:"charge" gorm:"not null"`

	// BranchID is the branch of origin; DestinationBranchID the delivery branch.
	BranchID            uint    `json:"branch_id" gorm:"index;not null"`
	Branch              *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	DestinationBranchID uint    `json:"destination_branch_id" gorm:"index;not null"`
	DestinationBranch   *Branch `gorm:"foreignKey:DestinationBranchID" json:"destination_branch,omitempty"`

	// TruckID is set when the consignment is dispatched.
	TruckID      *uint      `json:"truck_id"`
	DispatchedAt *time.Time `json:"dispatched_at"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

// CanTransitionConsignment reports whether a consignment status change is legal.
func CanTransitionConsignment(from, to string) bool {
	switch from {
	case ConsignmentPending:
		return to == ConsignmentInTransit || to == ConsignmentCancelled
	case ConsignmentInTransit:
		return to == ConsignmentDelivered || to == ConsignmentCancelled
	}
	// DELIVERED and CANCELLED never transition again.
	return false
}

// WaitingHours is the elapsed time from creation until delivery, or until now
// for consignments still open.
func (c *Consignment) WaitingHours(now time.Time) float64 {
	end := now
	if c.Status == ConsignmentDelivered && c.DeliveredAt != nil {
		end = *c.DeliveredAt
	}
	return end.Sub(c.CreatedAt).Hours()
}

// Receipt renders a printable text receipt for the consignment.
func (c *Consignment) Receipt() string {
	sep := strings.Repeat("=", 40)
	line := strings.Repeat("-", 40)

	var b strings.Builder
	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, "       TRANSPORT COMPANY RECEIPT")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Consignment:  %s\n", c.TrackingCode)
	fmt.Fprintf(&b, "Date Created: %s\n", c.CreatedAt.Format("02-01-2006 15:04:05"))
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, " SENDER DETAILS")
	fmt.Fprintf(&b, " Name:    %s\n", c.SenderName)
	fmt.Fprintf(&b, " Address: %s\n", c.SenderAddress)
	fmt.Fprintf(&b, " Contact: %s\n", c.SenderContact)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, " RECEIVER DETAILS")
	fmt.Fprintf(&b, " Name:    %s\n", c.ReceiverName)
	fmt.Fprintf(&b, " Address: %s\n", c.ReceiverAddress)
	fmt.Fprintf(&b, " Contact: %s\n", c.ReceiverContact)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, " CONSIGNMENT INFO")
	if c.Type != "" {
		fmt.Fprintf(&b, " Type:    %s\n", c.Type)
	}
	fmt.Fprintf(&b, " Volume:  %.2f m3\n", c.Volume)
	fmt.Fprintf(&b, " Weight:  %.2f kg\n", c.Weight)
	if c.Description != "" {
		fmt.Fprintf(&b, " Notes:   %s\n", c.Description)
	}
	fmt.Fprintf(&b, " CHARGES: Rs. %.2f\n", c.Charge)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, " ROUTING & STATUS")
	if c.Branch != nil {
		fmt.Fprintf(&b, " Source:      %s\n", c.Branch.Name)
	}
	if c.DestinationBranch != nil {
		fmt.Fprintf(&b, " Destination: %s\n", c.DestinationBranch.Name)
	}
	fmt.Fprintf(&b, " Status:      %s\n", c.Status)
	if c.DeliveredAt != nil {
		fmt.Fprintf(&b, " Delivered:   %s\n", c.DeliveredAt.Format("02-01-2006 15:04:05"))
	}
	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, "      Thank you for your business!")
	fmt.Fprintln(&b, sep)
	return b.String()
}
