package allocation

import (
	"fmt"
	"time"

	"tccs_backend/internal/apperr"
	"tccs_backend/internal/models"
)

// ValidateDelivery checks who may confirm a delivery: a manager whose branch
// is the consignment's destination, and only while the consignment can still
// move to DELIVERED.
func ValidateDelivery(c *models.Consignment, actor *models.User) error {
	if !actor.IsManager() {
		return apperr.Forbidden("only managers can confirm delivery")
	}
	if actor.BranchID == nil || *actor.BranchID != c.DestinationBranchID {
		return apperr.Forbidden("delivery must be confirmed at the destination branch")
	}
	if !models.CanTransitionConsignment(c.Status, models.ConsignmentDelivered) {
		return apperr.BusinessRule(fmt.Sprintf("consignment %s is %s and cannot be delivered", c.TrackingCode, c.Status))
	}
	return nil
}

// TruckRelease is the state a truck returns to when its last in-transit
// consignment is delivered: AVAILABLE at the destination with a fresh idle
// stamp.
type TruckRelease struct {
	BranchID  uint
	IdleSince time.Time
}

// PlanRelease decides whether completing a delivery frees the truck. While
// other consignments remain in transit on it the truck stays IN_TRANSIT;
// only the last delivery releases it.
func PlanRelease(remainingInTransit int64, destinationID uint, now time.Time) *TruckRelease {
	if remainingInTransit > 0 {
		return nil
	}
	return &TruckRelease{BranchID: destinationID, IdleSince: now}
}

// ValidateStatusChange checks a manual truck status change. The transition
// must be legal, and a truck carrying in-transit cargo cannot be moved at
// all: a loaded truck leaves IN_TRANSIT only through delivery of its last
// consignment.
func ValidateStatusChange(t *models.Truck, newStatus string, cargoInTransit int64) error {
	if !models.CanTransitionTruck(t.Status, newStatus) {
		return apperr.BusinessRule(fmt.Sprintf("truck %s cannot move from %s to %s", t.Registration, t.Status, newStatus))
	}
	if cargoInTransit > 0 {
		return apperr.BusinessRule(fmt.Sprintf("truck %s still has %d consignments in transit", t.Registration, cargoInTransit))
	}
	return nil
}
