package allocation

import (
	"fmt"
	"sort"

	"tccs_backend/internal/apperr"
	"tccs_backend/internal/models"
)

// DispatchPlan is the outcome of a threshold check: one truck and the pending
// consignments to load onto it.
type DispatchPlan struct {
	Truck        models.Truck
	Consignments []models.Consignment
	TotalVolume  float64
}

// PendingVolume sums the volume of a pending set.
func PendingVolume(pending []models.Consignment) float64 {
	var total float64
	for _, c := range pending {
		total += c.Volume
	}
	return total
}

// PlanDispatch decides whether accumulated pending volume at a branch
// justifies sending a truck, and which consignments ride on it.
//
// Each truck's headroom is its capacity minus the volume already linked to it
// (per the linked map; a missing entry means empty). Dispatch fires once the
// pending volume can fill at least one available truck's headroom. The chosen
// truck is the largest-headroom candidate the volume can fill, tie-broken by
// lowest id. Consignments are loaded oldest-first while they fit; whatever
// does not fit stays PENDING for the next trigger, so the capacity invariant
// holds on this path too. Returns nil when no dispatch is warranted.
func PlanDispatch(pending []models.Consignment, available []models.Truck, linked map[uint]float64) *DispatchPlan {
	total := PendingVolume(pending)
	if total <= 0 {
		return nil
	}

	var chosen *models.Truck
	var chosenRoom float64
	for i := range available {
		t := &available[i]
		room := t.Capacity - linked[t.ID]
		if t.Status != models.TruckAvailable || room <= 0 || total < room {
			continue
		}
		if chosen == nil || room > chosenRoom ||
			(room == chosenRoom && t.ID < chosen.ID) {
			chosen = t
			chosenRoom = room
		}
	}
	if chosen == nil {
		return nil
	}

	ordered := make([]models.Consignment, len(pending))
	copy(ordered, pending)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	plan := &DispatchPlan{Truck: *chosen}
	remaining := chosenRoom
	for _, c := range ordered {
		if c.Volume > remaining {
			continue
		}
		plan.Consignments = append(plan.Consignments, c)
		plan.TotalVolume += c.Volume
		remaining -= c.Volume
	}
	if len(plan.Consignments) == 0 {
		return nil
	}
	return plan
}

// ValidateAssignment checks the manual-assignment preconditions in order,
// each failing with a distinct error: consignment must be PENDING, both
// parties must be at the same branch, the truck must be loadable, and the
// truck's current load plus this volume must stay within capacity.
func ValidateAssignment(c *models.Consignment, t *models.Truck, linkedVolume float64) error {
	if c.Status != models.ConsignmentPending {
		return apperr.BusinessRule(fmt.Sprintf("consignment %s is %s, only PENDING consignments can be assigned", c.TrackingCode, c.Status))
	}
	if c.BranchID != t.BranchID {
		return apperr.BusinessRule(fmt.Sprintf("consignment belongs to branch %d but truck %s is based at branch %d", c.BranchID, t.Registration, t.BranchID))
	}
	if t.Status == models.TruckMaintenance {
		return apperr.BusinessRule(fmt.Sprintf("truck %s is under maintenance", t.Registration))
	}
	if linkedVolume+c.Volume > t.Capacity {
		return apperr.BusinessRule(fmt.Sprintf("truck %s capacity exceeded: %.2f + %.2f > %.2f", t.Registration, linkedVolume, c.Volume, t.Capacity))
	}
	return nil
}
