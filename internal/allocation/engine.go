// Package allocation implements the truck allocation engine: threshold
// auto-dispatch, manual assignment, delivery release and truck status
// management. Every multi-row mutation runs inside one transaction under a
// per-route lock, so a dispatch either lands completely or not at all.
package allocation

import (
	"errors"
	"fmt"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tccs_backend/internal/apperr"
	"tccs_backend/internal/models"
)

type Engine struct {
	db     *gorm.DB
	routes *routeLocks
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, routes: newRouteLocks()}
}

// DispatchResult reports what an allocation operation moved.
type DispatchResult struct {
	Truck        models.Truck
	Consignments []models.Consignment
}

// AutoDispatch runs the threshold check for one (source, destination) lane
// and dispatches a truck if the accumulated pending volume can fill one.
// Returns nil with no error when the threshold is not met or no truck is
// available; nothing is mutated in that case.
func (e *Engine) AutoDispatch(sourceID, destID uint) (*DispatchResult, error) {
	unlock := e.routes.lock(routeKey{Source: sourceID, Dest: destID})
	defer unlock()

	var result *DispatchResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var pending []models.Consignment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("branch_id = ? AND destination_branch_id = ? AND status = ?",
				sourceID, destID, models.ConsignmentPending).
			Order("created_at, id").
			Find(&pending).Error; err != nil {
			return err
		}

		var trucks []models.Truck
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("branch_id = ? AND status = ?", sourceID, models.TruckAvailable).
			Find(&trucks).Error; err != nil {
			return err
		}

		// Seed the planner with each truck's current load: headroom, not
		// nominal capacity, is what a dispatch may fill.
		loads := make(map[uint]float64, len(trucks))
		for _, t := range trucks {
			load, err := truckLoad(tx, t.ID)
			if err != nil {
				return err
			}
			if load > 0 {
				loads[t.ID] = load
			}
		}

		plan := PlanDispatch(pending, trucks, loads)
		if plan == nil {
			return nil
		}

		dispatched, err := applyDispatch(tx, &plan.Truck, plan.Consignments, destID)
		if err != nil {
			return err
		}
		result = &DispatchResult{Truck: plan.Truck, Consignments: dispatched}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result != nil {
		logrus.WithFields(logrus.Fields{
			"truck":        result.Truck.Registration,
			"consignments": len(result.Consignments),
			"source":       sourceID,
			"destination":  destID,
		}).Info("auto-dispatch triggered")
	}
	return result, nil
}

// Assign links one PENDING consignment to one truck, manager-driven. The
// capacity invariant is enforced strictly: current linked volume plus this
// consignment must stay within the truck's capacity.
func (e *Engine) Assign(consignmentID, truckID uint) (*DispatchResult, error) {
	// Cheap pre-read to find the lane; authoritative state is re-read under
	// the lock inside the transaction.
	var probe models.Consignment
	if err := e.db.First(&probe, consignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("consignment %d not found", consignmentID))
		}
		return nil, err
	}

	unlock := e.routes.lock(routeKey{Source: probe.BranchID, Dest: probe.DestinationBranchID})
	defer unlock()

	var result *DispatchResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var c models.Consignment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, consignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("consignment %d not found", consignmentID))
			}
			return err
		}

		var t models.Truck
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, truckID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("truck %d not found", truckID))
			}
			return err
		}

		linked, err := truckLoad(tx, t.ID)
		if err != nil {
			return err
		}
		if err := ValidateAssignment(&c, &t, linked); err != nil {
			return err
		}

		dispatched, err := applyDispatch(tx, &t, []models.Consignment{c}, c.DestinationBranchID)
		if err != nil {
			return err
		}
		result = &DispatchResult{Truck: t, Consignments: dispatched}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"truck":       result.Truck.Registration,
		"consignment": result.Consignments[0].TrackingCode,
	}).Info("manual assignment")
	return result, nil
}

// applyDispatch performs the mutations shared by both allocation modes:
// consignments flip to IN_TRANSIT with a dispatch stamp and a link row, the
// truck flips to IN_TRANSIT toward the destination.
func applyDispatch(tx *gorm.DB, t *models.Truck, consignments []models.Consignment, destID uint) ([]models.Consignment, error) {
	now := time.Now().UTC()

	for i := range consignments {
		c := &consignments[i]
		c.Status = models.ConsignmentInTransit
		c.DispatchedAt = &now
		c.TruckID = &t.ID
		if err := tx.Model(&models.Consignment{}).Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"status":        models.ConsignmentInTransit,
				"dispatched_at": now,
				"truck_id":      t.ID,
			}).Error; err != nil {
			return nil, err
		}
		link := models.ConsignmentTruck{ConsignmentID: c.ID, TruckID: t.ID}
		if err := tx.Create(&link).Error; err != nil {
			return nil, err
		}
	}

	if t.Status == models.TruckAvailable {
		t.Status = models.TruckInTransit
		t.DestinationBranchID = &destID
		t.IdleSince = nil
		if err := tx.Model(&models.Truck{}).Where("id = ?", t.ID).
			Updates(map[string]interface{}{
				"status":                models.TruckInTransit,
				"destination_branch_id": destID,
				"idle_since":            nil,
			}).Error; err != nil {
			return nil, err
		}
	}
	return consignments, nil
}

// TruckLoad returns the summed volume of consignments currently in transit on
// the truck.
func (e *Engine) TruckLoad(truckID uint) (float64, error) {
	return truckLoad(e.db, truckID)
}

func truckLoad(tx *gorm.DB, truckID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.Consignment{}).
		Where("truck_id = ? AND status = ?", truckID, models.ConsignmentInTransit).
		Select("COALESCE(SUM(volume), 0)").
		Scan(&total).Error
	return total, err
}

// Deliver marks an in-transit consignment DELIVERED. Only a manager whose
// branch is the consignment's destination may confirm delivery. If no other
// cargo remains in transit on the truck, the truck is released: it becomes
// AVAILABLE at the destination with a fresh idle stamp. Both updates commit
// as one unit.
func (e *Engine) Deliver(consignmentID uint, actor *models.User) (*models.Consignment, error) {
	var delivered models.Consignment
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var c models.Consignment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, consignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("consignment %d not found", consignmentID))
			}
			return err
		}

		if err := ValidateDelivery(&c, actor); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Consignment{}).Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"status":       models.ConsignmentDelivered,
				"delivered_at": now,
			}).Error; err != nil {
			return err
		}
		c.Status = models.ConsignmentDelivered
		c.DeliveredAt = &now

		if c.TruckID != nil {
			var remaining int64
			if err := tx.Model(&models.Consignment{}).
				Where("truck_id = ? AND status = ? AND id <> ?",
					*c.TruckID, models.ConsignmentInTransit, c.ID).
				Count(&remaining).Error; err != nil {
				return err
			}
			if release := PlanRelease(remaining, c.DestinationBranchID, now); release != nil {
				if err := tx.Model(&models.Truck{}).Where("id = ?", *c.TruckID).
					Updates(map[string]interface{}{
						"status":                models.TruckAvailable,
						"branch_id":             release.BranchID,
						"destination_branch_id": nil,
						"idle_since":            release.IdleSince,
					}).Error; err != nil {
					return err
				}
				logrus.WithField("truck_id", *c.TruckID).Info("truck released after final delivery")
			}
		}

		delivered = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &delivered, nil
}

// Cancel moves a PENDING or IN_TRANSIT consignment to CANCELLED.
func (e *Engine) Cancel(consignmentID uint) (*models.Consignment, error) {
	var cancelled models.Consignment
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var c models.Consignment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, consignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("consignment %d not found", consignmentID))
			}
			return err
		}
		if !models.CanTransitionConsignment(c.Status, models.ConsignmentCancelled) {
			return apperr.BusinessRule(fmt.Sprintf("consignment %s is %s and cannot be cancelled", c.TrackingCode, c.Status))
		}
		if err := tx.Model(&models.Consignment{}).Where("id = ?", c.ID).
			Update("status", models.ConsignmentCancelled).Error; err != nil {
			return err
		}
		c.Status = models.ConsignmentCancelled
		cancelled = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// SetTruckStatus applies a manual truck status change (maintenance entry or
// reset to available). Any change is rejected while the truck still carries
// cargo in transit: a loaded truck returns to the dispatch pool only through
// delivery of its last consignment.
func (e *Engine) SetTruckStatus(truckID uint, newStatus string) (*models.Truck, error) {
	var updated models.Truck
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var t models.Truck
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, truckID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("truck %d not found", truckID))
			}
			return err
		}
		var cargo int64
		if err := tx.Model(&models.Consignment{}).
			Where("truck_id = ? AND status = ?", t.ID, models.ConsignmentInTransit).
			Count(&cargo).Error; err != nil {
			return err
		}
		if err := ValidateStatusChange(&t, newStatus, cargo); err != nil {
			return err
		}

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == models.TruckAvailable {
			now := time.Now().UTC()
			updates["idle_since"] = now
			updates["destination_branch_id"] = nil
			t.IdleSince = &now
			t.DestinationBranchID = nil
		} else {
			updates["idle_since"] = nil
			t.IdleSince = nil
		}
		if err := tx.Model(&models.Truck{}).Where("id = ?", t.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		t.Status = newStatus
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
