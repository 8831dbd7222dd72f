package allocation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tccs_backend/internal/apperr"
	"tccs_backend/internal/models"
)

var planBase = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func pendingConsignment(id uint, volume float64, offset time.Duration) models.Consignment {
	return models.Consignment{
		Model:               gorm.Model{ID: id, CreatedAt: planBase.Add(offset)},
		Volume:              volume,
		Status:              models.ConsignmentPending,
		BranchID:            1,
		DestinationBranchID: 2,
	}
}

func availableTruck(id uint, capacity float64) models.Truck {
	return models.Truck{
		Model:    gorm.Model{ID: id},
		Capacity: capacity,
		Status:   models.TruckAvailable,
		BranchID: 1,
	}
}

func TestPlanDispatchFiresAtThreshold(t *testing.T) {
	// Five consignments of 100 each against one 500-capacity truck.
	var pending []models.Consignment
	for i := uint(1); i <= 5; i++ {
		pending = append(pending, pendingConsignment(i, 100, time.Duration(i)*time.Minute))
	}
	trucks := []models.Truck{availableTruck(1, 500)}

	plan := PlanDispatch(pending, trucks, nil)
	require.NotNil(t, plan)
	assert.Equal(t, uint(1), plan.Truck.ID)
	assert.Len(t, plan.Consignments, 5)
	assert.InDelta(t, 500.0, plan.TotalVolume, 1e-9)
}

func TestPlanDispatchBelowThreshold(t *testing.T) {
	var pending []models.Consignment
	for i := uint(1); i <= 4; i++ {
		pending = append(pending, pendingConsignment(i, 100, time.Duration(i)*time.Minute))
	}
	trucks := []models.Truck{availableTruck(1, 500)}

	assert.Nil(t, PlanDispatch(pending, trucks, nil))
}

func TestPlanDispatchNoTruckAvailable(t *testing.T) {
	pending := []models.Consignment{pendingConsignment(1, 600, 0)}
	assert.Nil(t, PlanDispatch(pending, nil, nil))

	inTransit := availableTruck(1, 500)
	inTransit.Status = models.TruckInTransit
	maintenance := availableTruck(2, 500)
	maintenance.Status = models.TruckMaintenance
	assert.Nil(t, PlanDispatch(pending, []models.Truck{inTransit, maintenance}, nil))
}

func TestPlanDispatchPicksLargestFillableTruck(t *testing.T) {
	pending := []models.Consignment{
		pendingConsignment(1, 250, 0),
		pendingConsignment(2, 200, time.Minute),
	}
	trucks := []models.Truck{
		availableTruck(1, 300),
		availableTruck(2, 400),
		availableTruck(3, 500), // pending volume cannot fill this one
	}

	plan := PlanDispatch(pending, trucks, nil)
	require.NotNil(t, plan)
	assert.Equal(t, uint(2), plan.Truck.ID)
	// Only the oldest fits once the 250 is loaded.
	require.Len(t, plan.Consignments, 1)
	assert.Equal(t, uint(1), plan.Consignments[0].ID)
}

func TestPlanDispatchTieBreaksOnLowestID(t *testing.T) {
	pending := []models.Consignment{pendingConsignment(1, 500, 0)}
	trucks := []models.Truck{
		availableTruck(7, 500),
		availableTruck(3, 500),
		availableTruck(9, 500),
	}

	plan := PlanDispatch(pending, trucks, nil)
	require.NotNil(t, plan)
	assert.Equal(t, uint(3), plan.Truck.ID)
}

func TestPlanDispatchNeverOverfillsTruck(t *testing.T) {
	// 600 pending against a 500 truck: the oldest load that fits goes, the
	// rest stays pending.
	pending := []models.Consignment{
		pendingConsignment(1, 300, 0),
		pendingConsignment(2, 200, time.Minute),
		pendingConsignment(3, 100, 2*time.Minute),
	}
	trucks := []models.Truck{availableTruck(1, 500)}

	plan := PlanDispatch(pending, trucks, nil)
	require.NotNil(t, plan)
	assert.Len(t, plan.Consignments, 2)
	assert.Equal(t, uint(1), plan.Consignments[0].ID)
	assert.Equal(t, uint(2), plan.Consignments[1].ID)
	assert.LessOrEqual(t, plan.TotalVolume, plan.Truck.Capacity)
}

func TestPlanDispatchLoadsOldestFirst(t *testing.T) {
	pending := []models.Consignment{
		pendingConsignment(5, 200, 3*time.Minute),
		pendingConsignment(2, 200, time.Minute),
		pendingConsignment(9, 200, 2*time.Minute),
	}
	trucks := []models.Truck{availableTruck(1, 400)}

	plan := PlanDispatch(pending, trucks, nil)
	require.NotNil(t, plan)
	require.Len(t, plan.Consignments, 2)
	assert.Equal(t, uint(2), plan.Consignments[0].ID)
	assert.Equal(t, uint(9), plan.Consignments[1].ID)
}

func TestPlanDispatchPlansFromHeadroomNotNominalCapacity(t *testing.T) {
	// A 500 truck already linked to 400 units has 100 of headroom left; a
	// plan must never stack a fresh load on top of the linked cargo.
	var pending []models.Consignment
	for i := uint(1); i <= 3; i++ {
		pending = append(pending, pendingConsignment(i, 100, time.Duration(i)*time.Minute))
	}
	trucks := []models.Truck{availableTruck(1, 500)}
	linked := map[uint]float64{1: 400}

	plan := PlanDispatch(pending, trucks, linked)
	require.NotNil(t, plan)
	require.Len(t, plan.Consignments, 1)
	assert.InDelta(t, 100.0, plan.TotalVolume, 1e-9)
	assert.LessOrEqual(t, linked[1]+plan.TotalVolume, trucks[0].Capacity)
}

func TestPlanDispatchSkipsFullyLoadedTruck(t *testing.T) {
	pending := []models.Consignment{pendingConsignment(1, 500, 0)}
	trucks := []models.Truck{availableTruck(1, 500)}

	assert.Nil(t, PlanDispatch(pending, trucks, map[uint]float64{1: 500}))
}

func TestPlanDispatchCapacityPropertyRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		var pending []models.Consignment
		n := 1 + rng.Intn(20)
		for i := 0; i < n; i++ {
			pending = append(pending, pendingConsignment(
				uint(i+1), 10+rng.Float64()*200, time.Duration(rng.Intn(600))*time.Second))
		}
		var trucks []models.Truck
		for i := 0; i < 1+rng.Intn(4); i++ {
			trucks = append(trucks, availableTruck(uint(i+1), 100+rng.Float64()*500))
		}

		plan := PlanDispatch(pending, trucks, nil)
		if plan == nil {
			continue
		}
		assert.LessOrEqual(t, plan.TotalVolume, plan.Truck.Capacity)
	}
}

func TestValidateAssignmentPreconditionOrder(t *testing.T) {
	truck := availableTruck(1, 500)

	dispatched := pendingConsignment(1, 100, 0)
	dispatched.Status = models.ConsignmentInTransit
	err := ValidateAssignment(&dispatched, &truck, 0)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrBusinessRule))
	assert.Contains(t, err.Error(), "PENDING")

	wrongBranch := pendingConsignment(2, 100, 0)
	wrongBranch.BranchID = 9
	err = ValidateAssignment(&wrongBranch, &truck, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "branch")

	mx := availableTruck(2, 500)
	mx.Status = models.TruckMaintenance
	ok := pendingConsignment(3, 100, 0)
	err = ValidateAssignment(&ok, &mx, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestValidateAssignmentCapacityCeiling(t *testing.T) {
	truck := availableTruck(1, 500)

	first := pendingConsignment(1, 300, 0)
	require.NoError(t, ValidateAssignment(&first, &truck, 0))

	// With 300 already linked, a 250 consignment must be rejected.
	second := pendingConsignment(2, 250, time.Minute)
	err := ValidateAssignment(&second, &truck, 300)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrBusinessRule))
	assert.Contains(t, err.Error(), "capacity")

	// A 200 consignment still fits exactly.
	third := pendingConsignment(3, 200, 2*time.Minute)
	assert.NoError(t, ValidateAssignment(&third, &truck, 300))
}

func TestValidateAssignmentRandomizedNeverExceedsCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		truck := availableTruck(1, 200+rng.Float64()*400)
		var linked float64
		for i := 0; i < 30; i++ {
			c := pendingConsignment(uint(i+1), 5+rng.Float64()*150, 0)
			if err := ValidateAssignment(&c, &truck, linked); err == nil {
				linked += c.Volume
			}
			require.LessOrEqual(t, linked, truck.Capacity)
		}
	}
}
