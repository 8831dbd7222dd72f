package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tccs_backend/internal/apperr"
	"tccs_backend/internal/models"
)

func TestValidateStatusChangeRejectsAnyMoveWithCargo(t *testing.T) {
	loaded := availableTruck(1, 500)
	loaded.Status = models.TruckInTransit

	// A manual reset to AVAILABLE must not return a loaded truck to the
	// dispatch pool.
	err := ValidateStatusChange(&loaded, models.TruckAvailable, 2)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrBusinessRule))
	assert.Contains(t, err.Error(), "in transit")

	// With no cargo left the same reset is fine.
	assert.NoError(t, ValidateStatusChange(&loaded, models.TruckAvailable, 0))
}

func TestValidateStatusChangeIllegalTransition(t *testing.T) {
	mx := availableTruck(1, 500)
	mx.Status = models.TruckMaintenance

	err := ValidateStatusChange(&mx, models.TruckInTransit, 0)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrBusinessRule))
}

func TestValidateDelivery(t *testing.T) {
	dest := uint(2)
	consignment := pendingConsignment(1, 100, 0)
	consignment.Status = models.ConsignmentInTransit
	consignment.DestinationBranchID = dest

	manager := models.User{Role: models.RoleManager, BranchID: &dest}
	assert.NoError(t, ValidateDelivery(&consignment, &manager))

	employee := models.User{Role: models.RoleEmployee, BranchID: &dest}
	err := ValidateDelivery(&consignment, &employee)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	elsewhere := uint(9)
	wrongBranch := models.User{Role: models.RoleManager, BranchID: &elsewhere}
	err = ValidateDelivery(&consignment, &wrongBranch)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	stillPending := pendingConsignment(2, 100, 0)
	stillPending.DestinationBranchID = dest
	err = ValidateDelivery(&stillPending, &manager)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrBusinessRule))
}

func TestPlanReleaseWaitsForLastDelivery(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Two consignments still riding: the truck stays in transit.
	assert.Nil(t, PlanRelease(2, 3, now))
	assert.Nil(t, PlanRelease(1, 3, now))

	// Last one delivered: released at the destination with a fresh stamp.
	release := PlanRelease(0, 3, now)
	require.NotNil(t, release)
	assert.Equal(t, uint(3), release.BranchID)
	assert.Equal(t, now, release.IdleSince)
}
