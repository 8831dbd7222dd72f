package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeIsDeterministic(t *testing.T) {
	first := Charge(12.5, 340, false)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Charge(12.5, 340, false))
	}
}

func TestChargeVolumeDominant(t *testing.T) {
	// 10 m3 at 1200/m3 beats 100 kg at 15/kg
	got := Charge(10, 100, false)
	assert.Equal(t, 10*RatePerCubicMeter*InterBranchMultiplier, got)
}

func TestChargeWeightDominant(t *testing.T) {
	// 1 m3 but 2000 kg: weight charge wins
	got := Charge(1, 2000, false)
	assert.Equal(t, 2000*RatePerKg*InterBranchMultiplier, got)
}

func TestChargeLocalDeliveryIsCheaper(t *testing.T) {
	local := Charge(5, 50, true)
	inter := Charge(5, 50, false)
	assert.Less(t, local, inter)
}

func TestChargeFlooredAtBase(t *testing.T) {
	// Tiny consignments still pay the route base charge.
	assert.Equal(t, LocalBaseCharge, Charge(0.01, 0.5, true))
	assert.Equal(t, InterBranchBaseCharge, Charge(0.01, 0.5, false))
}

func TestChargeRoundedToTwoDecimals(t *testing.T) {
	got := Charge(0.333, 0, false)
	assert.InDelta(t, 639.36, got, 1e-9) // 0.333*1200*1.6 = 639.36
}
