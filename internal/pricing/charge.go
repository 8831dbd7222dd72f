// Package pricing computes consignment charges. The charge is a pure function
// of volume, weight and route, computed once at creation and never
// recomputed.
package pricing

import "math"

// Tariff constants, in rupees.
const (
	RatePerCubicMeter = 1200.0
	RatePerKg         = 15.0

	InterBranchMultiplier = 1.6
	InterBranchBaseCharge = 600.0

	LocalMultiplier = 0.8
	LocalBaseCharge = 300.0
)

// Charge returns the amount billed for a consignment. The caller validates
// volume and weight before calling; the calculator never sees invalid input.
//
// The larger of the volume-based and weight-based charge is scaled by a
// route multiplier and floored at a route-dependent base charge. Same-branch
// delivery gets the lower multiplier and base.
func Charge(volume, weight float64, sameBranch bool) float64 {
	multiplier := InterBranchMultiplier
	base := InterBranchBaseCharge
	if sameBranch {
		multiplier = LocalMultiplier
		base = LocalBaseCharge
	}

	amount := math.Max(volume*RatePerCubicMeter, weight*RatePerKg) * multiplier
	amount = math.Max(amount, base)

	return math.Round(amount*100) / 100
}
