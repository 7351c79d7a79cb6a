package sim

import (
	"math"
	"math/rand"
)

// standardDemand draws the day's standard-line demand from the linear
// price-demand curve with multiplicative Gaussian noise. Never negative.
func standardDemand(rng *rand.Rand, pol *Strategy) int {
	base := pol.DemandBase - pol.DemandSlope*pol.StandardPrice
	if base <= 0 {
		return 0
	}
	noisy := base * (1 + rng.NormFloat64()*pol.DemandNoiseStdDev)
	d := int(math.Round(noisy))
	if d < 0 {
		return 0
	}
	return d
}

// customDemand draws the day's custom-order demand from a phase-aware
// Gaussian: phase 1 before DemandPhaseSwitchDay, phase 2 (the 30% step-up)
// from that day on. Never negative.
func customDemand(rng *rand.Rand, pol *Strategy, day int) int {
	mean, stdev := pol.CustomDemandMean1, pol.CustomDemandStdDev1
	if day >= DemandPhaseSwitchDay {
		mean, stdev = pol.CustomDemandMean2, pol.CustomDemandStdDev2
	}
	d := int(math.Round(rng.NormFloat64()*stdev + mean))
	if d < 0 {
		return 0
	}
	return d
}
