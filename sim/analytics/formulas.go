// Package analytics provides the closed-form operations-research formulas
// used to seed optimizer candidates and to back advisory calculations:
// economic order quantity, reorder point, economic production quantity,
// M/M/s queueing wait, net present value, and the profit-optimal price for a
// linear demand curve.
//
// All functions are pure and total: degenerate parameters produce finite,
// zero-valued results rather than panics.
package analytics

import "math"

// EOQ returns the economic order quantity for the given annual demand, fixed
// ordering cost, and per-unit annual holding cost.
func EOQ(annualDemand, orderCost, holdingCost float64) float64 {
	if annualDemand <= 0 || orderCost <= 0 || holdingCost <= 0 {
		return 0
	}
	return math.Sqrt(2 * annualDemand * orderCost / holdingCost)
}

// SafetyStock returns the safety stock for a service-level z-score, demand
// standard deviation per day, and replenishment lead time in days.
func SafetyStock(z, demandStdDev, leadTimeDays float64) float64 {
	if demandStdDev <= 0 || leadTimeDays <= 0 {
		return 0
	}
	return z * demandStdDev * math.Sqrt(leadTimeDays)
}

// ReorderPoint returns lead-time demand plus safety stock.
func ReorderPoint(dailyDemand, leadTimeDays, safetyStock float64) float64 {
	if dailyDemand < 0 {
		dailyDemand = 0
	}
	return dailyDemand*leadTimeDays + safetyStock
}

// EPQ returns the economic production quantity for the given annual demand,
// setup cost, per-unit annual holding cost, and daily demand/production rates.
// The production rate must exceed the demand rate for a finite lot size.
func EPQ(annualDemand, setupCost, holdingCost, demandRate, productionRate float64) float64 {
	if annualDemand <= 0 || setupCost <= 0 || holdingCost <= 0 {
		return 0
	}
	if productionRate <= demandRate {
		return 0
	}
	return math.Sqrt(2 * annualDemand * setupCost / (holdingCost * (1 - demandRate/productionRate)))
}

// ErlangC returns the probability that an arriving job waits in an M/M/s
// queue with arrival rate lambda and per-server service rate mu.
// Returns 1 for an unstable system (utilization >= 1).
func ErlangC(lambda, mu float64, servers int) float64 {
	if lambda <= 0 || mu <= 0 || servers <= 0 {
		return 0
	}
	a := lambda / mu // offered load
	rho := a / float64(servers)
	if rho >= 1 {
		return 1
	}
	// sum_{k=0}^{s-1} a^k/k!  accumulated iteratively to avoid factorials
	sum := 0.0
	term := 1.0
	for k := 0; k < servers; k++ {
		if k > 0 {
			term *= a / float64(k)
		}
		sum += term
	}
	top := term * a / float64(servers) / (1 - rho)
	return top / (sum + top)
}

// MMsWait returns the expected wait in queue (in the same time unit as the
// rates) for an M/M/s system. Returns +Inf for an unstable system.
func MMsWait(lambda, mu float64, servers int) float64 {
	if lambda <= 0 || mu <= 0 || servers <= 0 {
		return 0
	}
	rho := lambda / (mu * float64(servers))
	if rho >= 1 {
		return math.Inf(1)
	}
	pw := ErlangC(lambda, mu, servers)
	return pw / (float64(servers)*mu - lambda)
}

// NPV returns the net present value of a cash-flow series at the given
// per-period discount rate. cashflows[0] occurs at time zero (undiscounted).
func NPV(rate float64, cashflows []float64) float64 {
	npv := 0.0
	for i, cf := range cashflows {
		npv += cf / math.Pow(1+rate, float64(i))
	}
	return npv
}

// OptimalPrice returns the revenue-maximizing price for a linear demand curve
// d(p) = base - slope*p with per-unit cost c: p* = (base + slope*c) / (2*slope).
func OptimalPrice(base, slope, unitCost float64) float64 {
	if slope <= 0 || base <= 0 {
		return 0
	}
	p := (base + slope*unitCost) / (2 * slope)
	if p < 0 {
		return 0
	}
	return p
}
