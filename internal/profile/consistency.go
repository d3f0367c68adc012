package profile

import "math"

// bisectIterations fixes the search depth for DispersionFromConsistency.
// 100 halvings of [0,5] land far below float64 resolution.
const bisectIterations = 100

// ConsistencyFromDispersion maps a coefficient of variation to the 0-100
// consistency score used by typing-test scoreboards:
//
//	100 * (1 - tanh(c + c^3/3 + c^5/5))
//
// The function is strictly decreasing for c >= 0: zero dispersion scores
// 100, heavy dispersion approaches 0.
func ConsistencyFromDispersion(cov float64) float64 {
	c3 := cov * cov * cov
	c5 := c3 * cov * cov
	return 100 * (1 - math.Tanh(cov+c3/3+c5/5))
}

// DispersionFromConsistency inverts ConsistencyFromDispersion by bisection
// over c in [0, 5]. Targets outside the reachable range saturate at the
// interval bounds; callers should clamp to a sane percentage first.
func DispersionFromConsistency(target float64) float64 {
	lo, hi := 0.0, 5.0
	for i := 0; i < bisectIterations; i++ {
		mid := (lo + hi) / 2
		if ConsistencyFromDispersion(mid) > target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// ConsistencyOf computes the consistency score of a timing series: the
// population coefficient of variation pushed through the scoring curve.
// Degenerate series (fewer than two samples, zero mean) score 100.
func ConsistencyOf(values []float64) float64 {
	if len(values) < 2 {
		return 100
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 100
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	sd := math.Sqrt(sq / float64(len(values)))
	return ConsistencyFromDispersion(sd / mean)
}
