package utils

import "math"

// ComputeScore derives the composite score from the six sub-scores:
// (alignment + market + product + boldExcitement) * (team + potentialReturn) / 80,
// rounded to 2 decimal places. With inputs bounded to [0,10] the result lies
// in [0.0, 10.0]. The score is always recomputed server-side and never trusted
// from the client.
func ComputeScore(alignment, team, market, product, potentialReturn, boldExcitement int) float64 {
	score := float64(alignment+market+product+boldExcitement) * float64(team+potentialReturn) / 80.0
	return Round2(score)
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
