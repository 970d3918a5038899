package bootstrap

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Quantile returns the linearly interpolated sample quantile (Hyndman and
// Fan type 7, the R and NumPy default) of an ascending slice. p must lie in
// [0,1] and sorted must not be empty.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return lerp(sorted[lo], sorted[lo+1], h-float64(lo))
}

// lerp interpolates from whichever end is nearer so that t = 0 and t = 1
// return the endpoints exactly.
func lerp(a, b, t float64) float64 {
	d := b - a
	if t >= 0.5 {
		return b - d*(1-t)
	}
	return a + d*t
}

// Probabilities returns the two tail probabilities of a two-sided interval.
func Probabilities(confLevel float64) (lower, upper float64) {
	alpha := 1 - confLevel
	return alpha / 2, 1 - alpha/2
}

// Intervals extracts the two-sided percentile interval of every unit (row)
// of a (units x B) distribution.
func Intervals(dist *mat.Dense, confLevel float64) (lower, upper []float64) {
	units, b := dist.Dims()
	pl, pu := Probabilities(confLevel)

	lower = make([]float64, units)
	upper = make([]float64, units)
	row := make([]float64, b)
	for i := 0; i < units; i++ {
		mat.Row(row, i, dist)
		sort.Float64s(row)
		lower[i] = Quantile(row, pl)
		upper[i] = Quantile(row, pu)
	}
	return lower, upper
}
