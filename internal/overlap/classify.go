// Package overlap compares per-unit confidence intervals across variables
// and reduces the comparison to the S-Index and Robust S-Index.
package overlap

import (
	"fmt"

	"gosppt/domain/sppt"
)

// Overlaps reports whether all closed intervals share at least one point,
// i.e. max(lower) <= min(upper). Touching bounds count as overlap.
func Overlaps(intervals ...sppt.Interval) bool {
	if len(intervals) == 0 {
		return false
	}
	maxLower, minUpper := intervals[0].Lower, intervals[0].Upper
	for _, iv := range intervals[1:] {
		if iv.Lower > maxLower {
			maxLower = iv.Lower
		}
		if iv.Upper < minUpper {
			minUpper = iv.Upper
		}
	}
	return maxLower <= minUpper
}

// Classify compares a base and a test interval. Overlap always wins;
// otherwise the indicator points in the direction the test moved.
func Classify(base, test sppt.Interval) sppt.Indicator {
	switch {
	case Overlaps(base, test):
		return sppt.Overlapping
	case test.Upper < base.Lower:
		return sppt.BaseHigher
	default:
		return sppt.TestHigher
	}
}

// Units evaluates every unit of the given variables and returns the 0/1
// overlap column.
func Units(vars []sppt.VariableIntervals) []int {
	if len(vars) < 2 {
		panic(fmt.Sprintf("overlap: need at least two variables, got %d", len(vars)))
	}
	n := len(vars[0].Lower)
	overlap := make([]int, n)
	ivs := make([]sppt.Interval, len(vars))
	for i := 0; i < n; i++ {
		for k, v := range vars {
			ivs[k] = v.At(i)
		}
		if Overlaps(ivs...) {
			overlap[i] = 1
		}
	}
	return overlap
}

// Bivariate returns the -1/0/1 direction column of a base and a test variable.
func Bivariate(base, test sppt.VariableIntervals) []int {
	out := make([]int, len(base.Lower))
	for i := range out {
		out[i] = int(Classify(base.At(i), test.At(i)))
	}
	return out
}
