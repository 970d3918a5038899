package overlap

// Indices holds the unit tallies and the two summary indices.
type Indices struct {
	Total              int
	Overlapping        int
	NonZero            int
	NonZeroOverlapping int
	SIndex             float64
	RobustSIndex       float64
}

// NonZeroUnits marks the units where at least one compared variable has a
// positive count.
func NonZeroUnits(counts ...[]int64) []bool {
	if len(counts) == 0 {
		return nil
	}
	out := make([]bool, len(counts[0]))
	for _, col := range counts {
		for i, c := range col {
			if c > 0 {
				out[i] = true
			}
		}
	}
	return out
}

// Compute reduces the per-unit overlap column to the S-Index (overlapping
// share of all units) and the Robust S-Index (overlapping share of units that
// are not all-zero). When no unit has a count the robust index is 0.
func Compute(overlap []int, nonZero []bool) Indices {
	idx := Indices{Total: len(overlap)}
	for i, o := range overlap {
		if o == 1 {
			idx.Overlapping++
		}
		if nonZero[i] {
			idx.NonZero++
			if o == 1 {
				idx.NonZeroOverlapping++
			}
		}
	}
	if idx.Total > 0 {
		idx.SIndex = float64(idx.Overlapping) / float64(idx.Total)
	}
	if idx.NonZero > 0 {
		idx.RobustSIndex = float64(idx.NonZeroOverlapping) / float64(idx.NonZero)
	}
	return idx
}
