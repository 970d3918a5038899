package bootstrap

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ToPercentages rescales every draw (column) of dist in place to percentages
// of that draw's total. A draw with a zero total stays all zero.
func ToPercentages(dist *mat.Dense) {
	units, b := dist.Dims()
	col := make([]float64, units)
	for j := 0; j < b; j++ {
		mat.Col(col, j, dist)
		total := floats.Sum(col)
		if total == 0 {
			continue
		}
		for i, v := range col {
			col[i] = v / total * 100
		}
		dist.SetCol(j, col)
	}
}

// ColumnTotals returns the per-draw totals of dist.
func ColumnTotals(dist *mat.Dense) []float64 {
	units, b := dist.Dims()
	col := make([]float64, units)
	totals := make([]float64, b)
	for j := range totals {
		mat.Col(col, j, dist)
		totals[j] = floats.Sum(col)
	}
	return totals
}
