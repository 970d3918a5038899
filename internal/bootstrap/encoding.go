package bootstrap

import (
	"gonum.org/v1/gonum/mat"
)

// Encoding is the sparse (events x units) group-membership matrix. Every row
// holds a single 1 in the column of its owning unit, so the compressed-row
// form needs only the column index per row; row pointers are implicit.
// Column order is the unit order of the input table.
type Encoding struct {
	col  []int32
	cols int
}

var (
	_ mat.Matrix         = (*Encoding)(nil)
	_ mat.RowNonZeroDoer = (*Encoding)(nil)
)

// Encode builds the membership matrix of the given events. It shares the
// event slice and allocates O(1) extra memory.
func Encode(ev *Events) *Encoding {
	return &Encoding{col: ev.unit, cols: ev.numUnits}
}

// Dims implements mat.Matrix.
func (m *Encoding) Dims() (r, c int) { return len(m.col), m.cols }

// At implements mat.Matrix.
func (m *Encoding) At(i, j int) float64 {
	if uint(i) >= uint(len(m.col)) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(m.cols) {
		panic(mat.ErrColAccess)
	}
	if int(m.col[i]) == j {
		return 1
	}
	return 0
}

// T implements mat.Matrix.
func (m *Encoding) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// DoRowNonZero implements mat.RowNonZeroDoer.
func (m *Encoding) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	if uint(i) >= uint(len(m.col)) {
		panic(mat.ErrRowAccess)
	}
	fn(i, int(m.col[i]), 1)
}

// NNZ returns the number of stored non-zeros, one per event.
func (m *Encoding) NNZ() int { return len(m.col) }

// Unit returns the column holding row i's non-zero.
func (m *Encoding) Unit(i int) int { return int(m.col[i]) }
