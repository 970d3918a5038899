package bootstrap

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{1, 4},
		{0.5, 2.5},
		{0.025, 1.075},
		{0.975, 3.925},
		{1.0 / 3.0, 2},
	}
	for _, tt := range tests {
		got := Quantile(sorted, tt.p)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quantile(%v, %v) = %v, want %v", sorted, tt.p, got, tt.want)
		}
	}
}

func TestQuantile_SingleDraw(t *testing.T) {
	if got := Quantile([]float64{7.5}, 0.025); got != 7.5 {
		t.Errorf("Expected degenerate quantile 7.5, got %v", got)
	}
}

func TestIntervals_PerRow(t *testing.T) {
	dist := mat.NewDense(2, 5, []float64{
		5, 1, 4, 2, 3,
		0, 0, 0, 0, 0,
	})
	lower, upper := Intervals(dist, 0.5)

	// p = 0.25 and 0.75 over {1..5}
	if lower[0] != 2 || upper[0] != 4 {
		t.Errorf("Row 0: got [%v, %v], want [2, 4]", lower[0], upper[0])
	}
	if lower[1] != 0 || upper[1] != 0 {
		t.Errorf("Row 1: got [%v, %v], want [0, 0]", lower[1], upper[1])
	}
	// Intervals must not reorder the distribution itself
	if dist.At(0, 0) != 5 {
		t.Error("Intervals mutated its input")
	}
}

func TestProbabilities(t *testing.T) {
	lo, hi := Probabilities(0.95)
	if math.Abs(lo-0.025) > 1e-15 || math.Abs(hi-0.975) > 1e-15 {
		t.Errorf("Expected (0.025, 0.975), got (%v, %v)", lo, hi)
	}
}

func TestToPercentages(t *testing.T) {
	dist := mat.NewDense(3, 2, []float64{
		10, 0,
		0, 0,
		30, 0,
	})
	ToPercentages(dist)

	want := mat.NewDense(3, 2, []float64{
		25, 0,
		0, 0,
		75, 0,
	})
	if !mat.EqualApprox(dist, want, 1e-12) {
		t.Errorf("Unexpected percentages:\n%v", mat.Formatted(dist))
	}
	totals := ColumnTotals(dist)
	if math.Abs(totals[0]-100) > 1e-9 || totals[1] != 0 {
		t.Errorf("Unexpected totals %v", totals)
	}
}
