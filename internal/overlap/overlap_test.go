package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gosppt/domain/sppt"
)

func iv(lo, hi float64) sppt.Interval { return sppt.Interval{Lower: lo, Upper: hi} }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		base sppt.Interval
		test sppt.Interval
		want sppt.Indicator
	}{
		{"partial overlap", iv(10, 30), iv(20, 40), sppt.Overlapping},
		{"nested", iv(10, 40), iv(20, 30), sppt.Overlapping},
		{"touching bounds", iv(10, 20), iv(20, 30), sppt.Overlapping},
		{"test above", iv(10, 20), iv(30, 40), sppt.TestHigher},
		{"test below", iv(30, 40), iv(10, 20), sppt.BaseHigher},
		{"fixed base inside test", iv(25, 25), iv(20, 30), sppt.Overlapping},
		{"fixed base above test", iv(50, 50), iv(20, 30), sppt.BaseHigher},
		{"both zero", iv(0, 0), iv(0, 0), sppt.Overlapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.base, tt.test))
		})
	}
}

func TestOverlaps_Multivariate(t *testing.T) {
	assert.True(t, Overlaps(iv(0, 10), iv(5, 15), iv(8, 20)))
	assert.False(t, Overlaps(iv(0, 10), iv(5, 15), iv(11, 20)))
	assert.False(t, Overlaps())
}

func TestUnits(t *testing.T) {
	base := sppt.VariableIntervals{Name: "base", Lower: []float64{10, 10, 30}, Upper: []float64{30, 20, 40}}
	test := sppt.VariableIntervals{Name: "test", Lower: []float64{20, 30, 10}, Upper: []float64{40, 40, 20}}

	assert.Equal(t, []int{1, 0, 0}, Units([]sppt.VariableIntervals{base, test}))
	assert.Equal(t, []int{0, 1, -1}, Bivariate(base, test))

	third := sppt.VariableIntervals{Name: "third", Lower: []float64{0, 0, 0}, Upper: []float64{1, 1, 1}}
	assert.Equal(t, []int{0, 0, 0}, Units([]sppt.VariableIntervals{base, test, third}))
}

func TestCompute_RobustExcludesAllZeroUnits(t *testing.T) {
	nonZero := NonZeroUnits([]int64{10, 0, 0}, []int64{0, 5, 0})
	assert.Equal(t, []bool{true, true, false}, nonZero)

	idx := Compute([]int{1, 1, 0}, nonZero)
	assert.InDelta(t, 2.0/3.0, idx.SIndex, 1e-12)
	assert.Equal(t, 1.0, idx.RobustSIndex)
	assert.Equal(t, 3, idx.Total)
	assert.Equal(t, 2, idx.NonZero)
}

func TestCompute_NoZeroUnitsMeansEqualIndices(t *testing.T) {
	idx := Compute([]int{1, 0, 1, 1}, []bool{true, true, true, true})
	assert.Equal(t, idx.SIndex, idx.RobustSIndex)
	assert.Equal(t, 0.75, idx.SIndex)
}

func TestCompute_Extremes(t *testing.T) {
	all := Compute([]int{1, 1, 1}, []bool{true, true, true})
	assert.Equal(t, 1.0, all.SIndex)
	assert.Equal(t, 1.0, all.RobustSIndex)

	none := Compute([]int{0, 0, 0}, []bool{true, true, true})
	assert.Equal(t, 0.0, none.SIndex)
	assert.Equal(t, 0.0, none.RobustSIndex)
}
