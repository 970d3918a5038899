package sppt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gosppt/internal/errors"
)

func newTable(values ...float64) *Table {
	groups := make([]string, len(values))
	for i := range groups {
		groups[i] = string(rune('a' + i))
	}
	return &Table{GroupCol: "unit", Groups: groups, Columns: []Column{{Name: "c", Values: values}}}
}

func TestTable_Counts(t *testing.T) {
	counts, err := newTable(3, 0, 12).Counts("c")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 0, 12}, counts)
}

func TestTable_CountsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"negative", -1},
		{"fractional", 2.5},
		{"nan", math.NaN()},
		{"infinite", math.Inf(1)},
		{"too large", math.MaxInt32 + 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTable(1, tt.value).Counts("c")
			require.Error(t, err)
			assert.True(t, apperrors.IsInputError(err))
			assert.Equal(t, "c", apperrors.GetField(err))
			assert.Contains(t, err.Error(), `unit "b"`)
		})
	}
}

func TestTable_CountsShape(t *testing.T) {
	table := newTable(1, 2)
	_, err := table.Counts("missing")
	assert.True(t, apperrors.IsInputError(err))

	table.Columns[0].Values = []float64{1}
	_, err = table.Counts("c")
	assert.True(t, apperrors.IsInputError(err))
}

func TestTable_Validate(t *testing.T) {
	assert.NoError(t, newTable(1, 2).Validate([]string{"c"}))

	empty := &Table{GroupCol: "unit"}
	assert.True(t, apperrors.IsInputError(empty.Validate([]string{"c"})))

	dup := newTable(1, 2)
	dup.Groups[1] = "a"
	err := dup.Validate([]string{"c"})
	assert.True(t, apperrors.IsInputError(err))
	assert.Equal(t, "unit", apperrors.GetField(err))

	blank := newTable(1, 2)
	blank.Groups[0] = " "
	blank.GroupCol = ""
	err = blank.Validate(nil)
	assert.Equal(t, "group_col", apperrors.GetField(err))
}

func TestTable_Clone(t *testing.T) {
	orig := newTable(1, 2)
	clone := orig.Clone()
	clone.Columns[0].Values[0] = 9
	clone.Groups[0] = "z"

	assert.Equal(t, 1.0, orig.Columns[0].Values[0])
	assert.Equal(t, "a", orig.Groups[0])
}
