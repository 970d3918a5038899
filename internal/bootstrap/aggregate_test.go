package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gosppt/adapters/rng"
)

func TestAggregate_MatchesDenseProduct(t *testing.T) {
	ctx := context.Background()
	ev, err := Expand("v", []int64{5, 0, 3, 7, 1})
	require.NoError(t, err)
	enc := Encode(ev)

	w, err := NewSampler(rng.NewPCGAdapter(), 3).Multinomial(ctx, "v", ev.Len(), 25, 99, 0)
	require.NoError(t, err)

	got, err := Aggregate(ctx, enc, w, 3)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(enc.T(), w)
	assert.True(t, mat.Equal(got, &want))
}

func TestAggregate_MatchesDirectTally(t *testing.T) {
	ctx := context.Background()
	ev, err := Expand("v", []int64{2, 4, 0, 1})
	require.NoError(t, err)
	w, err := NewSampler(rng.NewPCGAdapter(), 1).Multinomial(ctx, "v", ev.Len(), 10, 5, 0)
	require.NoError(t, err)

	got, err := Aggregate(ctx, Encode(ev), w, 2)
	require.NoError(t, err)

	for j := 0; j < 10; j++ {
		tally := make([]float64, ev.NumUnits())
		for e := 0; e < ev.Len(); e++ {
			tally[ev.Unit(e)] += w.At(e, j)
		}
		assert.Equal(t, tally, mat.Col(nil, j, got), "draw %d", j)
	}
}

func TestAggregate_IdentityReproducesCounts(t *testing.T) {
	counts := []int64{10, 0, 5}
	ev, err := Expand("base", counts)
	require.NoError(t, err)

	got, err := Aggregate(context.Background(), Encode(ev), Identity(ev.Len(), 4), 2)
	require.NoError(t, err)

	for j := 0; j < 4; j++ {
		assert.Equal(t, []float64{10, 0, 5}, mat.Col(nil, j, got))
	}
}

func TestAggregate_ColumnTotalsEqualEvents(t *testing.T) {
	ctx := context.Background()
	ev, _ := Expand("v", []int64{12, 0, 4})
	w, err := NewSampler(rng.NewPCGAdapter(), 2).Multinomial(ctx, "v", ev.Len(), 30, 3, 0)
	require.NoError(t, err)

	got, err := Aggregate(ctx, Encode(ev), w, 2)
	require.NoError(t, err)
	for _, total := range ColumnTotals(got) {
		assert.Equal(t, 16.0, total)
	}
}
