package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Aggregate computes encodingᵀ x weights: for every unit and draw, the
// resampled count. It walks each draw's non-zero weights once and adds them
// to the owning unit, O(events x B) time, and never forms a dense
// (events x units) array. The result equals mat.Mul(enc.T(), w).
func Aggregate(ctx context.Context, enc *Encoding, w *Weights, workers int) (*mat.Dense, error) {
	n, units := enc.Dims()
	wr, b := w.Dims()
	if n != wr {
		panic(fmt.Sprintf("bootstrap: encoding has %d events but weights have %d rows", n, wr))
	}
	if workers <= 0 {
		workers = 1
	}

	out := mat.NewDense(units, b, nil)
	raw := out.RawMatrix()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for j := 0; j < b; j++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// column j of out is touched only by this goroutine
			w.DoColNonZero(j, func(e, _ int, v float64) {
				raw.Data[enc.Unit(e)*raw.Stride+j] += v
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
