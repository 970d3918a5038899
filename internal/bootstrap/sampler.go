package bootstrap

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "gosppt/internal/errors"
	"gosppt/ports"
)

const (
	// MaxEvents is the largest event pool one variable may expand to.
	MaxEvents = math.MaxInt32

	// maxWeightCells bounds the dense (events x B) weight storage at 4 GiB of int32.
	maxWeightCells = 1 << 30
)

// CheckSize rejects a variable whose events cannot be expanded or, when it
// is resampled, whose (events x b) weight matrix exceeds the storage bound.
// It allocates nothing, so callers run it for every variable before the
// first draw.
func CheckSize(name string, events int64, b int, resampled bool) error {
	if events > MaxEvents {
		return apperrors.InputError(name, "total count %d exceeds the resampling limit", events)
	}
	if resampled && events*int64(b) > maxWeightCells {
		return apperrors.ComputationError(name, "%d events x %d draws exceeds the weight matrix bound", events, b)
	}
	return nil
}

// Weights is the (events x B) multinomial weight matrix, one column per
// draw. Each column sums to the number of events. Storage is column-major
// int32 so every draw owns a contiguous, independently writable block. An
// identity matrix (every weight 1) stores nothing.
type Weights struct {
	rows, cols int
	identity   bool
	data       []int32
}

var (
	_ mat.Matrix         = (*Weights)(nil)
	_ mat.ColNonZeroDoer = (*Weights)(nil)
)

// Identity returns the draw that reproduces the observed events in every
// column. It is used for a fixed base variable.
func Identity(n, b int) *Weights {
	return &Weights{rows: n, cols: b, identity: true}
}

// Dims implements mat.Matrix.
func (w *Weights) Dims() (r, c int) { return w.rows, w.cols }

// At implements mat.Matrix.
func (w *Weights) At(i, j int) float64 {
	if uint(i) >= uint(w.rows) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(w.cols) {
		panic(mat.ErrColAccess)
	}
	if w.identity {
		return 1
	}
	return float64(w.data[j*w.rows+i])
}

// T implements mat.Matrix.
func (w *Weights) T() mat.Matrix { return mat.Transpose{Matrix: w} }

// DoColNonZero implements mat.ColNonZeroDoer.
func (w *Weights) DoColNonZero(j int, fn func(i, j int, v float64)) {
	if uint(j) >= uint(w.cols) {
		panic(mat.ErrColAccess)
	}
	if w.identity {
		for i := 0; i < w.rows; i++ {
			fn(i, j, 1)
		}
		return
	}
	col := w.data[j*w.rows : (j+1)*w.rows]
	for i, c := range col {
		if c != 0 {
			fn(i, j, float64(c))
		}
	}
}

// IsIdentity reports whether w is the fixed identity draw.
func (w *Weights) IsIdentity() bool { return w.identity }

// Sampler draws multinomial bootstrap weights.
type Sampler struct {
	rng     ports.RNGPort
	workers int
}

// NewSampler creates a sampler. workers <= 0 uses GOMAXPROCS.
func NewSampler(rng ports.RNGPort, workers int) *Sampler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Sampler{rng: rng, workers: workers}
}

// Workers returns the parallelism the sampler was built with.
func (s *Sampler) Workers() int { return s.workers }

// drawColumn fills col with one multinomial sample of size len(col) over
// len(col) equally likely slots. Slot i takes Binomial(remaining, 1/(slots
// left)) of the trials not yet assigned and the last slot takes the rest.
func drawColumn(col []int32, src rand.Source) {
	remaining := len(col)
	for i := range col {
		if remaining == 0 {
			return
		}
		left := len(col) - i
		if left == 1 {
			col[i] = int32(remaining)
			return
		}
		k := int(distuv.Binomial{N: float64(remaining), P: 1 / float64(left), Src: src}.Rand())
		col[i] = int32(k)
		remaining -= k
	}
}

// Multinomial draws b independent multinomial samples of size n over n
// equally likely event slots, which is resampling the event pool with
// replacement. Draw j of the given variable always consumes the stream
// rng.DrawStream(seed, variable, j), so the result does not depend on how
// draws are scheduled across workers.
func (s *Sampler) Multinomial(ctx context.Context, name string, n, b int, seed int64, variable int) (*Weights, error) {
	if n == 0 {
		return nil, apperrors.ComputationError(name, "no events to resample: every count is zero")
	}
	if b < 1 {
		return nil, apperrors.ConfigError("B", "must be a positive integer, got %d", b)
	}
	if err := CheckSize(name, int64(n), b, true); err != nil {
		return nil, err
	}

	w := &Weights{rows: n, cols: b, data: make([]int32, n*b)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for j := 0; j < b; j++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			drawColumn(w.data[j*n:(j+1)*n], s.rng.DrawStream(seed, variable, j))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return w, nil
}
