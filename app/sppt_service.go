package app

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"gosppt/domain/core"
	"gosppt/domain/sppt"
	"gosppt/internal/bootstrap"
	apperrors "gosppt/internal/errors"
	"gosppt/internal/overlap"
	"gosppt/ports"
)

// progressEvents and progressDraws gate the per-variable progress log.
const (
	progressEvents = 1000
	progressDraws  = 100
)

// SPPTService runs the bootstrap engine end to end: validation, per-variable
// resampling, interval extraction and, optionally, overlap classification.
type SPPTService struct {
	rng    ports.RNGPort
	logger *zap.Logger
	now    func() time.Time
}

// NewSPPTService creates the engine service.
func NewSPPTService(rng ports.RNGPort, logger *zap.Logger) *SPPTService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SPPTService{
		rng:    rng,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes one engine run. All validation happens before the first draw;
// on error no result is returned.
func (s *SPPTService) Run(ctx context.Context, table *sppt.Table, opts sppt.Options) (res *sppt.Result, err error) {
	start := s.now()
	defer func() { instrumentRun(opts.UsePercentages, start, err) }()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperrors.InputError("table", "no input table")
	}
	if opts.GroupCol != "" && table.GroupCol != "" && opts.GroupCol != table.GroupCol {
		return nil, apperrors.InputError("group_col", "table is grouped by %q, options name %q", table.GroupCol, opts.GroupCol)
	}
	if err := table.Validate(opts.CountCols); err != nil {
		return nil, err
	}

	counts := make([][]int64, len(opts.CountCols))
	for i, col := range opts.CountCols {
		if counts[i], err = table.Counts(col); err != nil {
			return nil, err
		}
		fixed := opts.FixBase && i == 0
		n := total(counts[i])
		if err := bootstrap.CheckSize(col, n, opts.B, !fixed); err != nil {
			return nil, err
		}
		if fixed {
			continue
		}
		if n == 0 {
			return nil, apperrors.ComputationError(col, "no events to resample: every count is zero")
		}
	}

	seed := resolveSeed(opts.Seed)
	prefixes := opts.Prefixes()
	sampler := bootstrap.NewSampler(s.rng, opts.Workers)

	logger := s.logger.With(
		zap.Strings("count_cols", opts.CountCols),
		zap.Int("b", opts.B),
		zap.Int64("seed", seed),
		zap.Int("units", table.Len()),
	)
	logger.Debug("sppt run started")

	vars := make([]sppt.VariableIntervals, len(opts.CountCols))
	for i, col := range opts.CountCols {
		fixed := opts.FixBase && i == 0
		vars[i], err = s.variable(ctx, logger, sampler, counts[i], col, prefixes[i], i, seed, fixed, opts)
		if err != nil {
			logger.Warn("sppt run failed", zap.String("variable", col), zap.Error(err))
			return nil, err
		}
	}

	res = &sppt.Result{
		RunID:     core.NewRunID(),
		CreatedAt: s.now().UTC(),
		Table:     table.Clone(),
		Intervals: vars,
		Metadata: sppt.Metadata{
			B:              opts.B,
			Seed:           opts.Seed,
			EffectiveSeed:  seed,
			ConfLevel:      opts.ConfLevel,
			UsePercentages: opts.UsePercentages,
			FixBase:        opts.FixBase,
			CheckOverlap:   opts.CheckOverlap,
			CountCols:      append([]string(nil), opts.CountCols...),
			NewCols:        prefixes,
			TotalUnits:     table.Len(),
		},
	}
	for _, v := range vars {
		res.Metadata.Variables = append(res.Metadata.Variables, summarize(v))
	}

	if opts.CheckOverlap {
		res.Overlap = overlap.Units(vars)
		if opts.Bivariate() {
			res.SIndexBivariate = overlap.Bivariate(vars[0], vars[1])
		}
		idx := overlap.Compute(res.Overlap, overlap.NonZeroUnits(counts...))
		res.SIndex = &idx.SIndex
		res.RobustSIndex = &idx.RobustSIndex
		res.Metadata.OverlappingUnits = idx.Overlapping
		res.Metadata.NonZeroUnits = idx.NonZero
	}

	fields := []zap.Field{
		zap.String("run_id", res.RunID.String()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if res.HasIndices() {
		fields = append(fields, zap.Float64("s_index", *res.SIndex), zap.Float64("robust_s_index", *res.RobustSIndex))
	}
	logger.Info("sppt run completed", fields...)
	return res, nil
}

// variable computes the interval bounds of one count column.
func (s *SPPTService) variable(ctx context.Context, logger *zap.Logger, sampler *bootstrap.Sampler,
	counts []int64, col, prefix string, index int, seed int64, fixed bool, opts sppt.Options) (sppt.VariableIntervals, error) {

	ev, err := bootstrap.Expand(col, counts)
	if err != nil {
		return sppt.VariableIntervals{}, err
	}
	n := ev.Len()
	instrumentEvents(n)

	var w *bootstrap.Weights
	if fixed {
		w = bootstrap.Identity(n, opts.B)
	} else {
		if opts.B > progressDraws && n > progressEvents {
			logger.Info("Running bootstrap samples",
				zap.Int("b", opts.B), zap.Int("events", n), zap.String("variable", col))
		}
		w, err = sampler.Multinomial(ctx, col, n, opts.B, seed, index)
		if err != nil {
			return sppt.VariableIntervals{}, err
		}
	}

	dist, err := bootstrap.Aggregate(ctx, bootstrap.Encode(ev), w, sampler.Workers())
	if err != nil {
		return sppt.VariableIntervals{}, err
	}
	if opts.UsePercentages {
		bootstrap.ToPercentages(dist)
	}
	lower, upper := bootstrap.Intervals(dist, opts.ConfLevel)

	return sppt.VariableIntervals{
		Name:   prefix,
		Source: col,
		Events: int64(n),
		Fixed:  fixed,
		Lower:  lower,
		Upper:  upper,
	}, nil
}

func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return rand.Int64()
}

func total(counts []int64) int64 {
	var sum int64
	for _, c := range counts {
		sum += c
	}
	return sum
}

func summarize(v sppt.VariableIntervals) sppt.VariableSummary {
	widths := make(stats.Float64Data, len(v.Lower))
	for i := range v.Lower {
		widths[i] = v.At(i).Width()
	}
	sum := sppt.VariableSummary{Name: v.Name, Events: v.Events}
	if len(widths) == 0 {
		return sum
	}
	sum.MeanWidth, _ = widths.Mean()
	sum.MaxWidth, _ = widths.Max()
	return sum
}

// Replay re-runs a stored result with its recorded seed and options and checks
// that the output is identical. It returns the fresh result, or an error
// wrapping core.ErrNonDeterministic when the fingerprints differ.
func (s *SPPTService) Replay(ctx context.Context, prev *sppt.Result) (*sppt.Result, error) {
	if prev == nil || prev.Table == nil {
		return nil, apperrors.InputError("run", "result has no input table to replay")
	}
	m := prev.Metadata
	seed := m.EffectiveSeed
	opts := sppt.Options{
		GroupCol:       prev.Table.GroupCol,
		CountCols:      m.CountCols,
		NewCols:        m.NewCols,
		B:              m.B,
		Seed:           &seed,
		ConfLevel:      m.ConfLevel,
		CheckOverlap:   m.CheckOverlap,
		FixBase:        m.FixBase,
		UsePercentages: m.UsePercentages,
	}

	res, err := s.Run(ctx, prev.Table, opts)
	if err != nil {
		return nil, err
	}
	res.Metadata.Seed = m.Seed

	want, err := prev.Fingerprint()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fingerprint stored result")
	}
	got, err := res.Fingerprint()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fingerprint replayed result")
	}
	if !want.Equals(got) {
		s.logger.Error("replay diverged",
			zap.String("run_id", prev.RunID.String()),
			zap.String("want", want.String()),
			zap.String("got", got.String()))
		return nil, apperrors.Wrapf(core.ErrNonDeterministic, "run %s", prev.RunID)
	}
	return res, nil
}
