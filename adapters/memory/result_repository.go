// Package memory holds in-process adapters used by the CLI, tests and
// servers started without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gosppt/domain/core"
	"gosppt/domain/sppt"
	apperrors "gosppt/internal/errors"
	"gosppt/ports"
)

// ResultRepository keeps runs in a map.
type ResultRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*sppt.Result
}

var _ ports.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates an empty repository.
func NewResultRepository() *ResultRepository {
	return &ResultRepository{runs: make(map[core.RunID]*sppt.Result)}
}

// Save stores a run, replacing any run with the same id.
func (r *ResultRepository) Save(ctx context.Context, res *sppt.Result) error {
	if res == nil || res.RunID == "" {
		return apperrors.InternalError("cannot save a result without a run id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[res.RunID] = res
	return nil
}

// Get returns a stored run.
func (r *ResultRepository) Get(ctx context.Context, id core.RunID) (*sppt.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.runs[id]
	if !ok {
		return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewNotFoundError("run", id.String()))
	}
	return res, nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all.
func (r *ResultRepository) List(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.RunSummary, 0, len(r.runs))
	for _, res := range r.runs {
		out = append(out, Summarize(res))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RunID > out[j].RunID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Summarize builds the list view of a result.
func Summarize(res *sppt.Result) ports.RunSummary {
	m := res.Metadata
	return ports.RunSummary{
		RunID:          res.RunID,
		CreatedAt:      res.CreatedAt,
		CountCols:      strings.Join(m.CountCols, ","),
		Units:          m.TotalUnits,
		B:              m.B,
		Seed:           m.EffectiveSeed,
		UsePercentages: m.UsePercentages,
		FixBase:        m.FixBase,
		SIndex:         res.SIndex,
		RobustSIndex:   res.RobustSIndex,
	}
}
