package ports

import (
	"context"
	"time"

	"gosppt/domain/core"
	"gosppt/domain/sppt"
)

// RunSummary is the list view of a stored run.
type RunSummary struct {
	RunID          core.RunID `json:"run_id" db:"id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	CountCols      string     `json:"count_cols" db:"count_cols"`
	Units          int        `json:"units" db:"total_units"`
	B              int        `json:"b" db:"b"`
	Seed           int64      `json:"seed" db:"seed"`
	UsePercentages bool       `json:"use_percentages" db:"use_percentages"`
	FixBase        bool       `json:"fix_base" db:"fix_base"`
	SIndex         *float64   `json:"s_index,omitempty" db:"s_index"`
	RobustSIndex   *float64   `json:"robust_s_index,omitempty" db:"robust_s_index"`
}

// ResultRepository persists finished runs.
type ResultRepository interface {
	Save(ctx context.Context, result *sppt.Result) error
	Get(ctx context.Context, id core.RunID) (*sppt.Result, error)
	List(ctx context.Context, limit int) ([]RunSummary, error)
}
