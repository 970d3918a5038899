package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"gosppt/domain/core"
	"gosppt/domain/sppt"
	apperrors "gosppt/internal/errors"
	"gosppt/ports"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 50

// ResultRepository stores finished runs in sppt_runs: summary columns for
// listing plus the full result as a JSONB payload.
type ResultRepository struct {
	db *sqlx.DB
}

var _ ports.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save inserts a run. Saving the same run id twice replaces the stored row.
func (r *ResultRepository) Save(ctx context.Context, res *sppt.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal result")
	}
	fingerprint, err := res.Fingerprint()
	if err != nil {
		return apperrors.Wrap(err, "failed to fingerprint result")
	}

	m := res.Metadata
	query := `
		INSERT INTO sppt_runs (
			id, created_at, count_cols, total_units, b, seed, conf_level,
			use_percentages, fix_base, check_overlap, s_index, robust_s_index,
			fingerprint, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			fingerprint = EXCLUDED.fingerprint`

	_, err = r.db.ExecContext(ctx, query,
		res.RunID.String(),
		res.CreatedAt,
		strings.Join(m.CountCols, ","),
		m.TotalUnits,
		m.B,
		m.EffectiveSeed,
		m.ConfLevel,
		m.UsePercentages,
		m.FixBase,
		m.CheckOverlap,
		res.SIndex,
		res.RobustSIndex,
		fingerprint.String(),
		payload,
	)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}

// Get loads one run by id.
func (r *ResultRepository) Get(ctx context.Context, id core.RunID) (*sppt.Result, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM sppt_runs WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewNotFoundError("run", id.String()))
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}

	var res sppt.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal stored result")
	}
	return &res, nil
}

// List returns the most recent runs first.
func (r *ResultRepository) List(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `
		SELECT id, created_at, count_cols, total_units, b, seed,
			   use_percentages, fix_base, s_index, robust_s_index
		FROM sppt_runs
		ORDER BY created_at DESC
		LIMIT $1`

	var runs []ports.RunSummary
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return runs, nil
}
