package ports

import (
	"context"

	"gosppt/domain/sppt"
)

// TableReader loads an aggregated unit table from an external source.
type TableReader interface {
	ReadTable(ctx context.Context, path, groupCol string, countCols []string) (*sppt.Table, error)
}
