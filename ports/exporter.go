package ports

import (
	"context"

	"gosppt/domain/sppt"
)

// ResultExporter writes a finished Result to disk and returns the file path.
type ResultExporter interface {
	Export(ctx context.Context, result *sppt.Result, dir, format string) (string, error)
}
