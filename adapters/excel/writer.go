package excel

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gosppt/domain/sppt"
	apperrors "gosppt/internal/errors"
	"gosppt/ports"
)

// ResultWriter exports augmented tables to disk.
type ResultWriter struct {
	logger *zap.Logger
}

var _ ports.ResultExporter = (*ResultWriter)(nil)

// NewResultWriter creates an exporter.
func NewResultWriter(logger *zap.Logger) *ResultWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultWriter{logger: logger}
}

// FileName returns sppt_output_{var1}_{var2}.{format}, built from the count
// column names of the run.
func FileName(res *sppt.Result, format string) string {
	return "sppt_output_" + strings.Join(res.Metadata.CountCols, "_") + "." + strings.ToLower(format)
}

// Export writes res into dir in the given format and returns the file path.
// The directory is created when missing; an existing file is replaced.
func (w *ResultWriter) Export(ctx context.Context, res *sppt.Result, dir, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !supportedFormat(format) {
		return "", apperrors.ConfigError("export_format", "unsupported format %q, supported: %s", format, strings.Join(Formats, ", "))
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrapf(err, "failed to create export directory %s", dir)
	}

	path := filepath.Join(dir, FileName(res, format))
	var err error
	switch format {
	case FormatCSV, FormatTXT:
		err = writeCSV(path, res)
	case FormatXLSX:
		err = writeXLSX(path, res)
	case FormatJSON:
		err = writeJSON(path, res)
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "failed to export %s", path)
	}

	w.logger.Info("results exported", zap.String("path", path), zap.String("format", format))
	return path, nil
}

func supportedFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

func writeCSV(path string, res *sppt.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(res.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(res.Records()); err != nil {
		return err
	}
	return file.Close()
}

func writeJSON(path string, res *sppt.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeXLSX(path string, res *sppt.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	header := res.Header()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &row); err != nil {
		return err
	}

	for i := range res.Table.Groups {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := typedRow(res, i)
		if err := f.SetSheetRow(defaultSheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// typedRow is row i of Records with numeric cells kept numeric.
func typedRow(res *sppt.Result, i int) []interface{} {
	row := []interface{}{res.Table.Groups[i]}
	for _, c := range res.Table.Columns {
		row = append(row, c.Values[i])
	}
	for _, v := range res.Intervals {
		row = append(row, v.Lower[i], v.Upper[i])
	}
	if res.Overlap != nil {
		row = append(row, res.Overlap[i])
	}
	if res.SIndexBivariate != nil {
		row = append(row, res.SIndexBivariate[i])
	}
	return row
}
