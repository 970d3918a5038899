package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gosppt/domain/sppt"
	apperrors "gosppt/internal/errors"
	"gosppt/ports"
)

// DataReader handles reading XLSX and CSV files into unit tables
type DataReader struct {
	logger *zap.Logger
}

var _ ports.TableReader = (*DataReader)(nil)

// NewDataReader creates a reader that handles both XLSX and CSV files
func NewDataReader(logger *zap.Logger) *DataReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{logger: logger}
}

// ReadTable reads the file at path and extracts the unit identifier column and
// the requested count columns.
func (r *DataReader) ReadTable(ctx context.Context, path, groupCol string, countCols []string) (*sppt.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData(path)
	if err != nil {
		return nil, err
	}
	return data.ToTable(groupCol, countCols)
}

// ReadData reads the raw rows of a CSV or XLSX file.
func (r *DataReader) ReadData(path string) (*SheetData, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, apperrors.InputError("input", "file not found: %s", path)
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	fileType := fileTypeOf(path)
	switch fileType {
	case FormatCSV, FormatTXT:
		rows, err = readCSVRows(path)
	case FormatXLSX:
		rows, err = readExcelRows(path)
	default:
		return nil, apperrors.InputError("input", "unsupported file type %q, expected .csv or .xlsx", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, apperrors.InputError("input", "%s file must have a header row and at least one data row", strings.ToUpper(fileType))
	}

	data := processRows(rows)
	r.logger.Debug("input file read",
		zap.String("path", path),
		zap.String("type", fileType),
		zap.Int("columns", len(data.Headers)),
		zap.Int("rows", len(data.Rows)),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}

func fileTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".txt":
		return FormatTXT
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return ""
	}
}

// readExcelRows reads Sheet1, or the first sheet when there is no Sheet1.
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.InputError("input", "failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheet := defaultSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.InputError("input", "Excel file has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.InputError("input", "failed to read sheet %s: %v", sheet, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.InputError("input", "failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.InputError("input", "failed to read CSV file: %v", err)
	}
	return rows, nil
}

// processRows converts raw string rows into SheetData
func processRows(rows [][]string) *SheetData {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}
	return &SheetData{Headers: headers, Rows: dataRows}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// HasColumn reports whether the header row contains name.
func (d *SheetData) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ToTable extracts the unit identifier and count columns. Count cells must be
// numeric; range and integrality checks are left to sppt.Table.
func (d *SheetData) ToTable(groupCol string, countCols []string) (*sppt.Table, error) {
	if !d.HasColumn(groupCol) {
		return nil, apperrors.InputError("group_col", "column %q not found in input", groupCol)
	}
	table := &sppt.Table{
		GroupCol: groupCol,
		Groups:   make([]string, len(d.Rows)),
	}
	for i, row := range d.Rows {
		table.Groups[i] = row[groupCol]
	}

	for _, name := range countCols {
		if !d.HasColumn(name) {
			return nil, apperrors.InputError(name, "count column not found in input")
		}
		values := make([]float64, len(d.Rows))
		for i, row := range d.Rows {
			v, err := parseCount(row[name])
			if err != nil {
				return nil, apperrors.InputError(name, "row %d (unit %q): %v", i+1, table.Groups[i], err)
			}
			values[i] = v
		}
		table.Columns = append(table.Columns, sppt.Column{Name: name, Values: values})
	}
	return table, nil
}

func parseCount(cell string) (float64, error) {
	if cell == "" {
		return 0, fmt.Errorf("missing count")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("count %q is not numeric", cell)
	}
	return v, nil
}
