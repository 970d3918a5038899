package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "gosppt/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable_CSV(t *testing.T) {
	path := writeFile(t, "units.csv", "DAUID,TFV,TOV,name\nA,10,12,x\nB,0,0,y\n\nC,5,4,z\n")

	table, err := NewDataReader(nil).ReadTable(context.Background(), path, "DAUID", []string{"TFV", "TOV"})
	require.NoError(t, err)

	assert.Equal(t, "DAUID", table.GroupCol)
	assert.Equal(t, []string{"A", "B", "C"}, table.Groups)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, []float64{10, 0, 5}, table.Columns[0].Values)
	assert.Equal(t, []float64{12, 0, 4}, table.Columns[1].Values)
}

func TestReadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Counts")
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))
	rows := [][]interface{}{
		{"unit", "base"},
		{"u1", 3},
		{"u2", 7},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Counts", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewDataReader(nil).ReadTable(context.Background(), path, "unit", []string{"base"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, table.Groups)
	assert.Equal(t, []float64{3, 7}, table.Columns[0].Values)
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		group   string
		counts  []string
		field   string
	}{
		{"missing group column", "a.csv", "id,c\n1,2\n", "unit", []string{"c"}, "group_col"},
		{"missing count column", "a.csv", "unit,c\n1,2\n", "unit", []string{"d"}, "d"},
		{"non-numeric count", "a.csv", "unit,c\n1,lots\n", "unit", []string{"c"}, "c"},
		{"empty count", "a.csv", "unit,c\n1,\n", "unit", []string{"c"}, "c"},
		{"header only", "a.csv", "unit,c\n", "unit", []string{"c"}, "input"},
		{"unsupported type", "a.parquet", "unit,c\n1,2\n", "unit", []string{"c"}, "input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewDataReader(nil).ReadTable(context.Background(), path, tt.group, tt.counts)
			require.Error(t, err)
			assert.True(t, apperrors.IsInputError(err), "got %v", err)
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := NewDataReader(nil).ReadTable(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "unit", []string{"c"})
	assert.True(t, apperrors.IsInputError(err))
}

func TestParseCount(t *testing.T) {
	v, err := parseCount("1,250")
	require.NoError(t, err)
	assert.Equal(t, 1250.0, v)

	v, err = parseCount("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}
