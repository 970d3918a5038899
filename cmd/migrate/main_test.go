package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindResultFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "2025")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	for _, name := range []string{
		filepath.Join(dir, "sppt_output_TFV_TOV.json"),
		filepath.Join(nested, "sppt_output_a.json"),
		filepath.Join(dir, "sppt_output_TFV_TOV.csv"),
		filepath.Join(dir, "other.json"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("{}"), 0o644))
	}

	files, err := findResultFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestLoadResultFromFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"table": {"group_col": "u", "groups": ["a"], "columns": [{"name": "c", "values": [1]}]},
		"intervals": [{"name": "c", "source": "c", "events": 1, "lower": [100], "upper": [100]}],
		"metadata": {"b": 1, "count_cols": ["c"]}
	}`), 0o644))
	res, err := loadResultFromFile(good)
	require.NoError(t, err)
	assert.Equal(t, "u", res.Table.GroupCol)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("{}"), 0o644))
	_, err = loadResultFromFile(empty)
	assert.Error(t, err)
}
