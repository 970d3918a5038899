package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosppt/domain/sppt"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"SPPT_B", "SPPT_CONF_LEVEL", "SPPT_SEED", "SPPT_USE_PERCENTAGES", "SPPT_WORKERS",
		"SPPT_EXPORT_DIR", "SPPT_EXPORT_FORMAT", "DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRunCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand_Summary(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "units.csv")
	require.NoError(t, os.WriteFile(input, []byte("DAUID,TFV,TOV\nA,10,12\nB,0,0\nC,5,4\n"), 0o644))

	out, err := execute(t,
		"--input", input, "--group", "DAUID", "--count", "TFV", "--count", "TOV",
		"--b", "100", "--seed", "171717", "--check-overlap",
		"--export", "csv", "--export-dir", filepath.Join(dir, "out"),
		"--report", filepath.Join(dir, "report.md"))
	require.NoError(t, err)

	assert.Contains(t, out, "S-Index:")
	assert.Contains(t, out, "Robust S-Index:")
	assert.Contains(t, out, "Using: Percentages")
	assert.FileExists(t, filepath.Join(dir, "out", "sppt_output_TFV_TOV.csv"))
	assert.FileExists(t, filepath.Join(dir, "report.md"))
}

func TestRunCommand_Univariate(t *testing.T) {
	clearEnv(t)
	input := filepath.Join(t.TempDir(), "units.csv")
	require.NoError(t, os.WriteFile(input, []byte("unit,c\na,3\nb,1\n"), 0o644))

	out, err := execute(t, "--input", input, "--group", "unit", "--count", "c", "--counts")
	require.NoError(t, err)
	assert.Contains(t, out, "mean CI width")
	assert.NotContains(t, out, "S-Index")
}

func TestRunCommand_Errors(t *testing.T) {
	clearEnv(t)
	input := filepath.Join(t.TempDir(), "units.csv")
	require.NoError(t, os.WriteFile(input, []byte("unit,c\na,-3\n"), 0o644))

	_, err := execute(t, "--input", input, "--group", "unit", "--count", "c")
	assert.Error(t, err)

	_, err = execute(t, "--input", input, "--group", "unit", "--count", "c", "--check-overlap")
	assert.Error(t, err)

	_, err = execute(t, "--group", "unit", "--count", "c")
	assert.Error(t, err)
}

func TestRunFlags_Options(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--count", "a", "--count", "b", "--seed", "7", "--counts"}))

	var f runFlags
	f.group, _ = cmd.Flags().GetString("group")
	f.counts, _ = cmd.Flags().GetStringArray("count")
	f.seed, _ = cmd.Flags().GetInt64("seed")
	f.absolute, _ = cmd.Flags().GetBool("counts")

	defaults := sppt.DefaultOptions()
	defaults.B = 321
	opts := f.options(cmd, defaults)

	assert.Equal(t, []string{"a", "b"}, opts.CountCols)
	assert.Equal(t, 321, opts.B)
	require.NotNil(t, opts.Seed)
	assert.Equal(t, int64(7), *opts.Seed)
	assert.False(t, opts.UsePercentages)
	assert.Equal(t, sppt.DefaultGroupCol, opts.GroupCol)
}
