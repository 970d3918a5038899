package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosppt/internal/errors"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"SPPT_B", "SPPT_CONF_LEVEL", "SPPT_SEED", "SPPT_USE_PERCENTAGES", "SPPT_WORKERS",
		"SPPT_EXPORT_DIR", "SPPT_EXPORT_FORMAT", "DATABASE_URL", "PORT", "LOG_LEVEL", "LOG_FORMAT", "PPROF_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Engine.B)
	assert.Equal(t, 0.95, cfg.Engine.ConfLevel)
	assert.Nil(t, cfg.Engine.Seed)
	assert.True(t, cfg.Engine.UsePercentages)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.WriteTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SPPT_B", "500")
	t.Setenv("SPPT_CONF_LEVEL", "0.9")
	t.Setenv("SPPT_SEED", "171717")
	t.Setenv("SPPT_USE_PERCENTAGES", "false")
	t.Setenv("SPPT_EXPORT_FORMAT", "XLSX")

	cfg, err := FromEnv()
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, 500, opts.B)
	assert.Equal(t, 0.9, opts.ConfLevel)
	require.NotNil(t, opts.Seed)
	assert.Equal(t, int64(171717), *opts.Seed)
	assert.False(t, opts.UsePercentages)
	assert.Equal(t, "xlsx", cfg.Export.Format)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value, field string
	}{
		{"SPPT_B", "many", "SPPT_B"},
		{"SPPT_B", "0", "B"},
		{"SPPT_CONF_LEVEL", "1.5", "conf_level"},
		{"SPPT_SEED", "abc", "SPPT_SEED"},
		{"SPPT_USE_PERCENTAGES", "maybe", "SPPT_USE_PERCENTAGES"},
		{"SPPT_EXPORT_FORMAT", "shp", "SPPT_EXPORT_FORMAT"},
		{"SERVER_WRITE_TIMEOUT", "soon", "SERVER_WRITE_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err), "got %v", err)
			assert.Equal(t, tt.field, errors.GetField(err))
		})
	}
}
