package sppt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "gosppt/internal/errors"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 200, opts.B)
	assert.Equal(t, 0.95, opts.ConfLevel)
	assert.True(t, opts.UsePercentages)
	assert.False(t, opts.CheckOverlap)
	assert.False(t, opts.FixBase)
	assert.Nil(t, opts.Seed)
}

func TestOptions_Prefixes(t *testing.T) {
	opts := DefaultOptions()
	opts.CountCols = []string{"TFV", "TOV"}
	assert.Equal(t, []string{"TFV", "TOV"}, opts.Prefixes())
	assert.True(t, opts.Bivariate())

	opts.NewCols = []string{"fire", "other"}
	assert.Equal(t, []string{"fire", "other"}, opts.Prefixes())
}

func TestOptions_Clone(t *testing.T) {
	seed := int64(9)
	opts := DefaultOptions()
	opts.Seed = &seed
	opts.CountCols = []string{"TFV", "TOV"}
	opts.NewCols = []string{"a", "b"}

	c := opts.Clone()
	assert.Equal(t, opts, c)

	*c.Seed = 42
	c.CountCols[0] = "X"
	c.NewCols[1] = "Y"
	assert.Equal(t, int64(9), seed)
	assert.Equal(t, []string{"TFV", "TOV"}, opts.CountCols)
	assert.Equal(t, []string{"a", "b"}, opts.NewCols)

	assert.Nil(t, DefaultOptions().Clone().Seed)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		field  string
	}{
		{"valid", func(o *Options) {}, ""},
		{"zero draws", func(o *Options) { o.B = 0 }, "B"},
		{"conf level one", func(o *Options) { o.ConfLevel = 1 }, "conf_level"},
		{"conf level zero", func(o *Options) { o.ConfLevel = 0 }, "conf_level"},
		{"negative workers", func(o *Options) { o.Workers = -1 }, "workers"},
		{"no columns", func(o *Options) { o.CountCols = nil }, "count_col"},
		{"overlap univariate", func(o *Options) { o.CountCols = o.CountCols[:1]; o.CheckOverlap = true }, "count_col"},
		{"fix base univariate", func(o *Options) { o.CountCols = o.CountCols[:1]; o.FixBase = true }, "count_col"},
		{"prefix length", func(o *Options) { o.NewCols = []string{"x"} }, "new_col"},
		{"duplicate column", func(o *Options) { o.CountCols = []string{"a", "a"} }, "count_col"},
		{"duplicate prefix", func(o *Options) { o.NewCols = []string{"x", "x"} }, "new_col"},
		{"empty column", func(o *Options) { o.CountCols = []string{"a", ""} }, "count_col"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.CountCols = []string{"a", "b"}
			tt.modify(&opts)

			err := opts.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsConfigError(err), "got %v", err)
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestOptions_String(t *testing.T) {
	opts := DefaultOptions()
	opts.CountCols = []string{"a", "b"}
	seed := int64(42)
	opts.Seed = &seed
	assert.Contains(t, opts.String(), "seed=42")
	assert.Contains(t, opts.String(), "B=200")
}
