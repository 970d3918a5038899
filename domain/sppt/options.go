package sppt

import (
	"fmt"
	"strings"

	apperrors "gosppt/internal/errors"
)

const (
	DefaultB         = 200
	DefaultConfLevel = 0.95
	DefaultGroupCol  = "group"
)

// Options is the configuration surface of one engine run.
type Options struct {
	GroupCol       string   `json:"group_col"`
	CountCols      []string `json:"count_cols"`         // [base] or [base, test, ...]
	NewCols        []string `json:"new_cols,omitempty"` // output prefixes, default CountCols
	B              int      `json:"b"`                  // number of bootstrap draws
	Seed           *int64   `json:"seed,omitempty"`     // nil picks a fresh seed
	ConfLevel      float64  `json:"conf_level"`         // in (0,1)
	CheckOverlap   bool     `json:"check_overlap"`      // classify overlap and compute indices
	FixBase        bool     `json:"fix_base"`           // treat the first column as exact
	UsePercentages bool     `json:"use_percentages"`    // compare shares instead of counts
	Workers        int      `json:"workers,omitempty"`  // draw-level parallelism, 0 = GOMAXPROCS
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		GroupCol:       DefaultGroupCol,
		B:              DefaultB,
		ConfLevel:      DefaultConfLevel,
		UsePercentages: true,
	}
}

// Clone returns a copy that shares no slices or seed pointer with o.
func (o Options) Clone() Options {
	c := o
	c.CountCols = append([]string(nil), o.CountCols...)
	c.NewCols = append([]string(nil), o.NewCols...)
	if o.Seed != nil {
		seed := *o.Seed
		c.Seed = &seed
	}
	return c
}

// Prefixes returns the output column prefixes.
func (o Options) Prefixes() []string {
	if len(o.NewCols) == 0 {
		return append([]string(nil), o.CountCols...)
	}
	return append([]string(nil), o.NewCols...)
}

// Bivariate reports whether the run compares exactly one base and one test column.
func (o Options) Bivariate() bool {
	return len(o.CountCols) == 2
}

// Validate returns a ConfigError naming the first invalid option.
func (o Options) Validate() error {
	if o.B < 1 {
		return apperrors.ConfigError("B", "must be a positive integer, got %d", o.B)
	}
	if !(o.ConfLevel > 0 && o.ConfLevel < 1) {
		return apperrors.ConfigError("conf_level", "must lie strictly between 0 and 1, got %g", o.ConfLevel)
	}
	if o.Workers < 0 {
		return apperrors.ConfigError("workers", "must not be negative, got %d", o.Workers)
	}
	if len(o.CountCols) == 0 {
		return apperrors.ConfigError("count_col", "at least one count column must be specified")
	}
	if o.CheckOverlap && len(o.CountCols) < 2 {
		return apperrors.ConfigError("count_col", "check_overlap needs [base, test] columns, got %d", len(o.CountCols))
	}
	if o.FixBase && len(o.CountCols) < 2 {
		return apperrors.ConfigError("count_col", "fix_base needs [base, test] columns, got %d", len(o.CountCols))
	}
	if len(o.NewCols) > 0 && len(o.NewCols) != len(o.CountCols) {
		return apperrors.ConfigError("new_col", "must have the same length as count_col (%d), got %d", len(o.CountCols), len(o.NewCols))
	}

	if err := checkNames("count_col", o.CountCols); err != nil {
		return err
	}
	return checkNames("new_col", o.Prefixes())
}

func checkNames(field string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return apperrors.ConfigError(field, "column names must not be empty")
		}
		if seen[name] {
			return apperrors.ConfigError(field, "column %q is listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

// String renders the options the way the summary block reports them.
func (o Options) String() string {
	seed := "none"
	if o.Seed != nil {
		seed = fmt.Sprintf("%d", *o.Seed)
	}
	return fmt.Sprintf("count_col=%v B=%d seed=%s conf_level=%g check_overlap=%t fix_base=%t use_percentages=%t",
		o.CountCols, o.B, seed, o.ConfLevel, o.CheckOverlap, o.FixBase, o.UsePercentages)
}
