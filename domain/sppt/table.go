package sppt

import (
	"math"
	"strings"

	apperrors "gosppt/internal/errors"
)

// Column is one named numeric series aligned with Table.Groups.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Table is the aggregated input: one row per spatial unit, identified by
// GroupCol, carrying one or more count columns. Row order is the output order.
type Table struct {
	GroupCol string   `json:"group_col"`
	Groups   []string `json:"groups"`
	Columns  []Column `json:"columns"`
}

// Len returns the number of spatial units.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Groups)
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Clone returns a deep copy so results never alias caller-owned slices.
func (t *Table) Clone() *Table {
	out := &Table{
		GroupCol: t.GroupCol,
		Groups:   append([]string(nil), t.Groups...),
		Columns:  make([]Column, len(t.Columns)),
	}
	for i, c := range t.Columns {
		out.Columns[i] = Column{Name: c.Name, Values: append([]float64(nil), c.Values...)}
	}
	return out
}

// Counts returns the named column as whole-number counts after checking the
// count invariants: present, aligned with the unit list, finite, integral and
// non-negative.
func (t *Table) Counts(name string) ([]int64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, apperrors.InputError(name, "count column not found in table")
	}
	if len(col.Values) != len(t.Groups) {
		return nil, apperrors.InputError(name, "column has %d values but table has %d units", len(col.Values), len(t.Groups))
	}

	counts := make([]int64, len(col.Values))
	for i, v := range col.Values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return nil, apperrors.InputError(name, "count at row %d (unit %q) is not a finite number", i+1, t.Groups[i])
		case v < 0:
			return nil, apperrors.InputError(name, "count at row %d (unit %q) is negative: %g", i+1, t.Groups[i], v)
		case v != math.Trunc(v):
			return nil, apperrors.InputError(name, "count at row %d (unit %q) is not a whole number: %g", i+1, t.Groups[i], v)
		case v > math.MaxInt32:
			return nil, apperrors.InputError(name, "count at row %d (unit %q) is too large: %g", i+1, t.Groups[i], v)
		}
		counts[i] = int64(v)
	}
	return counts, nil
}

// Validate checks the unit identifier column and every requested count
// column. It never touches random state, so it can run before any draw.
func (t *Table) Validate(countCols []string) error {
	if t == nil || len(t.Groups) == 0 {
		return apperrors.InputError("table", "input table has no rows")
	}
	field := t.GroupCol
	if strings.TrimSpace(field) == "" {
		field = "group_col"
	}

	seen := make(map[string]int, len(t.Groups))
	for i, g := range t.Groups {
		if strings.TrimSpace(g) == "" {
			return apperrors.InputError(field, "unit identifier at row %d is empty", i+1)
		}
		if prev, dup := seen[g]; dup {
			return apperrors.InputError(field, "unit identifier %q appears at rows %d and %d", g, prev+1, i+1)
		}
		seen[g] = i
	}

	for _, name := range countCols {
		if _, err := t.Counts(name); err != nil {
			return err
		}
	}
	return nil
}
