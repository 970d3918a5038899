package sppt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gosppt/domain/core"
)

// Output column names shared by exporters and the HTTP API.
const (
	OverlapColumn   = "intervals_overlap"
	BivariateColumn = "SIndex_Bivariate"
	LowerSuffix     = "_L"
	UpperSuffix     = "_U"
)

// Indicator is the per-unit directional overlap outcome.
type Indicator int

const (
	BaseHigher  Indicator = -1 // test interval lies entirely below the base interval
	Overlapping Indicator = 0
	TestHigher  Indicator = 1 // test interval lies entirely above the base interval
)

func (i Indicator) String() string {
	switch i {
	case BaseHigher:
		return "no-overlap-base-higher"
	case TestHigher:
		return "no-overlap-test-higher"
	default:
		return "overlap"
	}
}

// Interval is a closed confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns Upper - Lower.
func (iv Interval) Width() float64 { return iv.Upper - iv.Lower }

// VariableIntervals holds the percentile bounds of one count variable.
type VariableIntervals struct {
	Name   string    `json:"name"`   // output prefix
	Source string    `json:"source"` // count column
	Events int64     `json:"events"` // total observed events
	Fixed  bool      `json:"fixed"`  // not resampled (fix_base)
	Lower  []float64 `json:"lower"`
	Upper  []float64 `json:"upper"`
}

// At returns the interval of unit i.
func (v VariableIntervals) At(i int) Interval {
	return Interval{Lower: v.Lower[i], Upper: v.Upper[i]}
}

// VariableSummary describes the spread of one variable's intervals.
type VariableSummary struct {
	Name      string  `json:"name"`
	Events    int64   `json:"events"`
	MeanWidth float64 `json:"mean_width"`
	MaxWidth  float64 `json:"max_width"`
}

// Metadata records everything needed to reproduce and report a run.
type Metadata struct {
	B                int               `json:"b"`
	Seed             *int64            `json:"seed,omitempty"` // as requested
	EffectiveSeed    int64             `json:"effective_seed"` // as used
	ConfLevel        float64           `json:"conf_level"`
	UsePercentages   bool              `json:"use_percentages"`
	FixBase          bool              `json:"fix_base"`
	CheckOverlap     bool              `json:"check_overlap"`
	CountCols        []string          `json:"count_cols"`
	NewCols          []string          `json:"new_cols"`
	TotalUnits       int               `json:"total_units"`
	OverlappingUnits int               `json:"overlapping_units"`
	NonZeroUnits     int               `json:"non_zero_units"`
	Variables        []VariableSummary `json:"variables"`
}

// Result is the immutable artifact of one run: the input table augmented
// with interval bounds, overlap indicators and the two indices. Callers must
// treat it as read-only.
type Result struct {
	RunID           core.RunID          `json:"run_id"`
	CreatedAt       time.Time           `json:"created_at"`
	Table           *Table              `json:"table"`
	Intervals       []VariableIntervals `json:"intervals"`
	Overlap         []int               `json:"intervals_overlap,omitempty"`
	SIndexBivariate []int               `json:"sindex_bivariate,omitempty"`
	SIndex          *float64            `json:"s_index,omitempty"`
	RobustSIndex    *float64            `json:"robust_s_index,omitempty"`
	Metadata        Metadata            `json:"metadata"`
}

// HasIndices reports whether overlap classification ran.
func (r *Result) HasIndices() bool {
	return r.SIndex != nil && r.RobustSIndex != nil
}

// Variable looks up intervals by output prefix.
func (r *Result) Variable(name string) (VariableIntervals, bool) {
	for _, v := range r.Intervals {
		if v.Name == name {
			return v, true
		}
	}
	return VariableIntervals{}, false
}

// Header returns the column names of the augmented table.
func (r *Result) Header() []string {
	header := []string{r.Table.GroupCol}
	for _, c := range r.Table.Columns {
		header = append(header, c.Name)
	}
	for _, v := range r.Intervals {
		header = append(header, v.Name+LowerSuffix, v.Name+UpperSuffix)
	}
	if r.Overlap != nil {
		header = append(header, OverlapColumn)
	}
	if r.SIndexBivariate != nil {
		header = append(header, BivariateColumn)
	}
	return header
}

// Records returns the augmented table row by row, aligned with Header.
func (r *Result) Records() [][]string {
	rows := make([][]string, r.Table.Len())
	for i, g := range r.Table.Groups {
		row := []string{g}
		for _, c := range r.Table.Columns {
			row = append(row, formatFloat(c.Values[i]))
		}
		for _, v := range r.Intervals {
			row = append(row, formatFloat(v.Lower[i]), formatFloat(v.Upper[i]))
		}
		if r.Overlap != nil {
			row = append(row, strconv.Itoa(r.Overlap[i]))
		}
		if r.SIndexBivariate != nil {
			row = append(row, strconv.Itoa(r.SIndexBivariate[i]))
		}
		rows[i] = row
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const rule = "========================================"

// Summary renders the human-readable statistics block.
func (r *Result) Summary() string {
	var b strings.Builder
	m := r.Metadata

	b.WriteString(rule + "\n")
	b.WriteString("Spatial Pattern Overlap Statistics\n")
	if m.FixBase {
		b.WriteString("Mode: Fixed Base (Test randomized)\n")
	}
	if m.UsePercentages {
		b.WriteString("Using: Percentages (spatial distribution)\n")
	} else {
		b.WriteString("Using: Counts (absolute values)\n")
	}
	b.WriteString(rule + "\n")
	if r.HasIndices() {
		fmt.Fprintf(&b, "S-Index:           %.4f\n", *r.SIndex)
		fmt.Fprintf(&b, "Robust S-Index:    %.4f\n", *r.RobustSIndex)
		b.WriteString("----------------------------------------\n")
		fmt.Fprintf(&b, "Total observations:                 %d\n", m.TotalUnits)
		fmt.Fprintf(&b, "Observations with overlap:          %d\n", m.OverlappingUnits)
		fmt.Fprintf(&b, "Observations with non-zero counts:  %d\n", m.NonZeroUnits)
	} else {
		fmt.Fprintf(&b, "Total observations:                 %d\n", m.TotalUnits)
	}
	b.WriteString("----------------------------------------\n")
	fmt.Fprintf(&b, "Bootstrap draws: %d  seed: %d  conf_level: %g\n", m.B, m.EffectiveSeed, m.ConfLevel)
	for _, v := range m.Variables {
		fmt.Fprintf(&b, "%-12s events: %-8d mean CI width: %.4f\n", v.Name, v.Events, v.MeanWidth)
	}
	b.WriteString(rule + "\n")
	return b.String()
}

// Fingerprint hashes the canonical JSON of the result, ignoring the run
// identity and timestamp, so two runs with equal data, seed and B compare equal.
func (r *Result) Fingerprint() (core.Hash, error) {
	clone := *r
	clone.RunID = ""
	clone.CreatedAt = time.Time{}
	data, err := json.Marshal(&clone)
	if err != nil {
		return "", err
	}
	return core.NewHash(data), nil
}
