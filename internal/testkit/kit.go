// Package testkit provides fixture tables and synthetic count data for tests.
package testkit

import (
	"fmt"

	"gosppt/domain/sppt"
)

// NewTable builds a table from unit ids and named count columns. Columns are
// added in the order of names.
func NewTable(groupCol string, groups []string, names []string, counts ...[]float64) *sppt.Table {
	if len(names) != len(counts) {
		panic(fmt.Sprintf("testkit: %d names for %d count columns", len(names), len(counts)))
	}
	t := &sppt.Table{GroupCol: groupCol, Groups: append([]string(nil), groups...)}
	for i, name := range names {
		t.Columns = append(t.Columns, sppt.Column{Name: name, Values: append([]float64(nil), counts[i]...)})
	}
	return t
}

// UnitIDs returns n identifiers "U001", "U002", ...
func UnitIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("U%03d", i+1)
	}
	return ids
}

// BivariateTable is the three-unit table with one all-zero unit:
// base [10,0,5], test [12,0,4].
func BivariateTable() *sppt.Table {
	return NewTable("DAUID", []string{"A", "B", "C"}, []string{"TFV", "TOV"},
		[]float64{10, 0, 5},
		[]float64{12, 0, 4},
	)
}

// IdenticalTable has two identical count columns over n units.
func IdenticalTable(n int, count float64) *sppt.Table {
	col := make([]float64, n)
	for i := range col {
		col[i] = count
	}
	return NewTable("unit", UnitIDs(n), []string{"base", "test"}, col, col)
}
