package testkit

import (
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"gosppt/domain/sppt"
)

// CountGeneratorConfig configures synthetic per-unit event counts.
type CountGeneratorConfig struct {
	Units    int       `json:"units"`
	Rates    []float64 `json:"rates"`     // Poisson mean per variable
	Shift    float64   `json:"shift"`     // multiplier applied to the test rates of the first ShiftEnd units
	ShiftEnd int       `json:"shift_end"` // number of shifted units
	Seed     uint64    `json:"seed"`
}

// DefaultCountConfig returns a two-variable layout over 100 units.
func DefaultCountConfig() CountGeneratorConfig {
	return CountGeneratorConfig{
		Units: 100,
		Rates: []float64{20, 20},
		Shift: 1,
		Seed:  42,
	}
}

// CountGenerator draws Poisson counts per unit and variable.
type CountGenerator struct {
	config CountGeneratorConfig
	src    rand.Source
}

// NewCountGenerator creates a generator with a fixed seed.
func NewCountGenerator(config CountGeneratorConfig) *CountGenerator {
	return &CountGenerator{
		config: config,
		src:    rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15),
	}
}

// Generate returns a table with one column per rate, named "v0", "v1", ...
// Variables after the first are scaled by Shift on units [0, ShiftEnd).
func (g *CountGenerator) Generate() *sppt.Table {
	names := make([]string, len(g.config.Rates))
	cols := make([][]float64, len(g.config.Rates))
	for k, rate := range g.config.Rates {
		names[k] = "v" + strconv.Itoa(k)
		cols[k] = make([]float64, g.config.Units)
		for i := range cols[k] {
			lambda := rate
			if k > 0 && i < g.config.ShiftEnd {
				lambda *= g.config.Shift
			}
			if lambda <= 0 {
				continue
			}
			cols[k][i] = distuv.Poisson{Lambda: lambda, Src: g.src}.Rand()
		}
	}
	return NewTable("unit", UnitIDs(g.config.Units), names, cols...)
}
