package bootstrap

import (
	"math"

	apperrors "gosppt/internal/errors"
)

// Events is the expanded multiset of one count variable: one event per unit
// of count, each tagged with the index of the unit that owns it. Units with
// a zero count own no events.
type Events struct {
	unit     []int32
	numUnits int
}

// Expand turns per-unit counts into events. The total number of events is
// exactly the sum of counts.
func Expand(name string, counts []int64) (*Events, error) {
	if len(counts) > math.MaxInt32 {
		return nil, apperrors.InputError(name, "too many units: %d", len(counts))
	}

	var total int64
	for i, c := range counts {
		if c < 0 {
			return nil, apperrors.InputError(name, "count at row %d is negative: %d", i+1, c)
		}
		total += c
	}
	if total > MaxEvents {
		return nil, apperrors.InputError(name, "total count %d exceeds the resampling limit", total)
	}

	unit := make([]int32, 0, total)
	for g, c := range counts {
		for k := int64(0); k < c; k++ {
			unit = append(unit, int32(g))
		}
	}
	return &Events{unit: unit, numUnits: len(counts)}, nil
}

// Len returns the number of events.
func (e *Events) Len() int { return len(e.unit) }

// NumUnits returns the number of units, including those without events.
func (e *Events) NumUnits() int { return e.numUnits }

// Unit returns the owning unit of event i.
func (e *Events) Unit(i int) int { return int(e.unit[i]) }
