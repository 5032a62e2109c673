// Package correct assembles and solves the isotope-correction matrix for
// one compound and produces the corrected and normalized intensity
// vectors.
package correct

import (
	"fmt"

	"github.com/ChrisMcGann/isocorrect/pkg/enumerate"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
	"github.com/ChrisMcGann/isocorrect/pkg/measurement"
)

// Assemble builds the square correction matrix A: row r is the measured
// bucket a combination's *total* mass offset falls into, converted from
// absolute Dalton mass into tracer-label units; column c is the bucket its
// parent's nominal tracer-label count alone would produce. Without purity
// these coincide with the tracer slot's own contribution. With purity, a
// record's actual isotope realization (comb.MassN/MassFrag) can fall short
// of what its parent's nominal label count predicted, e.g. some of the
// "labeled" positions turned out to be the unlabeled reagent impurity;
// that is exactly what places nonzero entries above the diagonal.
// Combinations whose row or column falls outside the measured set are
// dropped; they represent mass buckets the caller never measured.
func Assemble(vector *measurement.Vector, result *enumerate.Result, tracerIsotope string, table *isotope.Table) ([][]float64, error) {
	n := vector.Len()
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}

	delta, err := table.MassDelta(tracerIsotope)
	if err != nil {
		return nil, fmt.Errorf("correct: %w", err)
	}
	if delta == 0 {
		return nil, fmt.Errorf("correct: tracer isotope %q has zero mass delta", tracerIsotope)
	}

	for _, comb := range result.Combinations {
		rowN, ok := massToLabelUnits(comb.MassN, delta)
		if !ok {
			continue
		}
		rowFrag, ok := massToLabelUnits(comb.MassFrag, delta)
		if !ok {
			continue
		}
		row := vector.IndexOf(measurement.Pair{PrecursorOffset: rowN, FragmentOffset: rowFrag})
		if row == -1 {
			continue
		}

		col := vector.IndexOf(measurement.Pair{
			PrecursorOffset: comb.TracerLabel.N,
			FragmentOffset:  comb.TracerLabel.Frag,
		})
		if col == -1 {
			continue
		}

		a[row][col] += comb.Probability
	}
	return a, nil
}

// massToLabelUnits converts an absolute mass offset (in the isotope's own
// Dalton units) into tracer-label units, the convention the measured
// Vector is keyed in. It reports false when mass does not divide evenly
// by delta, meaning the offset has no corresponding measured bucket.
func massToLabelUnits(mass, delta int) (int, bool) {
	if mass%delta != 0 {
		return 0, false
	}
	return mass / delta, true
}
