package correct

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/isocorrect/pkg/compound"
	"github.com/ChrisMcGann/isocorrect/pkg/enumerate"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
	"github.com/ChrisMcGann/isocorrect/pkg/measurement"
	"github.com/ChrisMcGann/isocorrect/pkg/probability"
)

// expectedTolerance is the maximum per-entry absolute difference against a
// caller-supplied expected vector before Correct reports a warning instead
// of failing outright.
const expectedTolerance = 1.0

// Error wraps a fatal failure from a correction run with the offending
// compound's name, the way the donor's readers wrap parse failures with
// line numbers.
type Error struct {
	Compound string
	Err      error
}

func (e *Error) Error() string { return fmt.Sprintf("correct %q: %v", e.Compound, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Options bundles everything one Correct call needs beyond the compound,
// table, and measured vector.
type Options struct {
	Enumerate enumerate.Options
	Expected  []float64 // optional, validated against the raw corrected vector
}

// Correct runs the full pipeline for one compound: enumerate the
// combination set, price it with natural-abundance probabilities, assemble
// and solve the correction matrix, and post-process the result. cache may
// be shared across calls for the same table to reuse memoized binomial
// coefficients; pass nil to allocate a fresh one.
func Correct(c *compound.Compound, table *isotope.Table, vector *measurement.Vector, opts Options, cache *probability.Cache) (*Result, error) {
	fail := func(err error) (*Result, error) { return nil, &Error{Compound: c.Name, Err: err} }

	if err := c.Validate(table); err != nil {
		return fail(err)
	}
	if opts.Enumerate.Purity != nil {
		if err := opts.Enumerate.Purity.Validate(c.Precursor.Tracer.Element, c.Precursor.Tracer.Isotope); err != nil {
			return fail(err)
		}
	}

	res, err := enumerate.Enumerate(c, table, opts.Enumerate)
	if err != nil {
		return fail(err)
	}
	if err := vector.ValidateKeys(res.TracerPairs); err != nil {
		return fail(err)
	}

	if cache == nil {
		cache = probability.NewCache()
	}
	if err := probability.Annotate(res, c, table, opts.Enumerate.Purity, cache); err != nil {
		return fail(err)
	}

	a, err := Assemble(vector, res, c.Precursor.Tracer.Isotope, table)
	if err != nil {
		return fail(err)
	}

	solveA := make([][]float64, len(a))
	for i, row := range a {
		solveA[i] = append([]float64(nil), row...)
	}
	b := append([]float64(nil), vector.Values()...)

	x, err := Solve(solveA, b)
	if err != nil {
		return fail(err)
	}

	var warnings []Warning

	measured := vector.Values()
	anchorNormalize(x, measured[0])
	normalized := normalize(x)

	isotopologue := c.IsIsotopologue()
	var enrichment float64
	if isotopologue {
		enrichment = meanEnrichment(normalized)
	} else {
		warnings = append(warnings, Warning{Message: "mean enrichment is not meaningful for a non-isotopologue compound"})
	}

	if opts.Expected != nil {
		if len(opts.Expected) != len(x) {
			warnings = append(warnings, Warning{Message: fmt.Sprintf(
				"expected vector has %d entries, corrected vector has %d; skipping validation", len(opts.Expected), len(x))})
		} else {
			for i, want := range opts.Expected {
				if diff := math.Abs(x[i] - want); diff > expectedTolerance {
					warnings = append(warnings, Warning{Message: fmt.Sprintf(
						"row %d: corrected %.6g differs from expected %.6g by %.6g, exceeds tolerance %.1f",
						i, x[i], want, diff, expectedTolerance)})
				}
			}
		}
	}

	return &Result{
		Raw:            x,
		Normalized:     normalized,
		Matrix:         a,
		IsIsotopologue: isotopologue,
		MeanEnrichment: enrichment,
		Warnings:       warnings,
	}, nil
}
