package isotope

import (
	"fmt"
	"math"
)

// Purity is a tracer-reagent purity descriptor: the fraction of tracer
// atoms that are actually each isotope of the tracer element, rather than
// the pure tracer isotope. Fractions must sum to 1 ± sumTolerance.
type Purity struct {
	Element   string
	Fractions map[string]float64 // isotope name -> purity fraction
}

// NewPurity validates and builds a Purity from parallel name/fraction
// slices, the shape the natural-abundance/purity table reader produces.
func NewPurity(names []string, fractions []float64) (*Purity, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("isotope: purity table has no isotopes")
	}
	if len(names) != len(fractions) {
		return nil, fmt.Errorf("isotope: purity table has %d names but %d fractions", len(names), len(fractions))
	}

	element, _, err := ParseName(names[0])
	if err != nil {
		return nil, err
	}

	sum := 0.0
	out := make(map[string]float64, len(names))
	for i, name := range names {
		el, _, err := ParseName(name)
		if err != nil {
			return nil, err
		}
		if el != element {
			return nil, fmt.Errorf("isotope: purity table mixes elements %q and %q", element, el)
		}
		if fractions[i] < 0 || fractions[i] > 1 {
			return nil, fmt.Errorf("isotope: purity fraction for %q out of range: %g", name, fractions[i])
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("isotope: purity table lists isotope %q twice", name)
		}
		out[name] = fractions[i]
		sum += fractions[i]
	}

	if math.Abs(sum-1) > sumTolerance {
		return nil, fmt.Errorf("isotope: purity fractions sum to %.10f, want 1 ± %g", sum, sumTolerance)
	}

	return &Purity{Element: element, Fractions: out}, nil
}

// Fraction returns the purity fraction for isotopeName, or an error if it
// is not part of this purity descriptor.
func (p *Purity) Fraction(isotopeName string) (float64, error) {
	f, ok := p.Fractions[isotopeName]
	if !ok {
		return 0, fmt.Errorf("isotope: purity table has no entry for isotope %q", isotopeName)
	}
	return f, nil
}

// Validate checks that p describes the tracer element and that the tracer
// isotope itself appears in the purity table.
func (p *Purity) Validate(tracerElement, tracerIsotope string) error {
	if p.Element != tracerElement {
		return fmt.Errorf("isotope: purity table references element %q, want tracer element %q", p.Element, tracerElement)
	}
	if _, ok := p.Fractions[tracerIsotope]; !ok {
		return fmt.Errorf("isotope: purity table does not include tracer isotope %q", tracerIsotope)
	}
	return nil
}
