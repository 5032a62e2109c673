package probability

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/isocorrect/pkg/compound"
	"github.com/ChrisMcGann/isocorrect/pkg/enumerate"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
)

// group is a contiguous run of enumerate.SlotDescriptor entries sharing
// one element and slot kind, e.g. every non-lightest isotope of "O", or
// every tracer-element isotope after purity expansion.
type group struct {
	kind     enumerate.SlotKind
	element  string
	isotopes []string
	startIdx int
}

func segment(descriptors []enumerate.SlotDescriptor) []group {
	var out []group
	for i, d := range descriptors {
		if n := len(out); n > 0 && out[n-1].kind == d.Kind && out[n-1].element == d.Element {
			out[n-1].isotopes = append(out[n-1].isotopes, d.Isotope)
			continue
		}
		out = append(out, group{kind: d.Kind, element: d.Element, isotopes: []string{d.Isotope}, startIdx: i})
	}
	return out
}

// Annotate fills in Probability for every combination in result. c and
// table must be the same compound/table that produced result; purity, if
// result was built with purity expansion, must be the same isotope.Purity.
func Annotate(result *enumerate.Result, c *compound.Compound, table *isotope.Table, purity *isotope.Purity, cache *Cache) error {
	groups := segment(result.Descriptors)
	if len(groups) == 0 {
		return fmt.Errorf("probability: empty slot layout")
	}
	last := groups[len(groups)-1]

	tracerN := c.Precursor.Tracer.Count
	tracerFrag := c.Fragment.Tracer.Count

	for ci := range result.Combinations {
		comb := &result.Combinations[ci]

		lastSlots := comb.Slots[last.startIdx : last.startIdx+len(last.isotopes)]
		labeledN, labeledFrag := 0, 0
		for _, s := range lastSlots {
			labeledN += s.N
			labeledFrag += s.Frag
		}

		prob := 1.0
		for _, g := range groups {
			slots := comb.Slots[g.startIdx : g.startIdx+len(g.isotopes)]
			var factor float64
			var err error
			switch g.kind {
			case enumerate.SlotNatAbundance:
				p, f := c.Precursor.Elements[g.element], c.Fragment.Elements[g.element]
				factor, err = naturalAbundanceProbability(cache, table, g.element, g.isotopes, slots, p, f)
			case enumerate.SlotNatAbundanceTracer:
				p, f := tracerN-labeledN, tracerFrag-labeledFrag
				factor, err = naturalAbundanceProbability(cache, table, g.element, g.isotopes, slots, p, f)
			case enumerate.SlotTracer:
				factor = tracerLabelProbability(cache, tracerN, tracerFrag, slots[0])
			case enumerate.SlotPurity:
				if purity == nil {
					return fmt.Errorf("probability: combination has purity slots but no purity table was supplied")
				}
				factor, err = purityProbability(cache, purity, g.isotopes, slots)
			default:
				return fmt.Errorf("probability: unknown slot kind %v", g.kind)
			}
			if err != nil {
				return err
			}
			prob *= factor
		}
		comb.Probability = prob
	}
	return nil
}

// naturalAbundanceProbability applies the multinomial / hypergeometric
// formula to one element's natural-isotope slot group, filling in the
// lightest isotope's implicit count as P/F minus the explicit isotopes'.
func naturalAbundanceProbability(cache *Cache, table *isotope.Table, element string, isotopeNames []string, slots []enumerate.NN, p, f int) (float64, error) {
	lightest, err := table.LightestOf(element)
	if err != nil {
		return 0, fmt.Errorf("probability: %w", err)
	}
	lightestIntensity, err := table.RelativeIntensity(lightest.Name)
	if err != nil {
		return 0, fmt.Errorf("probability: %w", err)
	}

	counts := make([]enumerate.NN, len(isotopeNames)+1)
	probs := make([]float64, len(isotopeNames)+1)
	sumN, sumFrag := 0, 0
	for i, name := range isotopeNames {
		counts[i] = slots[i]
		sumN += slots[i].N
		sumFrag += slots[i].Frag
		intensity, err := table.RelativeIntensity(name)
		if err != nil {
			return 0, fmt.Errorf("probability: %w", err)
		}
		probs[i] = intensity
	}
	counts[len(isotopeNames)] = enumerate.NN{N: p - sumN, Frag: f - sumFrag}
	probs[len(isotopeNames)] = lightestIntensity

	return jointProbability(cache, p, f, counts, probs), nil
}

// tracerLabelProbability handles the deterministic-labeling case. Unlike a
// natural-abundance slot, the tracer's labeled count is not a random
// outcome being marginalized over; it is the column index the matrix is
// being built against, so no multinomial "ways to place the label" factor
// applies, only the hypergeometric probability that exactly `labeled.Frag`
// of the `labeled.N` labeled atoms survive into the fragment:
// C(M,m)*C(P-M,F-m) / C(P,F). With no other slots this makes every
// diagonal entry exactly 1, the identity case for an unlabeled compound.
func tracerLabelProbability(cache *Cache, tracerN, tracerFrag int, labeled enumerate.NN) float64 {
	denom := cache.Binomial(tracerN, tracerFrag)
	if denom == 0 {
		return 0
	}
	numer := cache.Binomial(labeled.N, labeled.Frag) * cache.Binomial(tracerN-labeled.N, tracerFrag-labeled.Frag)
	return numer / denom
}

// purityProbability handles the purity-expanded case: the tracer's M
// labeled positions (and m fragment-surviving labeled positions) are
// redistributed across the tracer element's isotopes,
// weighted by purity fraction rather than natural relative intensity, with
// the sub-population pool being M and m themselves, not the full tracer
// atom budget.
func purityProbability(cache *Cache, purity *isotope.Purity, isotopeNames []string, slots []enumerate.NN) (float64, error) {
	m, f := 0, 0
	for _, s := range slots {
		m += s.N
		f += s.Frag
	}
	probs := make([]float64, len(isotopeNames))
	for i, name := range isotopeNames {
		frac, err := purity.Fraction(name)
		if err != nil {
			return 0, fmt.Errorf("probability: %w", err)
		}
		probs[i] = frac
	}
	return jointProbability(cache, m, f, slots, probs), nil
}

// jointProbability is the shared multinomial / hypergeometric kernel:
//
//	multinomial(P; N_0..N_k) * Π p_i^N_i * Π C(N_i,n_i) / C(P,F)
//
// counts and probs must be parallel and cover every isotope of the slot
// group, including any implicit lightest-isotope entry.
func jointProbability(cache *Cache, p, f int, counts []enumerate.NN, probs []float64) float64 {
	parts := make([]int, len(counts))
	for i, c := range counts {
		parts[i] = c.N
	}
	coeff := cache.Multinomial(p, parts...)
	if coeff == 0 {
		return 0
	}

	natural := 1.0
	numer := 1.0
	for i, c := range counts {
		natural *= math.Pow(probs[i], float64(c.N))
		numer *= cache.Binomial(c.N, c.Frag)
	}

	denom := cache.Binomial(p, f)
	if denom == 0 {
		return 0
	}
	return coeff * natural * numer / denom
}
