// Package enumerate builds the set of isotope-distribution combinations a
// compound can produce: one slot per non-lightest isotope of each
// non-tracer element, one tracer-label slot, an optional nat-abundance-on-tracer slot
// set, and an optional purity expansion of the tracer slot into per-isotope
// tracer-element slots.
package enumerate

import (
	"fmt"

	"github.com/ChrisMcGann/isocorrect/pkg/compound"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
	"github.com/ChrisMcGann/isocorrect/pkg/measurement"
)

// SlotKind identifies what a Combination slot represents.
type SlotKind int

const (
	// SlotNatAbundance is a non-tracer element's non-lightest isotope.
	SlotNatAbundance SlotKind = iota
	// SlotNatAbundanceTracer is a non-lightest isotope of the tracer
	// element itself, drawn from its unlabeled atom pool.
	SlotNatAbundanceTracer
	// SlotTracer is the deliberate tracer label, before purity expansion.
	SlotTracer
	// SlotPurity is one isotope of the tracer element after purity
	// expansion has replaced the single SlotTracer slot.
	SlotPurity
)

func (k SlotKind) String() string {
	switch k {
	case SlotNatAbundance:
		return "nat-abundance"
	case SlotNatAbundanceTracer:
		return "nat-abundance-tracer"
	case SlotTracer:
		return "tracer"
	case SlotPurity:
		return "purity"
	default:
		return "unknown"
	}
}

// SlotDescriptor names one column of every Combination's Slots, fixed
// across an entire enumeration run.
type SlotDescriptor struct {
	Kind    SlotKind
	Element string
	Isotope string // specific isotope this slot tracks
}

// Combination is one joint isotope-distribution outcome: a value per slot
// plus the cumulative mass offset it produces on each side, which is the
// combination's contribution to the (MassN, MassFrag) measured bucket.
type Combination struct {
	Slots       []NN
	MassN       int
	MassFrag    int
	Probability float64 // filled in by the probability package

	// TracerLabel is the nominal (N,n) tracer-label count this record is
	// priced against for matrix-column purposes: the tracer slot's own
	// value before any purity decomposition. A purity-expanded record's
	// actual isotope realization can land its MassN/MassFrag in a
	// different (usually lower) bucket than this nominal label would
	// predict; that gap is exactly what produces the above-diagonal
	// matrix entries the triangularizing elimination step removes.
	TracerLabel NN
}

// Options configures optional enumeration behavior.
type Options struct {
	// NatAbundanceOnTracer enables the extra slot set modeling natural
	// isotopes landing on the tracer element's own unlabeled atoms.
	NatAbundanceOnTracer bool
	// Purity expands the tracer slot into one slot per tracer-element
	// isotope (including the lightest) instead of a single labeled/
	// unlabeled split. Nil disables the expansion.
	Purity *isotope.Purity
}

// Result is everything the probability and correction stages need: the
// fixed slot layout, every enumerated combination, and the tracer (N,n)
// pairs in matrix row order.
type Result struct {
	Descriptors  []SlotDescriptor
	Combinations []Combination
	TracerPairs  []measurement.Pair
}

// Enumerate builds the combination set for c. c is assumed already
// validated (compound.Compound.Validate).
func Enumerate(c *compound.Compound, table *isotope.Table, opts Options) (*Result, error) {
	tracerElement := c.Precursor.Tracer.Element
	tracerIsotope := c.Precursor.Tracer.Isotope
	tracerN := c.Precursor.Tracer.Count
	tracerFrag := c.Fragment.Tracer.Count

	delta, err := table.MassDelta(tracerIsotope)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	if delta == 0 {
		return nil, fmt.Errorf("enumerate: tracer isotope %q has zero mass delta, cannot be a tracer", tracerIsotope)
	}
	capN := delta * tracerN
	capFrag := delta * tracerFrag

	var descriptors []SlotDescriptor
	chain := []slotGroup{{}}

	for _, el := range c.NonTracerElements() {
		inert, err := table.IsInert(el)
		if err != nil {
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		if inert {
			continue
		}
		isotopes, err := table.NonLightestIsotopes(el)
		if err != nil {
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		p, f := c.Precursor.Elements[el], c.Fragment.Elements[el]
		groups, err := elementSlotGroups(isotopes, p, f, capN, capFrag)
		if err != nil {
			return nil, err
		}
		// An ordinary element's atom counts are already bounded by
		// crossIsotopeMerge; only nat-abundance-on-tracer slots count
		// against the tracer atom budget in mergeTracer.
		for i := range groups {
			groups[i].CountN, groups[i].CountFrag = 0, 0
		}
		for _, iso := range isotopes {
			descriptors = append(descriptors, SlotDescriptor{Kind: SlotNatAbundance, Element: el, Isotope: iso.Name})
		}
		chain = mergeElements(chain, groups, capN, capFrag)
	}

	if opts.NatAbundanceOnTracer {
		isotopes, err := table.NonLightestIsotopes(tracerElement)
		if err != nil {
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		// Generous upper bound: the exact unlabeled-pool size
		// (tracerN - M) depends on the tracer slot's own value, which
		// isn't known until the final merge step below. The exact
		// budget is enforced there via mergeTracer's natAbBudget check.
		groups, err := elementSlotGroups(isotopes, tracerN, tracerFrag, capN, capFrag)
		if err != nil {
			return nil, err
		}
		for _, iso := range isotopes {
			descriptors = append(descriptors, SlotDescriptor{Kind: SlotNatAbundanceTracer, Element: tracerElement, Isotope: iso.Name})
		}
		chain = mergeElements(chain, groups, capN, capFrag)
	}

	tracer := tracerPairs(tracerN, tracerFrag)
	chain = mergeTracer(chain, tracer, delta, tracerN, tracerFrag, capN, capFrag, opts.NatAbundanceOnTracer)
	descriptors = append(descriptors, SlotDescriptor{Kind: SlotTracer, Element: tracerElement, Isotope: tracerIsotope})

	combinations := make([]Combination, len(chain))
	for i, rec := range chain {
		combinations[i] = Combination{
			Slots:       rec.Slots,
			MassN:       rec.MassN,
			MassFrag:    rec.MassFrag,
			TracerLabel: rec.Slots[len(rec.Slots)-1],
		}
	}

	if opts.Purity != nil {
		descriptors, combinations, err = expandPurity(descriptors, combinations, table, tracerElement, tracerIsotope, delta, capN, capFrag)
		if err != nil {
			return nil, err
		}
	}

	pairs := make([]measurement.Pair, len(tracer))
	for i, t := range tracer {
		pairs[i] = measurement.Pair{PrecursorOffset: t.N, FragmentOffset: t.Frag}
	}

	return &Result{Descriptors: descriptors, Combinations: combinations, TracerPairs: pairs}, nil
}

// elementSlotGroups generates and cross-isotope-merges one element's
// non-lightest-isotope pair sets.
func elementSlotGroups(isotopes []isotope.Isotope, p, f, capN, capFrag int) ([]slotGroup, error) {
	sets := make([][]massPair, len(isotopes))
	for i, iso := range isotopes {
		if iso.MassDelta == 0 {
			return nil, fmt.Errorf("enumerate: non-lightest isotope %q has zero mass delta", iso.Name)
		}
		sets[i] = elementPairs(p, f, iso.MassDelta, capN, capFrag)
	}
	return crossIsotopeMerge(sets, p, f, capN, capFrag), nil
}

