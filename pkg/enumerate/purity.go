package enumerate

import (
	"fmt"
	"sort"

	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
)

// expandPurity replaces each combination's trailing SlotTracer value with
// every decomposition of its (N,n) label count across the tracer element's
// isotopes, including the lightest (reagent impurity lands some "labeled"
// atoms on the natural isotope), subject to the same precursor/fragment
// conservation law used for ordinary elements.
func expandPurity(
	descriptors []SlotDescriptor,
	combinations []Combination,
	table *isotope.Table,
	tracerElement, tracerIsotope string,
	tracerDelta, capN, capFrag int,
) ([]SlotDescriptor, []Combination, error) {
	isotopes, err := table.IsotopesOf(tracerElement)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate: %w", err)
	}
	sort.Slice(isotopes, func(i, j int) bool { return isotopes[i].Name < isotopes[j].Name })

	newDescriptors := make([]SlotDescriptor, len(descriptors)-1, len(descriptors)-1+len(isotopes))
	copy(newDescriptors, descriptors[:len(descriptors)-1])
	for _, iso := range isotopes {
		newDescriptors = append(newDescriptors, SlotDescriptor{Kind: SlotPurity, Element: tracerElement, Isotope: iso.Name})
	}

	var out []Combination
	for _, comb := range combinations {
		tracerSlot := comb.Slots[len(comb.Slots)-1]
		base := comb.Slots[:len(comb.Slots)-1]
		baseMassN := comb.MassN - tracerDelta*tracerSlot.N
		baseMassFrag := comb.MassFrag - tracerDelta*tracerSlot.Frag

		for _, decomp := range decomposeTracer(isotopes, tracerSlot.N, tracerSlot.Frag) {
			massN, massFrag := baseMassN, baseMassFrag
			slots := make([]NN, len(base), len(base)+len(decomp))
			copy(slots, base)
			for i, iso := range isotopes {
				massN += iso.MassDelta * decomp[i].N
				massFrag += iso.MassDelta * decomp[i].Frag
				slots = append(slots, decomp[i])
			}
			if massN > capN || massFrag > capFrag {
				continue
			}
			out = append(out, Combination{Slots: slots, MassN: massN, MassFrag: massFrag, TracerLabel: tracerSlot})
		}
	}

	return newDescriptors, out, nil
}

// decomposeTracer enumerates every way to split N labeled precursor atoms
// and n labeled fragment atoms across isotopes (in the given order) such
// that the per-isotope counts sum to N and n respectively, each isotope's
// own fragment draw never exceeds its precursor draw, and the tracer-level
// conservation law (N-n)+n_i >= N_i holds for every isotope.
func decomposeTracer(isotopes []isotope.Isotope, n, frag int) [][]NN {
	var out [][]NN
	current := make([]NN, len(isotopes))

	var recurse func(idx, remainN, remainFrag int)
	recurse = func(idx, remainN, remainFrag int) {
		if idx == len(isotopes)-1 {
			if remainN < 0 || remainFrag < 0 || remainFrag > remainN {
				return
			}
			if (n-frag)+remainFrag < remainN {
				return
			}
			current[idx] = NN{N: remainN, Frag: remainFrag}
			out = append(out, append([]NN(nil), current...))
			return
		}
		for ni := 0; ni <= remainN; ni++ {
			maxFrag := remainFrag
			if ni < maxFrag {
				maxFrag = ni
			}
			for fi := 0; fi <= maxFrag; fi++ {
				if (n-frag)+fi < ni {
					continue
				}
				current[idx] = NN{N: ni, Frag: fi}
				recurse(idx+1, remainN-ni, remainFrag-fi)
			}
		}
	}
	recurse(0, n, frag)
	return out
}
