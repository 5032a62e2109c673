package enumerate

// slotGroup is the result of merging one element's (or one tracer-budget
// pool's) per-isotope pair sets into joint records, each covering every
// non-lightest isotope of that element in one fixed slot order.
type slotGroup struct {
	Slots    []NN
	MassN    int
	MassFrag int
	CountN   int // sum of Slots[*].N, tracked only for the conservation filter below
	CountFrag int
}

// crossIsotopeMerge takes the Cartesian product of an element's per-isotope
// pair sets, filtered after every isotope is folded in by the element's own
// (P,F) conservation law and the tracer mass cap. pairSets must be in the
// same order the caller wants preserved in each resulting record's Slots.
func crossIsotopeMerge(pairSets [][]massPair, p, f, capN, capFrag int) []slotGroup {
	records := []slotGroup{{}}
	for _, set := range pairSets {
		next := make([]slotGroup, 0, len(records)*len(set))
		for _, rec := range records {
			for _, pair := range set {
				massN := rec.MassN + pair.MassN
				massFrag := rec.MassFrag + pair.MassFrag
				countN := rec.CountN + pair.N
				countFrag := rec.CountFrag + pair.Frag
				if massN > capN || massFrag > capFrag {
					continue
				}
				if countN > p || countFrag > f || (p-f)+countFrag < countN {
					continue
				}
				slots := make([]NN, len(rec.Slots)+1)
				copy(slots, rec.Slots)
				slots[len(rec.Slots)] = pair.NN
				next = append(next, slotGroup{
					Slots: slots, MassN: massN, MassFrag: massFrag,
					CountN: countN, CountFrag: countFrag,
				})
			}
		}
		records = next
	}
	return records
}

// mergeElements folds one more element's slotGroup set into an existing
// cross-element chain, filtering by the cumulative tracer mass cap only;
// each element's own conservation law was already enforced by
// crossIsotopeMerge.
func mergeElements(existing, factor []slotGroup, capN, capFrag int) []slotGroup {
	out := make([]slotGroup, 0, len(existing)*len(factor))
	for _, e := range existing {
		for _, f := range factor {
			massN := e.MassN + f.MassN
			massFrag := e.MassFrag + f.MassFrag
			if massN > capN || massFrag > capFrag {
				continue
			}
			slots := make([]NN, len(e.Slots)+len(f.Slots))
			copy(slots, e.Slots)
			copy(slots[len(e.Slots):], f.Slots)
			out = append(out, slotGroup{
				Slots: slots, MassN: massN, MassFrag: massFrag,
				// f.CountN/CountFrag carries the nat-abundance-on-tracer
				// slot total through to the tracer merge step; ordinary
				// elements never set it, so it is simply 0 + 0.
				CountN: e.CountN + f.CountN, CountFrag: e.CountFrag + f.CountFrag,
			})
		}
	}
	return out
}

// mergeTracer folds the tracer element's own (M,m) pairs in as the final,
// mandatory slot. When natAbBudget is true, it also
// enforces that the nat-abundance-on-tracer slots (already folded into
// existing via mergeElements, carried in CountN/CountFrag) plus the
// tracer's own labeled count never exceed the tracer atom budget.
func mergeTracer(existing []slotGroup, tracer []NN, delta, tracerN, tracerFrag, capN, capFrag int, natAbBudget bool) []slotGroup {
	out := make([]slotGroup, 0, len(existing)*len(tracer))
	for _, e := range existing {
		for _, t := range tracer {
			massN := e.MassN + delta*t.N
			massFrag := e.MassFrag + delta*t.Frag
			if massN > capN || massFrag > capFrag {
				continue
			}
			if natAbBudget && (e.CountN+t.N > tracerN || e.CountFrag+t.Frag > tracerFrag) {
				continue
			}
			slots := make([]NN, len(e.Slots)+1)
			copy(slots, e.Slots)
			slots[len(e.Slots)] = t
			out = append(out, slotGroup{Slots: slots, MassN: massN, MassFrag: massFrag})
		}
	}
	return out
}
