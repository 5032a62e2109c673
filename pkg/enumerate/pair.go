package enumerate

// NN is a generic (precursor-count, fragment-count) pair attached to one
// enumerator slot: N labeled/heavy atoms on the precursor side, Frag on
// the fragment side, in the same units the slot's isotope is measured in.
type NN struct {
	N    int
	Frag int
}

// massPair is an (N,n) pair together with the mass it contributes on each
// side, i.e. (N*delta, n*delta) for the isotope it was generated from.
type massPair struct {
	NN
	MassN    int
	MassFrag int
}

// elementPairs enumerates every (N,n) pair for one non-lightest isotope of
// an element with precursor count P and fragment count F: n <= N <= P,
// 0 <= n <= F, conservation (P-F)+n >= N, and both sides' mass
// contributions bounded by the tracer mass cap.
func elementPairs(p, f, delta, capN, capFrag int) []massPair {
	var out []massPair
	for n := 0; n <= p; n++ {
		if delta*n > capN {
			break // delta >= 1 for non-lightest isotopes, so mass only grows with n
		}
		maxFrag := f
		if n < maxFrag {
			maxFrag = n
		}
		for frag := 0; frag <= maxFrag; frag++ {
			if (p-f)+frag < n {
				continue
			}
			if delta*frag > capFrag {
				continue
			}
			out = append(out, massPair{NN: NN{N: n, Frag: frag}, MassN: delta * n, MassFrag: delta * frag})
		}
	}
	return out
}

// tracerPairs enumerates the tracer element's own (M,m) pairs:
// 0 <= m <= tracerFrag, 0 <= M <= tracerN, m <= M, and
// (tracerN - tracerFrag) + m >= M. The result is returned in increasing M
// (then m) order, which is what makes the assembled correction matrix
// lower-triangular when no tracer-purity expansion is in play.
func tracerPairs(tracerN, tracerFrag int) []NN {
	var out []NN
	for m := 0; m <= tracerN; m++ {
		maxFrag := tracerFrag
		if m < maxFrag {
			maxFrag = m
		}
		for frag := 0; frag <= maxFrag; frag++ {
			if (tracerN-tracerFrag)+frag < m {
				continue
			}
			out = append(out, NN{N: m, Frag: frag})
		}
	}
	return out
}
