// Package measurement holds the measured intensity vector fed into a
// correction run: one value per valid tracer (N,n) mass-offset pair.
package measurement

import (
	"fmt"
	"sort"
)

// Pair is a tracer mass-offset pair: N on the precursor side (M+N), n on
// the fragment side (m+n), counted in units of the tracer isotope's own
// label (not absolute Dalton mass). It is the shared vocabulary between
// the measurement table and the combination enumerator's tracer pair set,
// without either package importing the other.
type Pair struct {
	PrecursorOffset int // N
	FragmentOffset  int // n
}

// row is the concrete entry stored in a Vector.
type row struct {
	Pair
	Value float64
}

// Vector is an ordered measured-intensity table, keyed uniquely by (N,n).
// Order matters: it defines the row order of the correction matrix.
type Vector struct {
	rows []row
	key  map[Pair]int // (N,n) -> index into rows
}

// NewVectorFromPairs builds a Vector from parallel pairs and values,
// convenient for callers (readers, tests) that already hold Pair values.
func NewVectorFromPairs(pairs []Pair, values []float64) (*Vector, error) {
	if len(pairs) != len(values) {
		return nil, fmt.Errorf("measurement: got %d pairs but %d values", len(pairs), len(values))
	}
	v := &Vector{key: make(map[Pair]int, len(pairs))}
	for i, p := range pairs {
		if _, dup := v.key[p]; dup {
			return nil, fmt.Errorf("measurement: duplicate entry for (N=%d, n=%d)", p.PrecursorOffset, p.FragmentOffset)
		}
		v.key[p] = len(v.rows)
		v.rows = append(v.rows, row{Pair: p, Value: values[i]})
	}
	return v, nil
}

// Len returns the number of measured entries.
func (v *Vector) Len() int { return len(v.rows) }

// Offsets returns the (N,n) pair at row i.
func (v *Vector) Offsets(i int) Pair {
	return v.rows[i].Pair
}

// Values returns the measured intensities in row order.
func (v *Vector) Values() []float64 {
	out := make([]float64, len(v.rows))
	for i, r := range v.rows {
		out[i] = r.Value
	}
	return out
}

// IndexOf returns the row index of pair, or -1 if absent.
func (v *Vector) IndexOf(pair Pair) int {
	idx, ok := v.key[pair]
	if !ok {
		return -1
	}
	return idx
}

// ValidateKeys checks that the Vector's (N,n) key set is exactly the given
// set of tracer pairs; a mismatch between the measured entries and the
// compound's valid tracer pairs is fatal.
func (v *Vector) ValidateKeys(pairs []Pair) error {
	want := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		want[p] = true
	}

	if len(want) != len(v.rows) {
		return fmt.Errorf("measurement: vector has %d entries but compound has %d valid tracer (N,n) pairs",
			len(v.rows), len(want))
	}

	for _, r := range v.rows {
		if !want[r.Pair] {
			return fmt.Errorf("measurement: entry (N=%d, n=%d) is not a valid tracer pair for this compound",
				r.PrecursorOffset, r.FragmentOffset)
		}
		delete(want, r.Pair)
	}
	if len(want) != 0 {
		missing := make([]Pair, 0, len(want))
		for p := range want {
			missing = append(missing, p)
		}
		sort.Slice(missing, func(i, j int) bool {
			if missing[i].PrecursorOffset != missing[j].PrecursorOffset {
				return missing[i].PrecursorOffset < missing[j].PrecursorOffset
			}
			return missing[i].FragmentOffset < missing[j].FragmentOffset
		})
		return fmt.Errorf("measurement: vector is missing entries for tracer pairs %v", missing)
	}
	return nil
}
