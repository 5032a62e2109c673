// Package compound holds the precursor/fragment chemistry description that
// the rest of the isotope-correction core enumerates and prices.
package compound

import (
	"fmt"
	"sort"

	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
)

// Tracer identifies the deliberately-labeled atom species on one side of a
// compound: which isotope is the label, which element it belongs to, and
// how many atoms of that element are present on that side.
type Tracer struct {
	Isotope string // e.g. "C13"
	Element string // e.g. "C"
	Count   int
}

// Side is one half (precursor or fragment) of a compound: its tracer
// budget plus the atom count of every other element present.
type Side struct {
	Tracer   Tracer
	Elements map[string]int // non-tracer element symbol -> atom count
}

// Compound is a precursor/fragment pair as measured in one tandem-MS
// experiment.
type Compound struct {
	Name      string
	Precursor Side
	Fragment  Side
}

// Error reports a malformed compound description; always fatal.
type Error struct {
	Compound string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("compound %q: %s", e.Compound, e.Message)
}

// Validate checks every structural invariant a compound description must
// satisfy: matching tracer species between sides, matching non-tracer
// element sets, precursor counts never below fragment counts, and a
// tracer element with at least two known isotopes (an inert tracer
// element cannot carry a label).
func (c *Compound) Validate(table *isotope.Table) error {
	fail := func(format string, args ...interface{}) error {
		return &Error{Compound: c.Name, Message: fmt.Sprintf(format, args...)}
	}

	if c.Precursor.Tracer.Element != c.Fragment.Tracer.Element {
		return fail("precursor tracer element %q does not match fragment tracer element %q",
			c.Precursor.Tracer.Element, c.Fragment.Tracer.Element)
	}
	if c.Precursor.Tracer.Isotope != c.Fragment.Tracer.Isotope {
		return fail("precursor tracer isotope %q does not match fragment tracer isotope %q",
			c.Precursor.Tracer.Isotope, c.Fragment.Tracer.Isotope)
	}
	if c.Precursor.Tracer.Count < c.Fragment.Tracer.Count {
		return fail("precursor tracer count %d is less than fragment tracer count %d",
			c.Precursor.Tracer.Count, c.Fragment.Tracer.Count)
	}

	if table != nil {
		count, err := table.IsotopeCount(c.Precursor.Tracer.Element)
		if err != nil {
			return fail("tracer element lookup failed: %v", err)
		}
		if count < 2 {
			return fail("tracer element %q has only %d known isotope(s), cannot carry a label",
				c.Precursor.Tracer.Element, count)
		}
	}

	pElems := elementSet(c.Precursor.Elements)
	fElems := elementSet(c.Fragment.Elements)
	if !setsEqual(pElems, fElems) {
		return fail("precursor element set %v does not match fragment element set %v", pElems, fElems)
	}

	for _, el := range pElems {
		p := c.Precursor.Elements[el]
		f := c.Fragment.Elements[el]
		if p < f {
			return fail("element %q: precursor count %d is less than fragment count %d", el, p, f)
		}
	}

	return nil
}

// NonTracerElements returns the sorted list of non-tracer element symbols
// present in the compound.
func (c *Compound) NonTracerElements() []string {
	return elementSet(c.Precursor.Elements)
}

// IsIsotopologue reports whether precursor and fragment share identical
// atom counts for every element, including the tracer (no fragmentation).
func (c *Compound) IsIsotopologue() bool {
	if c.Precursor.Tracer.Count != c.Fragment.Tracer.Count {
		return false
	}
	for el, p := range c.Precursor.Elements {
		if c.Fragment.Elements[el] != p {
			return false
		}
	}
	return true
}

func elementSet(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for el := range m {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

func setsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
