// Package isotope provides the natural-isotope lookup table used to price
// every non-tracer atom in an isotope-correction run: per element, the set
// of isotopes, their mass numbers relative to the lightest, and their
// natural relative intensities.
package isotope

import (
	"fmt"
	"strconv"
	"strings"
)

// Isotope is a single named isotope of an element, e.g. "C13".
type Isotope struct {
	Name              string  // element symbol + mass number, e.g. "C13"
	Element           string  // element symbol, e.g. "C"
	MassNumber        int     // absolute mass number, e.g. 13
	MassDelta         int     // MassNumber - lightest isotope's MassNumber of the same element
	RelativeIntensity float64 // natural relative intensity, in [0,1]
}

// ParseName splits an isotope name into its element symbol and mass number.
// Element symbols are one upper-case letter optionally followed by one
// lower-case letter (e.g. "C", "Si"); the remainder must be decimal digits.
func ParseName(name string) (element string, massNumber int, err error) {
	i := 0
	for i < len(name) && (name[i] < '0' || name[i] > '9') {
		i++
	}
	if i == 0 || i > 2 {
		return "", 0, fmt.Errorf("isotope: invalid isotope name %q", name)
	}
	element = name[:i]
	digits := name[i:]
	if digits == "" {
		return "", 0, fmt.Errorf("isotope: isotope name %q has no mass number", name)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, fmt.Errorf("isotope: invalid mass number in %q: %w", name, err)
	}
	if !isElementSymbol(element) {
		return "", 0, fmt.Errorf("isotope: invalid element symbol %q in isotope %q", element, name)
	}
	return element, n, nil
}

// isElementSymbol reports whether s looks like a valid one- or two-letter
// element symbol: upper-case first letter, optional lower-case second.
func isElementSymbol(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	if len(s) == 2 && (s[1] < 'a' || s[1] > 'z') {
		return false
	}
	return true
}

// Name builds a canonical isotope name from an element symbol and a mass
// number, e.g. Name("C", 13) == "C13".
func Name(element string, massNumber int) string {
	var b strings.Builder
	b.WriteString(element)
	b.WriteString(strconv.Itoa(massNumber))
	return b.String()
}
