package compound

import (
	"testing"

	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
)

func glucoseIsotopologue() *Compound {
	side := Side{
		Tracer:   Tracer{Isotope: "C13", Element: "C", Count: 6},
		Elements: map[string]int{"H": 12, "O": 6},
	}
	return &Compound{Name: "Glucose", Precursor: side, Fragment: side}
}

func TestValidateAcceptsIsotopologue(t *testing.T) {
	c := glucoseIsotopologue()
	if err := c.Validate(isotope.DefaultTable()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !c.IsIsotopologue() {
		t.Errorf("expected isotopologue")
	}
}

func TestValidateAcceptsFragmentedCompound(t *testing.T) {
	c := &Compound{
		Name:      "Fragmented",
		Precursor: Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 5}, Elements: map[string]int{"H": 10, "O": 5}},
		Fragment:  Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 3}, Elements: map[string]int{"H": 6, "O": 3}},
	}
	if err := c.Validate(isotope.DefaultTable()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.IsIsotopologue() {
		t.Errorf("fragmented compound should not be an isotopologue")
	}
}

func TestValidateRejectsMismatchedElementSets(t *testing.T) {
	c := &Compound{
		Name:      "Bad",
		Precursor: Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 6}, Elements: map[string]int{"H": 12, "O": 6}},
		Fragment:  Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 6}, Elements: map[string]int{"H": 12}},
	}
	if err := c.Validate(isotope.DefaultTable()); err == nil {
		t.Errorf("expected error for mismatched element sets")
	}
}

func TestValidateRejectsPrecursorLessThanFragment(t *testing.T) {
	c := &Compound{
		Name:      "Bad",
		Precursor: Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 3}, Elements: map[string]int{"H": 6}},
		Fragment:  Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 3}, Elements: map[string]int{"H": 10}},
	}
	if err := c.Validate(isotope.DefaultTable()); err == nil {
		t.Errorf("expected error when fragment count exceeds precursor count")
	}
}

func TestValidateRejectsTracerMismatchBetweenSides(t *testing.T) {
	c := &Compound{
		Name:      "Bad",
		Precursor: Side{Tracer: Tracer{Isotope: "C13", Element: "C", Count: 6}, Elements: map[string]int{"H": 12}},
		Fragment:  Side{Tracer: Tracer{Isotope: "N15", Element: "N", Count: 6}, Elements: map[string]int{"H": 12}},
	}
	if err := c.Validate(isotope.DefaultTable()); err == nil {
		t.Errorf("expected error for mismatched tracer species between sides")
	}
}

func TestValidateRejectsInertTracerElement(t *testing.T) {
	c := &Compound{
		Name:      "Bad",
		Precursor: Side{Tracer: Tracer{Isotope: "P31", Element: "P", Count: 2}, Elements: map[string]int{"H": 4}},
		Fragment:  Side{Tracer: Tracer{Isotope: "P31", Element: "P", Count: 2}, Elements: map[string]int{"H": 4}},
	}
	if err := c.Validate(isotope.DefaultTable()); err == nil {
		t.Errorf("expected error: P has only one known isotope, cannot be a tracer")
	}
}

func TestNonTracerElementsSorted(t *testing.T) {
	c := glucoseIsotopologue()
	got := c.NonTracerElements()
	want := []string{"H", "O"}
	if len(got) != len(want) {
		t.Fatalf("NonTracerElements() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NonTracerElements()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
