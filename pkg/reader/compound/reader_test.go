package compound

import (
	"strings"
	"testing"
)

func TestReaderParsesIsotopologue(t *testing.T) {
	src := "Compound: Glucose\nTracer: C13 C 6\nPrecursor: H 12 O 6\nFragment: H 12 O 6\n"
	r := NewReader(strings.NewReader(src))

	if !r.Next() {
		t.Fatalf("Next: false, err=%v", r.Err())
	}
	c := r.Compound()
	if c.Name != "Glucose" {
		t.Errorf("Name = %q, want Glucose", c.Name)
	}
	if c.Precursor.Tracer.Isotope != "C13" || c.Precursor.Tracer.Element != "C" || c.Precursor.Tracer.Count != 6 {
		t.Errorf("Precursor.Tracer = %+v", c.Precursor.Tracer)
	}
	if c.Fragment.Tracer.Count != 6 {
		t.Errorf("Fragment.Tracer.Count = %d, want 6 (inherited)", c.Fragment.Tracer.Count)
	}
	if c.Precursor.Elements["H"] != 12 || c.Precursor.Elements["O"] != 6 {
		t.Errorf("Precursor.Elements = %v", c.Precursor.Elements)
	}

	if r.Next() {
		t.Fatalf("expected only one compound")
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
}

func TestReaderParsesFragmentTracerOverride(t *testing.T) {
	src := "Compound: Fragmented\nTracer: C13 C 5\nFragmentTracer: 3\nPrecursor: H 10 O 5\nFragment: H 6 O 3\n"
	r := NewReader(strings.NewReader(src))

	if !r.Next() {
		t.Fatalf("Next: false, err=%v", r.Err())
	}
	c := r.Compound()
	if c.Precursor.Tracer.Count != 5 {
		t.Errorf("Precursor.Tracer.Count = %d, want 5", c.Precursor.Tracer.Count)
	}
	if c.Fragment.Tracer.Count != 3 {
		t.Errorf("Fragment.Tracer.Count = %d, want 3", c.Fragment.Tracer.Count)
	}
}

func TestReaderReadsMultipleCompounds(t *testing.T) {
	src := "Compound: A\nTracer: C13 C 2\nPrecursor:\nFragment:\n" +
		"Compound: B\nTracer: C13 C 4\nPrecursor: H 4\nFragment: H 4\n"
	r := NewReader(strings.NewReader(src))

	var names []string
	for r.Next() {
		names = append(names, r.Compound().Name)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("names = %v, want [A B]", names)
	}
}

func TestReaderRejectsMissingTracer(t *testing.T) {
	src := "Compound: Broken\nPrecursor: H 2\nFragment: H 2\n"
	r := NewReader(strings.NewReader(src))

	if r.Next() {
		t.Fatalf("expected failure for missing Tracer: line")
	}
	if r.Err() == nil {
		t.Fatalf("expected a non-nil error")
	}
}
