package correct

import (
	"testing"

	"github.com/ChrisMcGann/isocorrect/pkg/compound"
	"github.com/ChrisMcGann/isocorrect/pkg/enumerate"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
	"github.com/ChrisMcGann/isocorrect/pkg/measurement"
)

func tracerPairsN(n int) []measurement.Pair {
	pairs := make([]measurement.Pair, n+1)
	for i := 0; i <= n; i++ {
		pairs[i] = measurement.Pair{PrecursorOffset: i, FragmentOffset: i}
	}
	return pairs
}

func vectorOf(t *testing.T, values []float64) *measurement.Vector {
	t.Helper()
	v, err := measurement.NewVectorFromPairs(tracerPairsN(len(values)-1), values)
	if err != nil {
		t.Fatalf("NewVectorFromPairs: %v", err)
	}
	return v
}

// TestIdentityCase covers the identity invariant: with no non-tracer
// elements present, the assembled matrix is exactly the identity and the
// corrected vector equals the measured one.
func TestIdentityCase(t *testing.T) {
	table := isotope.NewTable()
	if err := table.AddElement([]string{"C12", "C13"}, []float64{0.9893, 0.0107}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	side := compound.Side{
		Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 3},
		Elements: map[string]int{},
	}
	c := &compound.Compound{Name: "bare-tracer", Precursor: side, Fragment: side}

	b := []float64{5, 7, 11, 13}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	for i, row := range res.Matrix {
		for j, val := range row {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if val != want {
				t.Errorf("Matrix[%d][%d] = %v, want %v", i, j, val, want)
			}
		}
	}
	for i, want := range b {
		if res.Raw[i] != want {
			t.Errorf("Raw[%d] = %v, want %v", i, res.Raw[i], want)
		}
	}
}

func glucoseIsotopologue() *compound.Compound {
	side := compound.Side{
		Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 6},
		Elements: map[string]int{"H": 12, "O": 6},
	}
	return &compound.Compound{Name: "glucose", Precursor: side, Fragment: side}
}

// TestGlucoseZeroLabel verifies that measuring only the unlabeled bucket
// corrects back to the same all-zero-but-b0 vector, since there is no
// lower bucket for natural abundance to have leaked from.
func TestGlucoseZeroLabel(t *testing.T) {
	table := isotope.DefaultTable()
	c := glucoseIsotopologue()
	b := []float64{100, 0, 0, 0, 0, 0, 0}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	if res.Raw[0] != 100 {
		t.Errorf("Raw[0] = %v, want 100", res.Raw[0])
	}
	for i := 1; i < len(res.Raw); i++ {
		if res.Raw[i] != 0 {
			t.Errorf("Raw[%d] = %v, want 0", i, res.Raw[i])
		}
	}
	if !res.IsIsotopologue {
		t.Errorf("expected isotopologue")
	}
	if res.MeanEnrichment != 0 {
		t.Errorf("MeanEnrichment = %v, want 0", res.MeanEnrichment)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

// TestPureLabelSaturation verifies that fully labeled material corrects
// to a vector concentrated entirely at the top bucket, inflated
// slightly above the raw measurement to compensate for the natural
// abundance that would otherwise make pure label look imperfect, with mean
// enrichment of exactly 1.
func TestPureLabelSaturation(t *testing.T) {
	table := isotope.DefaultTable()
	c := glucoseIsotopologue()
	b := []float64{0, 0, 0, 0, 0, 0, 100}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	for i := 0; i < 6; i++ {
		if res.Raw[i] != 0 {
			t.Errorf("Raw[%d] = %v, want 0", i, res.Raw[i])
		}
	}
	if res.Raw[6] < 100 {
		t.Errorf("Raw[6] = %v, want >= 100 (back-corrected for natural-abundance loss)", res.Raw[6])
	}
	if res.MeanEnrichment != 1 {
		t.Errorf("MeanEnrichment = %v, want 1", res.MeanEnrichment)
	}
}

// TestPurityAwareSaturation verifies that an imperfect tracer reagent
// introduces above-diagonal matrix entries (some fully-labeled
// precursor atoms are actually the unlabeled isotope, so they can land in
// a lower mass bucket than the tracer slot alone would predict), and
// correcting a fully-labeled measurement against that matrix must inflate
// x[6] above the raw 100 to compensate for the reagent's own impurity.
func TestPurityAwareSaturation(t *testing.T) {
	table := isotope.DefaultTable()
	c := glucoseIsotopologue()
	purity, err := isotope.NewPurity([]string{"C12", "C13"}, []float64{0.01, 0.99})
	if err != nil {
		t.Fatalf("NewPurity: %v", err)
	}

	b := []float64{0, 0, 0, 0, 0, 0, 100}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{Enumerate: enumerate.Options{Purity: purity}}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	foundAboveDiagonal := false
	for i, row := range res.Matrix {
		for j, val := range row {
			if j > i && val != 0 {
				foundAboveDiagonal = true
			}
		}
	}
	if !foundAboveDiagonal {
		t.Errorf("expected at least one above-diagonal nonzero entry with purity in play")
	}

	if res.Raw[6] <= 100 {
		t.Errorf("Raw[6] = %v, want > 100 (inflated for 1%% reagent impurity)", res.Raw[6])
	}
	if res.MeanEnrichment != 1 {
		t.Errorf("MeanEnrichment = %v, want 1", res.MeanEnrichment)
	}
}

// TestSingleNonTracerElementTwoIsotopes checks a small compound whose only
// non-tracer element (H) has two isotopes, H1 and H2.
func TestSingleNonTracerElementTwoIsotopes(t *testing.T) {
	table := isotope.DefaultTable()
	side := compound.Side{
		Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 2},
		Elements: map[string]int{"H": 2},
	}
	c := &compound.Compound{Name: "small", Precursor: side, Fragment: side}

	b := []float64{1000, 0, 0}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	if res.Raw[0] != 1000 {
		t.Errorf("Raw[0] = %v, want 1000", res.Raw[0])
	}
	if res.Raw[1] != 0 || res.Raw[2] != 0 {
		t.Errorf("Raw = %v, want [1000 0 0]", res.Raw)
	}
}

// TestExpectedValidationWarning verifies that a caller-supplied expected
// vector which disagrees beyond tolerance produces a warning, not a
// fatal error.
func TestExpectedValidationWarning(t *testing.T) {
	table := isotope.DefaultTable()
	c := glucoseIsotopologue()
	b := []float64{100, 0, 0, 0, 0, 0, 0}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{Expected: []float64{102, 0, 0, 0, 0, 0, 0}}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Errorf("expected a validation warning for a 2-unit discrepancy at row 0")
	}
}

// TestMatrixInvariants checks the square-size and positive-diagonal
// invariants hold for a compound with real natural abundance.
func TestMatrixInvariants(t *testing.T) {
	table := isotope.DefaultTable()
	c := glucoseIsotopologue()
	v := vectorOf(t, []float64{100, 0, 0, 0, 0, 0, 0})

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if len(res.Matrix) != 7 {
		t.Fatalf("matrix has %d rows, want 7", len(res.Matrix))
	}
	for i, row := range res.Matrix {
		if len(row) != 7 {
			t.Fatalf("matrix row %d has %d columns, want 7", i, len(row))
		}
		if row[i] <= 0 {
			t.Errorf("Matrix[%d][%d] = %v, want a strictly positive diagonal", i, i, row[i])
		}
	}
}

// TestFragmentedCompoundProducesLowerTriangularMatrix checks that a
// compound whose fragment loses tracer atoms assembles a lower-triangular
// matrix and still corrects to a nonnegative, properly anchored vector.
func TestFragmentedCompoundProducesLowerTriangularMatrix(t *testing.T) {
	table := isotope.DefaultTable()
	c := &compound.Compound{
		Name: "fragmented",
		Precursor: compound.Side{
			Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 5},
			Elements: map[string]int{"H": 10, "O": 5},
		},
		Fragment: compound.Side{
			Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 3},
			Elements: map[string]int{"H": 6, "O": 3},
		},
	}

	var pairs []measurement.Pair
	for n := 0; n <= 3; n++ {
		for nn := n; nn <= 5; nn++ {
			if nn-n > 2 {
				continue
			}
			pairs = append(pairs, measurement.Pair{PrecursorOffset: nn, FragmentOffset: n})
		}
	}
	values := make([]float64, len(pairs))
	for i := range values {
		values[i] = 10
	}
	v, err := measurement.NewVectorFromPairs(pairs, values)
	if err != nil {
		t.Fatalf("NewVectorFromPairs: %v", err)
	}

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if res.IsIsotopologue {
		t.Errorf("fragmented compound should not be treated as an isotopologue")
	}
	for i, row := range res.Matrix {
		for j := i + 1; j < len(row); j++ {
			if row[j] != 0 {
				t.Errorf("Matrix[%d][%d] = %v, want 0 above the diagonal", i, j, row[j])
			}
		}
	}
	for _, x := range res.Raw {
		if x < 0 {
			t.Errorf("Raw contains a negative entry: %v", res.Raw)
		}
	}
	if res.Raw[0] != values[0] {
		t.Errorf("Raw[0] = %v, want anchor to measured b[0] = %v", res.Raw[0], values[0])
	}
}

// TestHighDeltaTracerIsotope exercises a tracer whose own mass delta is
// greater than 1 (O18 is two mass units above O16). The matrix row and
// column lookups must stay in tracer-label units rather than raw Dalton
// mass, or every IndexOf call misses and the solver sees an all-zero
// matrix.
func TestHighDeltaTracerIsotope(t *testing.T) {
	table := isotope.DefaultTable()
	side := compound.Side{
		Tracer:   compound.Tracer{Isotope: "O18", Element: "O", Count: 2},
		Elements: map[string]int{"C": 2},
	}
	c := &compound.Compound{Name: "oxygen-tracer", Precursor: side, Fragment: side}

	b := []float64{100, 0, 0}
	v := vectorOf(t, b)

	res, err := Correct(c, table, v, Options{}, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if res.Raw[0] != 100 {
		t.Errorf("Raw[0] = %v, want 100", res.Raw[0])
	}
	for i, row := range res.Matrix {
		if row[i] <= 0 {
			t.Errorf("Matrix[%d][%d] = %v, want a strictly positive diagonal", i, i, row[i])
		}
	}
}

func TestCorrectRejectsMismatchedMeasurementKeys(t *testing.T) {
	table := isotope.DefaultTable()
	c := glucoseIsotopologue()
	v := vectorOf(t, []float64{100, 0, 0}) // wrong length: glucose needs 7 entries

	if _, err := Correct(c, table, v, Options{}, nil); err == nil {
		t.Errorf("expected error for mismatched measurement key set")
	}
}

