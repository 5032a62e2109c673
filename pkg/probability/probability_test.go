package probability

import (
	"math"
	"testing"

	"github.com/ChrisMcGann/isocorrect/pkg/compound"
	"github.com/ChrisMcGann/isocorrect/pkg/enumerate"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCacheBinomial(t *testing.T) {
	c := NewCache()
	cases := []struct {
		n, k int
		want float64
	}{
		{5, 0, 1}, {5, 5, 1}, {5, 2, 10}, {4, 2, 6}, {3, 5, 0}, {-1, 0, 0},
	}
	for _, tc := range cases {
		if got := c.Binomial(tc.n, tc.k); got != tc.want {
			t.Errorf("Binomial(%d,%d) = %v, want %v", tc.n, tc.k, got, tc.want)
		}
	}
}

func TestCacheMultinomial(t *testing.T) {
	c := NewCache()
	// 5!/(2!1!2!) = 30
	if got := c.Multinomial(5, 2, 1, 2); got != 30 {
		t.Errorf("Multinomial(5,2,1,2) = %v, want 30", got)
	}
}

func TestAnnotateIsotopologue(t *testing.T) {
	table := isotope.NewTable()
	if err := table.AddElement([]string{"C12", "C13"}, []float64{0.99, 0.01}); err != nil {
		t.Fatalf("AddElement C: %v", err)
	}
	if err := table.AddElement([]string{"H1", "H2"}, []float64{0.9999, 0.0001}); err != nil {
		t.Fatalf("AddElement H: %v", err)
	}

	side := compound.Side{
		Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 1},
		Elements: map[string]int{"H": 1},
	}
	c := &compound.Compound{Name: "test", Precursor: side, Fragment: side}

	res, err := enumerate.Enumerate(c, table, enumerate.Options{})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(res.Combinations) != 3 {
		t.Fatalf("got %d combinations, want 3", len(res.Combinations))
	}

	if err := Annotate(res, c, table, nil, NewCache()); err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	byBucket := map[[2]int]float64{}
	for _, comb := range res.Combinations {
		byBucket[[2]int{comb.MassN, comb.MassFrag}] += comb.Probability
	}

	if !almostEqual(byBucket[[2]int{0, 0}], 0.9999) {
		t.Errorf("bucket (0,0) probability = %v, want ~0.9999", byBucket[[2]int{0, 0}])
	}
	if !almostEqual(byBucket[[2]int{1, 1}], 1.0) {
		t.Errorf("bucket (1,1) probability = %v, want ~1.0", byBucket[[2]int{1, 1}])
	}
}

func TestAnnotatePurityRequiresPurityTable(t *testing.T) {
	table := isotope.NewTable()
	if err := table.AddElement([]string{"C12", "C13"}, []float64{0.99, 0.01}); err != nil {
		t.Fatalf("AddElement C: %v", err)
	}

	side := compound.Side{
		Tracer:   compound.Tracer{Isotope: "C13", Element: "C", Count: 1},
		Elements: map[string]int{},
	}
	c := &compound.Compound{Name: "test", Precursor: side, Fragment: side}

	purity, err := isotope.NewPurity([]string{"C12", "C13"}, []float64{0.95, 0.05})
	if err != nil {
		t.Fatalf("NewPurity: %v", err)
	}

	res, err := enumerate.Enumerate(c, table, enumerate.Options{Purity: purity})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}

	if err := Annotate(res, c, table, nil, NewCache()); err == nil {
		t.Errorf("expected error annotating purity-expanded combinations without a purity table")
	}
	if err := Annotate(res, c, table, purity, NewCache()); err != nil {
		t.Errorf("Annotate with purity table: %v", err)
	}
}
