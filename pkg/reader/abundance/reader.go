// Package abundance provides streaming readers for the natural-abundance
// and purity table formats: one line per element (or, for purity, a
// single line), a whitespace-separated list of
// isotope names, a colon, then a whitespace-separated list of intensities
// or purity fractions in the same order, lightest isotope first:
//
//	C12 C13 : 0.9893 0.0107
//	H1 H2 : 0.999885 0.000115
package abundance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
)

// ParseTable reads a complete natural-abundance table and builds an
// isotope.Table from it.
func ParseTable(r io.Reader) (*isotope.Table, error) {
	table := isotope.NewTable()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		names, values, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := table.AddElement(names, values); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParsePurity reads a single-line purity table and builds an
// isotope.Purity from it.
func ParsePurity(r io.Reader) (*isotope.Purity, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names, values, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		purity, err := isotope.NewPurity(names, values)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		return purity, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("abundance: purity table is empty")
}

func parseLine(line string) ([]string, []float64, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("expected 'names : values', got %q", line)
	}

	names := strings.Fields(parts[0])
	valueFields := strings.Fields(parts[1])
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no isotope names before ':' in %q", line)
	}
	if len(names) != len(valueFields) {
		return nil, nil, fmt.Errorf("got %d isotope names but %d values in %q", len(names), len(valueFields), line)
	}

	values := make([]float64, len(valueFields))
	for i, f := range valueFields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid value %q: %w", f, err)
		}
		values[i] = v
	}
	return names, values, nil
}
