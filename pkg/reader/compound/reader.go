// Package compound provides a streaming reader for the compound
// description format:
//
//	Compound: Glucose
//	Tracer: C13 C 6
//	Precursor: H 12 O 6
//	Fragment: H 12 O 6
package compound

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/isocorrect/pkg/compound"
)

// Reader provides streaming access to a compound-description file, one
// compound per call to Next, in the donor's Scanner-backed Reader idiom.
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	current *compound.Compound
	err     error

	pending     string
	pendingOK   bool
	pendingLine int
}

// NewReader creates a new compound reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next advances to the next compound. Returns false when no more compounds
// remain or an error was encountered; check Err afterward.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	c, err := r.readCompound()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}
	r.current = c
	return true
}

// Compound returns the most recently parsed compound.
func (r *Reader) Compound() *compound.Compound { return r.current }

// Err returns any error encountered during reading.
func (r *Reader) Err() error { return r.err }

func (r *Reader) nextLine() (string, int, bool) {
	if r.pendingOK {
		r.pendingOK = false
		return r.pending, r.pendingLine, true
	}
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		return line, r.lineNum, true
	}
	return "", 0, false
}

func (r *Reader) pushBack(line string, lineNum int) {
	r.pending = line
	r.pendingLine = lineNum
	r.pendingOK = true
}

func (r *Reader) readCompound() (*compound.Compound, error) {
	line, lineNum, ok := r.nextLine()
	if !ok {
		if err := r.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	name, err := parsePrefixed(line, "Compound:")
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNum, err)
	}

	c := &compound.Compound{
		Name: name,
		Precursor: compound.Side{Elements: map[string]int{}},
		Fragment:  compound.Side{Elements: map[string]int{}},
	}

	sawTracer := false
	fragTracerCount := -1

	for {
		line, lineNum, ok := r.nextLine()
		if !ok {
			break
		}
		if strings.HasPrefix(line, "Compound:") {
			r.pushBack(line, lineNum)
			break
		}

		switch {
		case strings.HasPrefix(line, "Tracer:"):
			body, _ := parsePrefixed(line, "Tracer:")
			isotope, element, count, err := parseTracer(body)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			c.Precursor.Tracer = compoundTracer(isotope, element, count)
			c.Fragment.Tracer = compoundTracer(isotope, element, count)
			sawTracer = true
		case strings.HasPrefix(line, "FragmentTracer:"):
			body, _ := parsePrefixed(line, "FragmentTracer:")
			n, err := strconv.Atoi(strings.TrimSpace(body))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid FragmentTracer count: %w", lineNum, err)
			}
			fragTracerCount = n
		case strings.HasPrefix(line, "Precursor:"):
			body, _ := parsePrefixed(line, "Precursor:")
			elems, err := parseElementCounts(body)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			c.Precursor.Elements = elems
		case strings.HasPrefix(line, "Fragment:"):
			body, _ := parsePrefixed(line, "Fragment:")
			elems, err := parseElementCounts(body)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			c.Fragment.Elements = elems
		default:
			return nil, fmt.Errorf("line %d: unrecognized compound field %q", lineNum, line)
		}
	}

	if !sawTracer {
		return nil, fmt.Errorf("compound %q: missing Tracer: line", c.Name)
	}
	if fragTracerCount >= 0 {
		c.Fragment.Tracer.Count = fragTracerCount
	}

	return c, nil
}

func compoundTracer(isotope, element string, count int) compound.Tracer {
	return compound.Tracer{Isotope: isotope, Element: element, Count: count}
}

func parsePrefixed(line, prefix string) (string, error) {
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("expected %q, got %q", prefix, line)
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), nil
}

func parseTracer(body string) (isotope, element string, count int, err error) {
	fields := strings.Fields(body)
	if len(fields) != 3 {
		return "", "", 0, fmt.Errorf("invalid Tracer line %q, want 'ISOTOPE ELEMENT COUNT'", body)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid tracer count %q: %w", fields[2], err)
	}
	return fields[0], fields[1], n, nil
}

func parseElementCounts(body string) (map[string]int, error) {
	fields := strings.Fields(body)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("invalid element list %q, want pairs of 'Elem count'", body)
	}
	out := make(map[string]int, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid count for element %q: %w", fields[i], err)
		}
		out[fields[i]] = n
	}
	return out, nil
}
