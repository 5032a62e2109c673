// Package measurement provides a streaming reader for the measured
// intensity table format: one line per `(N,n)`
// key (or per `N` for isotopologues, where `n` defaults to `N`), holding
// one or more numeric columns (separate experiments/replicates):
//
//	Glucose:0:0 100.0 98.5
//	Glucose:1:1 0.0 1.2
//	Glucose:6 50.0 49.0
package measurement

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/isocorrect/pkg/measurement"
)

type row struct {
	pair   measurement.Pair
	values []float64
}

// Reader provides streaming access to a measurement-table file, one
// compound's full row set per call to Next.
type Reader struct {
	scanner *bufio.Scanner
	lineNum int

	name string
	rows []row

	err error

	pending     string
	pendingLine int
	pendingOK   bool
}

// NewReader creates a new measurement reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next advances to the next compound's row set.
func (r *Reader) Next() bool {
	r.name, r.rows = "", nil
	if r.err != nil {
		return false
	}

	name, rows, err := r.readGroup()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}
	r.name, r.rows = name, rows
	return true
}

// CompoundName returns the compound name for the current row group.
func (r *Reader) CompoundName() string { return r.name }

// Err returns any error encountered during reading.
func (r *Reader) Err() error { return r.err }

// Columns returns the number of numeric columns (experiments) in the
// current row group.
func (r *Reader) Columns() int {
	if len(r.rows) == 0 {
		return 0
	}
	return len(r.rows[0].values)
}

// Vector builds the measurement.Vector for column col (0-indexed) of the
// current row group.
func (r *Reader) Vector(col int) (*measurement.Vector, error) {
	pairs := make([]measurement.Pair, len(r.rows))
	values := make([]float64, len(r.rows))
	for i, row := range r.rows {
		pairs[i] = row.pair
		if col < len(row.values) {
			values[i] = row.values[col]
		}
	}
	return measurement.NewVectorFromPairs(pairs, values)
}

func (r *Reader) readGroup() (string, []row, error) {
	line, lineNum, ok := r.rawLine()
	if !ok {
		if err := r.scanner.Err(); err != nil {
			return "", nil, err
		}
		return "", nil, io.EOF
	}

	name, pair, values, err := parseRow(line, lineNum)
	if err != nil {
		return "", nil, err
	}
	rows := []row{{pair: pair, values: values}}

	for {
		line, lineNum, ok := r.rawLine()
		if !ok {
			break
		}
		nextName, pair, values, err := parseRow(line, lineNum)
		if err != nil {
			return "", nil, err
		}
		if nextName != name {
			r.pushBack(line, lineNum)
			break
		}
		rows = append(rows, row{pair: pair, values: values})
	}
	return name, rows, nil
}

func parseRow(line string, lineNum int) (name string, pair measurement.Pair, values []float64, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", measurement.Pair{}, nil, fmt.Errorf("line %d: expected a prefix and at least one value, got %q", lineNum, line)
	}

	prefix := strings.Split(fields[0], ":")
	var n, frag int
	switch len(prefix) {
	case 2:
		name = prefix[0]
		n, err = strconv.Atoi(prefix[1])
		frag = n
	case 3:
		name = prefix[0]
		n, err = strconv.Atoi(prefix[1])
		if err == nil {
			frag, err = strconv.Atoi(prefix[2])
		}
	default:
		err = fmt.Errorf("invalid prefix %q, want 'Name:N' or 'Name:N:n'", fields[0])
	}
	if err != nil {
		return "", measurement.Pair{}, nil, fmt.Errorf("line %d: %w", lineNum, err)
	}

	values = make([]float64, len(fields)-1)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", measurement.Pair{}, nil, fmt.Errorf("line %d: invalid value %q: %w", lineNum, f, err)
		}
		values[i] = v
	}

	return name, measurement.Pair{PrecursorOffset: n, FragmentOffset: frag}, values, nil
}

func (r *Reader) rawLine() (string, int, bool) {
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
