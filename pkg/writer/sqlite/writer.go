// Package sqlite writes correction results to a SQLite database, mirroring
// the donor's typed-column, prepared-statement, blob-encoded-vector style.
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ChrisMcGann/isocorrect/pkg/correct"
	_ "github.com/mattn/go-sqlite3"
)

const headerDateFormat = "2006-01-02"

// Writer handles writing correction results to a SQLite database file.
type Writer struct {
	db             *sql.DB
	compoundStmt   *sql.Stmt
	correctionStmt *sql.Stmt
	compoundID     int
	correctionID   int
}

// NewWriter creates a new SQLite writer at outputPath, creating the schema
// if it does not already exist.
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	w := &Writer{db: db, compoundID: 1, correctionID: 1}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS CompoundTable (
		CompoundId INTEGER PRIMARY KEY,
		Name TEXT,
		TracerElement TEXT,
		TracerIsotope TEXT,
		PrecursorTracerCount INTEGER,
		FragmentTracerCount INTEGER,
		IsIsotopologue BOOL
	);

	CREATE TABLE IF NOT EXISTS CorrectionTable (
		CorrectionId INTEGER PRIMARY KEY,
		CompoundId INTEGER REFERENCES CompoundTable(CompoundId),
		Experiment INTEGER,
		MeanEnrichment DOUBLE,
		blobRaw BLOB,
		blobNormalized BLOB,
		Warnings TEXT,
		CreationDate TEXT
	);
	`
	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: failed to create tables: %w", err)
	}
	return nil
}

func (w *Writer) prepareStatements() error {
	var err error
	w.compoundStmt, err = w.db.Prepare(`
		INSERT INTO CompoundTable (
			CompoundId, Name, TracerElement, TracerIsotope,
			PrecursorTracerCount, FragmentTracerCount, IsIsotopologue
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: failed to prepare compound statement: %w", err)
	}

	w.correctionStmt, err = w.db.Prepare(`
		INSERT INTO CorrectionTable (
			CorrectionId, CompoundId, Experiment, MeanEnrichment,
			blobRaw, blobNormalized, Warnings, CreationDate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: failed to prepare correction statement: %w", err)
	}
	return nil
}

// CompoundMeta is the subset of compound.Compound fields the sink needs,
// kept separate so this package does not import pkg/compound for the sole
// purpose of a handful of scalar fields.
type CompoundMeta struct {
	Name                 string
	TracerElement        string
	TracerIsotope        string
	PrecursorTracerCount int
	FragmentTracerCount  int
}

// WriteCompound registers one compound and returns the database id used to
// associate subsequent WriteResult calls with it.
func (w *Writer) WriteCompound(meta CompoundMeta, isIsotopologue bool) (int, error) {
	id := w.compoundID
	_, err := w.compoundStmt.Exec(
		id, meta.Name, meta.TracerElement, meta.TracerIsotope,
		meta.PrecursorTracerCount, meta.FragmentTracerCount, isIsotopologue,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to insert compound %q: %w", meta.Name, err)
	}
	w.compoundID++
	return id, nil
}

// WriteResult writes one experiment column's correction result for the
// compound previously registered with WriteCompound under compoundID.
func (w *Writer) WriteResult(compoundID, experiment int, res *correct.Result) error {
	warnings := make([]string, len(res.Warnings))
	for i, wn := range res.Warnings {
		warnings[i] = wn.Message
	}

	_, err := w.correctionStmt.Exec(
		w.correctionID,
		compoundID,
		experiment,
		res.MeanEnrichment,
		encodeFloat64s(res.Raw),
		encodeFloat64s(res.Normalized),
		strings.Join(warnings, "; "),
		time.Now().Format(headerDateFormat),
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to insert correction result: %w", err)
	}
	w.correctionID++
	return nil
}

func encodeFloat64s(values []float64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// Close closes prepared statements and the database connection.
func (w *Writer) Close() error {
	if w.compoundStmt != nil {
		w.compoundStmt.Close()
	}
	if w.correctionStmt != nil {
		w.correctionStmt.Close()
	}
	return w.db.Close()
}
