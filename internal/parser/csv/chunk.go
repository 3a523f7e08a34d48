// Package csv reads a CSV source as a lazy, forward-only sequence of
// fixed-size row batches.
//
// Each row becomes a records.Record keyed by the normalized header. Cells
// matching an NA marker become nil; rows shorter than the header are padded
// with nil; rows longer than the header are a ParseError. Batches hold exactly
// BatchSize rows except the last, which holds whatever remains.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"bizimport/internal/datasource"
	"bizimport/pkg/records"
)

// DefaultNAValues are the cell values treated as missing when
// ChunkOptions.NAValues is nil. The set mirrors pandas' read_csv defaults,
// so files produced for the old import script keep their null semantics.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ChunkOptions configures a ChunkReader.
type ChunkOptions struct {
	// BatchSize is the number of rows per batch; must be > 0.
	BatchSize int

	// Comma is the field delimiter; zero means ','.
	Comma rune

	// NAValues overrides DefaultNAValues. An empty non-nil slice disables NA
	// detection entirely.
	NAValues []string
}

// ValidDelimiter reports whether encoding/csv accepts r as a field delimiter.
func ValidDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// ChunkReader yields batches of records from one CSV source.
type ChunkReader struct {
	path   string
	rc     io.ReadCloser
	cr     *csv.Reader
	header []string
	batch  int
	na     map[string]struct{}

	rows int
	done bool
}

// NewChunkReader opens src and consumes the header row. Open and read
// failures are returned as *FileAccessError, a missing or malformed header as
// *ParseError.
func NewChunkReader(ctx context.Context, src datasource.Source, opts ChunkOptions) (*ChunkReader, error) {
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("csv: batch size must be > 0, got %d", opts.BatchSize)
	}
	if opts.Comma != 0 && !ValidDelimiter(opts.Comma) {
		return nil, fmt.Errorf("csv: invalid delimiter %q", opts.Comma)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &FileAccessError{Path: src.String(), Err: err}
	}
	r, err := newChunkReader(rc, src.String(), opts)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return r, nil
}

func newChunkReader(rc io.ReadCloser, path string, opts ChunkOptions) (*ChunkReader, error) {
	cr := csv.NewReader(rc)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	// Width is checked against the header below so short rows can be padded.
	cr.FieldsPerRecord = -1

	na := opts.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	naSet := make(map[string]struct{}, len(na))
	for _, v := range na {
		naSet[v] = struct{}{}
	}

	r := &ChunkReader{path: path, rc: rc, cr: cr, batch: opts.BatchSize, na: naSet}

	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Line: 1, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, r.classify(err)
	}
	r.header = normalizeHeader(raw)
	return r, nil
}

// Header returns the normalized column names.
func (r *ChunkReader) Header() []string { return r.header }

// Rows returns the number of data rows emitted so far.
func (r *ChunkReader) Rows() int { return r.rows }

// Next returns the next batch, or io.EOF once the source is exhausted. A
// batch is never empty. After any error other than io.EOF the reader must
// not be used again.
func (r *ChunkReader) Next(ctx context.Context) ([]records.Record, error) {
	if r.done {
		return nil, io.EOF
	}

	out := make([]records.Record, 0, r.batch)
	for len(out) < r.batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			r.done = true
			return nil, r.classify(err)
		}
		if len(rec) > len(r.header) {
			r.done = true
			line, _ := r.cr.FieldPos(0)
			return nil, &ParseError{
				Path: r.path,
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", len(r.header), len(rec)),
			}
		}
		out = append(out, r.record(rec))
	}

	if len(out) == 0 {
		return nil, io.EOF
	}
	r.rows += len(out)
	return out, nil
}

// Close releases the underlying source.
func (r *ChunkReader) Close() error { return r.rc.Close() }

func (r *ChunkReader) record(cells []string) records.Record {
	rec := make(records.Record, len(r.header))
	for i, col := range r.header {
		if i >= len(cells) {
			rec[col] = nil
			continue
		}
		if _, isNA := r.na[cells[i]]; isNA {
			rec[col] = nil
			continue
		}
		rec[col] = cells[i]
	}
	return rec
}

// classify maps encoding/csv syntax errors to ParseError and everything else
// (I/O failures while streaming) to FileAccessError.
func (r *ChunkReader) classify(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: r.path, Line: pe.StartLine, Err: pe.Err}
	}
	return &FileAccessError{Path: r.path, Err: err}
}
