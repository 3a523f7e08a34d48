package csv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"bizimport/internal/datasource/file"
	"bizimport/pkg/records"
)

type fakeRC struct {
	*bytes.Reader
	closed bool
}

func newFakeRC(s string) *fakeRC { return &fakeRC{Reader: bytes.NewReader([]byte(s))} }
func (f *fakeRC) Close() error   { f.closed = true; return nil }

// makeRows builds a CSV body with the four required columns and n data rows.
func makeRows(n int) string {
	var b strings.Builder
	b.WriteString("retailer_name,location,city,state\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Shop %d,%d Main St,Springfield,IL\n", i, i)
	}
	return b.String()
}

func drain(t *testing.T, r *ChunkReader) [][]records.Record {
	t.Helper()
	var batches [][]records.Record
	for {
		b, err := r.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return batches
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		batches = append(batches, b)
	}
}

// TestChunkReader_BatchSizes checks that R rows with batch size N yield
// ceil(R/N) batches, all of size N except possibly the last.
func TestChunkReader_BatchSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rows, batch int
		want        []int
	}{
		{rows: 0, batch: 3, want: nil},
		{rows: 3, batch: 1000, want: []int{3}},
		{rows: 6, batch: 3, want: []int{3, 3}},
		{rows: 7, batch: 3, want: []int{3, 3, 1}},
		{rows: 2500, batch: 1000, want: []int{1000, 1000, 500}},
		{rows: 5, batch: 1, want: []int{1, 1, 1, 1, 1}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(fmt.Sprintf("R=%d/N=%d", tc.rows, tc.batch), func(t *testing.T) {
			t.Parallel()

			r, err := newChunkReader(newFakeRC(makeRows(tc.rows)), "mem", ChunkOptions{BatchSize: tc.batch})
			if err != nil {
				t.Fatalf("newChunkReader: %v", err)
			}
			batches := drain(t, r)

			if len(batches) != len(tc.want) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tc.want))
			}
			for i, b := range batches {
				if len(b) != tc.want[i] {
					t.Errorf("batch %d has %d rows, want %d", i, len(b), tc.want[i])
				}
			}
			if r.Rows() != tc.rows {
				t.Errorf("Rows() = %d, want %d", r.Rows(), tc.rows)
			}
			// Exhausted readers keep returning EOF.
			if _, err := r.Next(context.Background()); !errors.Is(err, io.EOF) {
				t.Errorf("Next after EOF = %v, want io.EOF", err)
			}
		})
	}
}

func TestChunkReader_PreservesRowOrder(t *testing.T) {
	t.Parallel()

	r, err := newChunkReader(newFakeRC(makeRows(5)), "mem", ChunkOptions{BatchSize: 2})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	i := 0
	for _, b := range drain(t, r) {
		for _, rec := range b {
			if want := fmt.Sprintf("Shop %d", i); rec["retailer_name"] != want {
				t.Fatalf("row %d retailer_name = %v, want %q", i, rec["retailer_name"], want)
			}
			i++
		}
	}
}

func TestChunkReader_NAValuesBecomeNil(t *testing.T) {
	t.Parallel()

	body := "retailer_name,location,city,state\n" +
		"Acme,,nan,NA\n" +
		"Beta,1 Road,NULL,\n" +
		"n/a shop,2 Road,Boston,MA\n"
	r, err := newChunkReader(newFakeRC(body), "mem", ChunkOptions{BatchSize: 10})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	rows := drain(t, r)[0]

	if rows[0]["location"] != nil || rows[0]["city"] != nil || rows[0]["state"] != nil {
		t.Fatalf("row 0 NA cells not nil: %#v", rows[0])
	}
	if rows[1]["city"] != nil || rows[1]["state"] != nil {
		t.Fatalf("row 1 NA cells not nil: %#v", rows[1])
	}
	// Only whole-cell matches are NA.
	if rows[2]["retailer_name"] != "n/a shop" {
		t.Fatalf("partial NA match altered value: %#v", rows[2])
	}
	for _, rec := range rows {
		for col, v := range rec {
			if s, ok := v.(string); ok && strings.EqualFold(s, "nan") {
				t.Fatalf("column %s leaked literal %q", col, s)
			}
		}
	}
}

func TestChunkReader_CustomNAValues(t *testing.T) {
	t.Parallel()

	body := "retailer_name,location,city,state\nAcme,-,nan,IL\n"
	r, err := newChunkReader(newFakeRC(body), "mem", ChunkOptions{BatchSize: 10, NAValues: []string{"-"}})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	rec := drain(t, r)[0][0]
	if rec["location"] != nil {
		t.Fatalf("custom NA marker not applied: %#v", rec)
	}
	if rec["city"] != "nan" {
		t.Fatalf("default markers should be replaced by custom set: %#v", rec)
	}
}

func TestChunkReader_ShortRowsPadded(t *testing.T) {
	t.Parallel()

	body := "retailer_name,location,city,state\nAcme,1 Road\n"
	r, err := newChunkReader(newFakeRC(body), "mem", ChunkOptions{BatchSize: 10})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	rec := drain(t, r)[0][0]
	if !rec.Has("city") || rec["city"] != nil || !rec.Has("state") || rec["state"] != nil {
		t.Fatalf("short row not padded with nil: %#v", rec)
	}
}

func TestChunkReader_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantLine int
	}{
		{
			name:     "too many fields",
			body:     "retailer_name,location,city,state\nA,B,C,D\nA,B,C,D,E\n",
			wantLine: 3,
		},
		{
			name:     "bare quote",
			body:     "retailer_name,location,city,state\nA,\"B,C,D\n",
			wantLine: 2,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, err := newChunkReader(newFakeRC(tc.body), "mem", ChunkOptions{BatchSize: 10})
			if err != nil {
				t.Fatalf("newChunkReader: %v", err)
			}
			_, err = r.Next(context.Background())
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Line != tc.wantLine {
				t.Fatalf("line = %d, want %d", pe.Line, tc.wantLine)
			}
			if _, err := r.Next(context.Background()); !errors.Is(err, io.EOF) {
				t.Fatalf("reader should be finished after a parse error, got %v", err)
			}
		})
	}
}

// TestChunkReader_ParseErrorMidStream verifies earlier batches are delivered
// before the failing one.
func TestChunkReader_ParseErrorMidStream(t *testing.T) {
	t.Parallel()

	body := makeRows(4) + "x,y,z,w,extra\n"
	r, err := newChunkReader(newFakeRC(body), "mem", ChunkOptions{BatchSize: 2})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	for i := 0; i < 2; i++ {
		if b, err := r.Next(context.Background()); err != nil || len(b) != 2 {
			t.Fatalf("batch %d: len=%d err=%v", i, len(b), err)
		}
	}
	var pe *ParseError
	if _, err := r.Next(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("third Next err = %v, want *ParseError", err)
	}
}

func TestChunkReader_EmptySource(t *testing.T) {
	t.Parallel()

	_, err := newChunkReader(newFakeRC(""), "mem", ChunkOptions{BatchSize: 1})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

func TestChunkReader_HeaderNormalization(t *testing.T) {
	t.Parallel()

	// BOM, padding, a decomposed "é" (e + U+0301) and a duplicate column.
	body := "\uFEFF retailer_name ,location,cafe\u0301,city,state,city\nA,B,C,D,E,F\n"
	r, err := newChunkReader(newFakeRC(body), "mem", ChunkOptions{BatchSize: 1})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	want := []string{"retailer_name", "location", "caf\u00e9", "city", "state", "city.1"}
	got := r.Header()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Header() = %q, want %q", got, want)
	}
	rec := drain(t, r)[0][0]
	if rec["city"] != "D" || rec["city.1"] != "F" {
		t.Fatalf("duplicate column values misplaced: %#v", rec)
	}
}

func TestChunkReader_Delimiter(t *testing.T) {
	t.Parallel()

	body := "retailer_name;location;city;state\nAcme;1, Road;X;Y\n"
	r, err := newChunkReader(newFakeRC(body), "mem", ChunkOptions{BatchSize: 5, Comma: ';'})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	if got := drain(t, r)[0][0]["location"]; got != "1, Road" {
		t.Fatalf("location = %v", got)
	}
}

func TestNewChunkReader_FileAccessError(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "business_info_rows (2).csv")
	_, err := NewChunkReader(context.Background(), file.NewLocal(missing), ChunkOptions{BatchSize: 10})

	var fe *FileAccessError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FileAccessError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("errors.Is(err, os.ErrNotExist) = false for %v", err)
	}
}

func TestNewChunkReader_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, []byte(makeRows(3)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := NewChunkReader(context.Background(), file.NewLocal(path), ChunkOptions{BatchSize: 1000})
	if err != nil {
		t.Fatalf("NewChunkReader: %v", err)
	}
	defer r.Close()

	batches := drain(t, r)
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("got %d batches, want one batch of 3", len(batches))
	}
}

func TestNewChunkReader_InvalidBatchSize(t *testing.T) {
	t.Parallel()

	if _, err := NewChunkReader(context.Background(), file.NewLocal("x.csv"), ChunkOptions{}); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func TestNewChunkReader_InvalidDelimiter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, comma := range []rune{'"', '\n', '\r', utf8.RuneError} {
		_, err := NewChunkReader(context.Background(), file.NewLocal(path), ChunkOptions{BatchSize: 10, Comma: comma})
		if err == nil || !strings.Contains(err.Error(), "invalid delimiter") {
			t.Fatalf("Comma %q: err = %v, want invalid delimiter", comma, err)
		}
		var fae *FileAccessError
		if errors.As(err, &fae) {
			t.Fatalf("Comma %q reported as file access error: %v", comma, err)
		}
	}
}

func TestChunkReader_CloseForwards(t *testing.T) {
	t.Parallel()

	rc := newFakeRC(makeRows(1))
	r, err := newChunkReader(rc, "mem", ChunkOptions{BatchSize: 1})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	if err := r.Close(); err != nil || !rc.closed {
		t.Fatalf("Close did not reach the source (err=%v closed=%v)", err, rc.closed)
	}
}

func TestChunkReader_CanceledContext(t *testing.T) {
	t.Parallel()

	r, err := newChunkReader(newFakeRC(makeRows(3)), "mem", ChunkOptions{BatchSize: 2})
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
