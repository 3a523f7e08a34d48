package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"bizimport/internal/datasource/file"
	"bizimport/internal/loader"
	"bizimport/internal/parser/csv"
	"bizimport/internal/pipeline"
	"bizimport/internal/transformer"
)

// discardRepo accepts every batch without I/O so the benchmark measures
// reading, transforming and row building only.
type discardRepo struct{}

func (discardRepo) CopyFrom(_ context.Context, _ []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (discardRepo) Exec(context.Context, string) error { return nil }
func (discardRepo) Close()                             {}

func writeRows(b *testing.B, n int) string {
	b.Helper()
	var sb strings.Builder
	sb.WriteString("id,retailer_name,location,city,state,phone,website\n")
	for i := 0; i < n; i++ {
		// Every tenth row has an empty address to exercise the null path.
		loc := fmt.Sprintf("%d Elm St", i)
		if i%10 == 0 {
			loc = ""
		}
		fmt.Fprintf(&sb, "%d,Café %d,%s,Zürich,ZH,555-%04d,https://example.com/%d\n", i, i, loc, i%10000, i)
	}
	path := filepath.Join(b.TempDir(), "business_info_rows.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		b.Fatalf("write csv: %v", err)
	}
	return path
}

// BenchmarkImport runs the full read → transform → load loop over a 20k-row
// file with no inter-batch delay.
//
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkImport$ -cpuprofile cpu.out -memprofile mem.out -count=1 ./internal/bench
func BenchmarkImport(b *testing.B) {
	const rows = 20000
	path := writeRows(b, rows)
	ctx := context.Background()
	ld := loader.New(discardRepo{}, loader.Options{Logger: zerolog.Nop()})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := csv.NewChunkReader(ctx, file.NewLocal(path), csv.ChunkOptions{BatchSize: 1000})
		if err != nil {
			b.Fatalf("NewChunkReader: %v", err)
		}
		sum, err := pipeline.Run(ctx, pipeline.Config{Logger: zerolog.Nop()}, cr, transformer.Business{}, ld)
		cr.Close()
		if err != nil {
			b.Fatalf("Run: %v", err)
		}
		if sum.Inserted != rows {
			b.Fatalf("Inserted = %d, want %d", sum.Inserted, rows)
		}
	}
}

// BenchmarkTransform isolates the row transformer on a single 1000-row batch.
func BenchmarkTransform(b *testing.B) {
	path := writeRows(b, 1000)
	ctx := context.Background()
	cr, err := csv.NewChunkReader(ctx, file.NewLocal(path), csv.ChunkOptions{BatchSize: 1000})
	if err != nil {
		b.Fatalf("NewChunkReader: %v", err)
	}
	batch, err := cr.Next(ctx)
	cr.Close()
	if err != nil {
		b.Fatalf("Next: %v", err)
	}

	tr := transformer.Business{NewID: func() string { return "id" }}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Apply(batch); err != nil {
			b.Fatalf("Apply: %v", err)
		}
	}
}
