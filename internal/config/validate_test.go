package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidatePipeline(t *testing.T) {
	t.Parallel()

	valid := Default()
	valid.Storage.Supabase.URL = "https://xyz.supabase.co"
	valid.Storage.Supabase.APIKey = "key"

	tests := []struct {
		name     string
		mutate   func(p *Pipeline)
		wantPath string
		wantErr  bool
	}{
		{name: "valid supabase", mutate: func(p *Pipeline) {}},
		{
			name:     "missing url",
			mutate:   func(p *Pipeline) { p.Storage.Supabase.URL = "" },
			wantPath: "storage.supabase.url",
			wantErr:  true,
		},
		{
			name:     "relative url",
			mutate:   func(p *Pipeline) { p.Storage.Supabase.URL = "xyz.supabase.co" },
			wantPath: "storage.supabase.url",
			wantErr:  true,
		},
		{
			name:     "missing key",
			mutate:   func(p *Pipeline) { p.Storage.Supabase.APIKey = " " },
			wantPath: "storage.supabase.api_key",
			wantErr:  true,
		},
		{
			name:     "zero batch size",
			mutate:   func(p *Pipeline) { p.Runtime.BatchSize = 0 },
			wantPath: "runtime.batch_size",
			wantErr:  true,
		},
		{
			name:     "negative delay",
			mutate:   func(p *Pipeline) { p.Runtime.Delay = -1 },
			wantPath: "runtime.delay",
			wantErr:  true,
		},
		{
			name:     "sql sink without dsn",
			mutate:   func(p *Pipeline) { p.Storage.Kind = "postgres" },
			wantPath: "storage.db.dsn",
			wantErr:  true,
		},
		{
			name:     "unknown kind",
			mutate:   func(p *Pipeline) { p.Storage.Kind = "oracle" },
			wantPath: "storage.kind",
			wantErr:  true,
		},
		{
			name:     "quote delimiter",
			mutate:   func(p *Pipeline) { p.Source.Comma = `"` },
			wantPath: "source.comma",
			wantErr:  true,
		},
		{
			name:     "newline delimiter",
			mutate:   func(p *Pipeline) { p.Source.Comma = "\n" },
			wantPath: "source.comma",
			wantErr:  true,
		},
		{
			name:     "negative source timeout",
			mutate:   func(p *Pipeline) { p.Source.Timeout = Duration(-time.Second) },
			wantPath: "source.timeout",
			wantErr:  true,
		},
		{
			name:     "unknown metrics backend",
			mutate:   func(p *Pipeline) { p.Metrics.Backend = "statsd" },
			wantPath: "metrics.backend",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tc.mutate(&p)
			issues := ValidatePipeline(p)

			if got := HasErrors(issues); got != tc.wantErr {
				t.Fatalf("HasErrors = %v, want %v (issues=%v)", got, tc.wantErr, issues)
			}
			if tc.wantPath == "" {
				if len(issues) != 0 {
					t.Fatalf("expected no issues, got %v", issues)
				}
				return
			}
			found := false
			for _, iss := range issues {
				if iss.Path == tc.wantPath {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue at %s, got %v", tc.wantPath, issues)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "source.path", Message: "empty"}
	if !strings.Contains(iss.Error(), "source.path") {
		t.Fatalf("Error() = %q", iss.Error())
	}
}
