package config

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the
// config, e.g. "storage.supabase.url".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// KnownStorageKinds lists the sinks compiled into the binary.
var KnownStorageKinds = []string{"supabase", "postgres", "sqlite", "mysql", "mssql"}

// ValidatePipeline performs static checks over p. It never mutates p.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, msg string) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: msg})
	}

	if strings.TrimSpace(p.Job) == "" {
		add(SeverityWarning, "job", "job is empty; metrics will use a default label")
	}
	if strings.TrimSpace(p.Source.Path) == "" {
		add(SeverityError, "source.path", "source path must not be empty")
	}
	if n := len([]rune(p.Source.Comma)); n > 1 {
		add(SeverityWarning, "source.comma", fmt.Sprintf("delimiter has %d characters; only the first is used", n))
	}
	if r := p.Source.CommaRune(); !validDelimiter(r) {
		add(SeverityError, "source.comma", fmt.Sprintf("invalid delimiter %q", r))
	}
	if p.Source.Timeout < 0 {
		add(SeverityError, "source.timeout", "timeout must not be negative")
	}

	if p.Runtime.BatchSize <= 0 {
		add(SeverityError, "runtime.batch_size", "batch_size must be > 0")
	}
	if p.Runtime.Delay < 0 {
		add(SeverityError, "runtime.delay", "delay must not be negative")
	}

	if strings.TrimSpace(p.Storage.Table) == "" {
		add(SeverityError, "storage.table", "table must not be empty")
	}

	switch p.Storage.Kind {
	case "supabase":
		issues = append(issues, validateSupabase(p.Storage.Supabase)...)
		if p.Storage.DB.AutoCreateTable {
			add(SeverityWarning, "storage.db.auto_create_table", "ignored for supabase; create the table in the dashboard")
		}
	case "postgres", "sqlite", "mysql", "mssql":
		if strings.TrimSpace(p.Storage.DB.DSN) == "" {
			add(SeverityError, "storage.db.dsn", fmt.Sprintf("%s storage requires a DSN", p.Storage.Kind))
		}
	case "":
		add(SeverityError, "storage.kind", "storage.kind must not be empty")
	default:
		add(SeverityError, "storage.kind", fmt.Sprintf("unknown storage kind %q (known: %s)",
			p.Storage.Kind, strings.Join(KnownStorageKinds, ", ")))
	}

	switch p.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if p.Metrics.PushgatewayURL == "" {
			add(SeverityWarning, "metrics.pushgateway_url", "empty; http://localhost:9091 will be used")
		}
	case "datadog":
		if p.Metrics.DatadogAddr == "" {
			add(SeverityWarning, "metrics.datadog_addr", "empty; 127.0.0.1:8125 will be used")
		}
	default:
		add(SeverityError, "metrics.backend", fmt.Sprintf("unknown metrics backend %q (known: none, pushgateway, datadog)", p.Metrics.Backend))
	}

	return issues
}

func validateSupabase(s Supabase) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.URL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.supabase.url",
			Message:  "missing; set " + EnvSupabaseURL + " in the env file",
		})
	} else if u, err := url.Parse(s.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.supabase.url",
			Message:  fmt.Sprintf("invalid URL %q", s.URL),
		})
	}
	if strings.TrimSpace(s.APIKey) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.supabase.api_key",
			Message:  "missing; set " + EnvSupabaseKey + " in the env file",
		})
	}
	if s.MaxRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.supabase.max_retries",
			Message:  "max_retries must not be negative",
		})
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validDelimiter mirrors the delimiter check in encoding/csv.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
