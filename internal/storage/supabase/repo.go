// Package supabase inserts business records through a Supabase project's
// PostgREST endpoint (POST /rest/v1/<table>), the same route the hosted
// client library uses.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bizimport/internal/datasource/httpds"
)

// ErrExecUnsupported is returned by Exec: the REST surface cannot run SQL.
var ErrExecUnsupported = errors.New("supabase: raw SQL is not available over the REST API")

// Config holds the REST endpoint settings.
type Config struct {
	BaseURL string // project URL, e.g. https://xyz.supabase.co
	APIKey  string // anon or service-role key
	Table   string

	// Schema is sent as Content-Profile/Accept-Profile when set and not "public".
	Schema string

	Timeout    time.Duration
	MaxRetries int

	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

// Repository is a storage.Repository over PostgREST.
type Repository struct {
	client   *httpds.Client
	endpoint string
	table    string
	schema   string
}

// NewRepository validates cfg and builds the HTTP client. No request is made
// until the first insert.
func NewRepository(cfg Config) (*Repository, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("supabase: invalid project URL %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("supabase: API key must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("supabase: table must not be empty")
	}

	headers := http.Header{}
	headers.Set("apikey", cfg.APIKey)
	headers.Set("Authorization", "Bearer "+cfg.APIKey)
	headers.Set("Accept", "application/json")

	client := httpds.NewClient(httpds.Config{
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		BaseHeaders: headers,
		Transport:   cfg.Transport,
	})

	schema := cfg.Schema
	if schema == "public" {
		schema = ""
	}
	return &Repository{
		client:   client,
		endpoint: strings.TrimRight(base.String(), "/") + "/rest/v1/" + url.PathEscape(cfg.Table),
		table:    cfg.Table,
		schema:   schema,
	}, nil
}

// CopyFrom posts rows as one JSON array of objects keyed by columns. PostgREST
// runs the insert in a single statement, so the batch lands or fails as a
// whole.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	body, err := encodeRows(columns, rows)
	if err != nil {
		return 0, err
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Prefer", "return=minimal")
	if r.schema != "" {
		h.Set("Content-Profile", r.schema)
	}

	resp, err := r.client.Post(ctx, r.endpoint, body, h)
	if err != nil {
		return 0, fmt.Errorf("supabase: insert into %s: %w", r.table, err)
	}
	if err := httpds.CheckStatus(resp); err != nil {
		return 0, apiError("insert into "+r.table, err)
	}
	resp.Body.Close()
	return int64(len(rows)), nil
}

func encodeRows(columns []string, rows [][]any) ([]byte, error) {
	objs := make([]map[string]any, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("supabase: row %d: length %d != columns length %d", i, len(row), len(columns))
		}
		obj := make(map[string]any, len(columns))
		for j, c := range columns {
			obj[c] = row[j]
		}
		objs[i] = obj
	}
	b, err := json.Marshal(objs)
	if err != nil {
		return nil, fmt.Errorf("supabase: encode batch: %w", err)
	}
	return b, nil
}

// Count issues the exact-count HEAD request and reads the total from
// Content-Range.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	h := http.Header{}
	h.Set("Prefer", "count=exact")
	if r.schema != "" {
		h.Set("Accept-Profile", r.schema)
	}

	resp, err := r.client.Head(ctx, r.endpoint+"?select=*", h)
	if err != nil {
		return 0, fmt.Errorf("supabase: count %s: %w", r.table, err)
	}
	if err := httpds.CheckStatus(resp); err != nil {
		return 0, apiError("count "+r.table, err)
	}
	resp.Body.Close()
	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange extracts the total from "0-24/3573" or "*/0".
func parseContentRange(v string) (int64, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 || i == len(v)-1 {
		return 0, fmt.Errorf("supabase: malformed Content-Range %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("supabase: Content-Range %q has no exact count", v)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("supabase: malformed Content-Range %q: %w", v, err)
	}
	return n, nil
}

// Exec implements storage.Repository; see ErrExecUnsupported.
func (r *Repository) Exec(context.Context, string) error { return ErrExecUnsupported }

// Close is a no-op; the client holds no per-repository resources.
func (r *Repository) Close() {}
