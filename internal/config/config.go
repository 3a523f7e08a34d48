// Package config defines the JSON/YAML-serializable configuration model for
// the importer and the helpers that assemble it from defaults, a config file,
// an env file, and the process environment.
//
// Precedence, lowest first: Default(), config file, environment (including
// values loaded from the env file), CLI flags (applied by cmd/bizimport).
//
// Example (YAML):
//
//	job: business-import
//	source:
//	  path: business_info_rows.csv
//	storage:
//	  kind: supabase
//	  table: business_info
//	  supabase:
//	    url: https://xyz.supabase.co
//	runtime:
//	  batch_size: 1000
//	  delay: 1s
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bizimport/internal/domain"
)

// Pipeline is the top-level configuration for one import run.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	Source  Source        `json:"source" yaml:"source"`
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
	Metrics Metrics       `json:"metrics" yaml:"metrics"`
}

// Source describes the CSV input.
type Source struct {
	// Path is a local filesystem path or an http(s) URL.
	Path string `json:"path" yaml:"path"`

	// Comma is the field delimiter; only the first rune is used.
	Comma string `json:"comma" yaml:"comma"`

	// NAValues replaces the default set of cell values treated as null.
	NAValues []string `json:"na_values" yaml:"na_values"`

	// Timeout bounds an http(s) download as a whole, body included. Zero
	// leaves it bounded by the run only.
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// Storage selects the sink for transformed records.
type Storage struct {
	// Kind is one of supabase, postgres, sqlite, mysql, mssql.
	Kind string `json:"kind" yaml:"kind"`

	// Table is the destination table, optionally schema-qualified for SQL sinks.
	Table string `json:"table" yaml:"table"`

	Supabase Supabase `json:"supabase" yaml:"supabase"`
	DB       DBConfig `json:"db" yaml:"db"`
}

// Supabase configures the hosted REST endpoint.
type Supabase struct {
	URL    string `json:"url" yaml:"url"`
	APIKey string `json:"api_key" yaml:"api_key"`

	// Schema is sent as Content-Profile when not "public".
	Schema string `json:"schema" yaml:"schema"`

	Timeout Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries enables retry on 429/5xx. Zero keeps the one-shot insert.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DBConfig configures the SQL sinks.
type DBConfig struct {
	// DSN is passed to the backend driver unchanged.
	DSN string `json:"dsn" yaml:"dsn"`

	// AutoCreateTable creates the destination table when missing.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`
}

// RuntimeConfig controls batching and pacing.
type RuntimeConfig struct {
	BatchSize int      `json:"batch_size" yaml:"batch_size"`
	Delay     Duration `json:"delay" yaml:"delay"`
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	// Backend is one of none, pushgateway, datadog.
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Defaults reproduce the original one-off script.
const (
	DefaultJob       = "business-import"
	DefaultBatchSize = 1000
	DefaultDelay     = time.Second
	DefaultSource    = "business_info_rows.csv"
	DefaultKind      = "supabase"
)

// Default returns a Pipeline populated with defaults.
func Default() Pipeline {
	return Pipeline{
		Job:    DefaultJob,
		Source: Source{Path: DefaultSource, Comma: ","},
		Storage: Storage{
			Kind:     DefaultKind,
			Table:    domain.DefaultTable,
			Supabase: Supabase{Schema: "public", Timeout: Duration(30 * time.Second)},
		},
		Runtime: RuntimeConfig{BatchSize: DefaultBatchSize, Delay: Duration(DefaultDelay)},
		Metrics: Metrics{Backend: "none"},
	}
}

// LoadFile overlays the config file at path onto p. The format is chosen by
// extension: .yaml/.yml use YAML, anything else JSON.
func LoadFile(path string, p *Pipeline) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, p); err != nil {
			return fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, p); err != nil {
			return fmt.Errorf("decode json config %s: %w", path, err)
		}
	}
	return nil
}

// CommaRune returns the delimiter rune, defaulting to ','.
func (s Source) CommaRune() rune {
	if s.Comma == "" {
		return ','
	}
	return []rune(s.Comma)[0]
}

// Duration is a time.Duration that decodes from "1s"-style strings or from a
// bare number of seconds.
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "1.5s" or 1.5.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		*d = Duration(t * float64(time.Second))
		return nil
	case string:
		return d.parse(t)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// UnmarshalYAML accepts "1.5s" or 1.5.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
		*d = Duration(f * float64(time.Second))
		return nil
	}
	return d.parse(n.Value)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}
