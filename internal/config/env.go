package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names. The NEXT_PUBLIC_* pair is what the web app's
// .env.local already carries; the SUPABASE_* pair is accepted as a fallback.
const (
	EnvSupabaseURL      = "NEXT_PUBLIC_SUPABASE_URL"
	EnvSupabaseKey      = "NEXT_PUBLIC_SUPABASE_ANON_KEY"
	EnvSupabaseURLAlt   = "SUPABASE_URL"
	EnvSupabaseKeyAlt   = "SUPABASE_KEY"
	EnvDSN              = "BIZIMPORT_DSN"
	EnvBatchSize        = "BIZIMPORT_BATCH_SIZE"
	EnvMetricsBackend   = "METRICS_BACKEND"
	EnvPushgatewayURL   = "PUSHGATEWAY_URL"
	EnvDatadogAgentAddr = "DD_AGENT_ADDR"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is an
// error only when required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment values onto p. getenv is os.Getenv in
// production; tests pass a map lookup. A malformed numeric value is an error.
func ApplyEnv(p *Pipeline, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := first(getenv(EnvSupabaseURL), getenv(EnvSupabaseURLAlt)); v != "" {
		p.Storage.Supabase.URL = v
	}
	if v := first(getenv(EnvSupabaseKey), getenv(EnvSupabaseKeyAlt)); v != "" {
		p.Storage.Supabase.APIKey = v
	}
	if v := getenv(EnvDSN); v != "" {
		p.Storage.DB.DSN = v
	}
	if v := getenv(EnvBatchSize); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s=%q: batch size must be an integer", EnvBatchSize, v)
		}
		p.Runtime.BatchSize = n
	}
	if v := getenv(EnvMetricsBackend); v != "" {
		p.Metrics.Backend = v
	}
	if v := getenv(EnvPushgatewayURL); v != "" {
		p.Metrics.PushgatewayURL = v
	}
	if v := getenv(EnvDatadogAgentAddr); v != "" {
		p.Metrics.DatadogAddr = v
	}
	return nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
