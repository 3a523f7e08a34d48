package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bizimport/internal/config"
)

// loadPipeline assembles the run configuration. Precedence, lowest first:
// defaults, --config file, environment (after loading --env-file), flags.
func loadPipeline(cmd *cobra.Command, opts *options, getenv func(string) string) (config.Pipeline, error) {
	p := config.Default()

	if opts.configPath != "" {
		if err := config.LoadFile(opts.configPath, &p); err != nil {
			return p, err
		}
	}

	envRequired := cmd.Flags().Changed("env-file")
	if err := config.LoadEnvFile(opts.envFile, envRequired); err != nil {
		return p, err
	}
	if err := config.ApplyEnv(&p, getenv); err != nil {
		return p, err
	}

	applyFlags(cmd, opts, &p)

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return p, fmt.Errorf("configuration is invalid (%d issue(s))", countErrors(issues))
	}
	return p, nil
}

func applyFlags(cmd *cobra.Command, opts *options, p *config.Pipeline) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("file") {
		p.Source.Path = opts.file
	}
	if changed("batch-size") {
		p.Runtime.BatchSize = opts.batchSize
	}
	if changed("delay") {
		p.Runtime.Delay = config.Duration(opts.delay)
	}
	if changed("storage") {
		p.Storage.Kind = strings.ToLower(strings.TrimSpace(opts.storageKind))
	}
	if changed("dsn") {
		p.Storage.DB.DSN = opts.dsn
	}
	if changed("table") {
		p.Storage.Table = opts.table
	}
	if changed("auto-create-table") {
		p.Storage.DB.AutoCreateTable = opts.autoCreate
	}
	if changed("metrics-backend") {
		p.Metrics.Backend = opts.metricsBackend
	}
	if changed("pushgateway-url") {
		p.Metrics.PushgatewayURL = opts.pushgatewayURL
	}
	if changed("datadog-addr") {
		p.Metrics.DatadogAddr = opts.datadogAddr
	}
}

func countErrors(issues []config.Issue) int {
	n := 0
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			n++
		}
	}
	return n
}
