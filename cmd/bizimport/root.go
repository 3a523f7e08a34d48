package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bizimport/internal/config"
	"bizimport/internal/logger"
)

// options holds the raw flag values; only flags the user set override the
// loaded configuration.
type options struct {
	configPath     string
	envFile        string
	file           string
	batchSize      int
	delay          time.Duration
	storageKind    string
	dsn            string
	table          string
	autoCreate     bool
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	validate       bool
	verbose        bool
}

const rootExample = `  # Import business_info_rows.csv using .env.local credentials
  bizimport

  # Import another file in batches of 500 with no pause between batches
  bizimport --file retailers.csv --batch-size 500 --delay 0s

  # Load into a local SQLite database instead of the hosted table
  bizimport --storage sqlite --dsn import.db --auto-create-table

  # Check a YAML config and exit
  bizimport --config import.yaml --validate

  # Report how many rows the table holds
  bizimport count`

func newRootCmd(getenv func(string) string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "bizimport",
		Short:         "Import retailer CSV rows into business_info",
		Long:          "Reads a CSV in batches, maps retailer_name/location/city/state onto the business_info schema with a fresh business_id per row, and inserts each batch. Failed batches are logged and skipped.",
		Example:       rootExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadPipeline(cmd, opts, getenv)
			if err != nil {
				return err
			}
			if opts.validate {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: storage=%s table=%s source=%s\n",
					p.Storage.Kind, p.Storage.Table, p.Source.Path)
				return nil
			}

			log := logger.New(cmd.OutOrStdout(), opts.verbose)
			ctx := logger.WithContext(cmd.Context(), log)

			flush, err := setupMetrics(p, log)
			if err != nil {
				return err
			}
			defer flush()

			_, err = runImport(ctx, p)
			return err
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "pipeline config file (.json, .yaml, .yml)")
	f.StringVar(&opts.envFile, "env-file", ".env.local", "env file holding NEXT_PUBLIC_SUPABASE_URL and NEXT_PUBLIC_SUPABASE_ANON_KEY")
	f.StringVar(&opts.storageKind, "storage", "", "sink: supabase, postgres, sqlite, mysql, mssql")
	f.StringVar(&opts.dsn, "dsn", "", "connection string for SQL sinks")
	f.StringVar(&opts.table, "table", "", "destination table (default business_info)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")

	lf := cmd.Flags()
	lf.StringVar(&opts.file, "file", "", "CSV path or http(s) URL (default business_info_rows.csv)")
	lf.IntVar(&opts.batchSize, "batch-size", config.DefaultBatchSize, "rows per insert")
	lf.DurationVar(&opts.delay, "delay", config.DefaultDelay, "pause after every batch")
	lf.BoolVar(&opts.autoCreate, "auto-create-table", false, "create the destination table on SQL sinks when missing")
	lf.StringVar(&opts.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway, datadog")
	lf.StringVar(&opts.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL")
	lf.StringVar(&opts.datadogAddr, "datadog-addr", "", "DogStatsD address, e.g. 127.0.0.1:8125")
	lf.BoolVar(&opts.validate, "validate", false, "validate the configuration and exit")

	cmd.AddCommand(newCountCmd(opts, getenv))
	return cmd
}
