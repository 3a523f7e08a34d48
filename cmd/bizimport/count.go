package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizimport/internal/storage"
)

func newCountCmd(opts *options, getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of rows in the destination table",
		Long:  "Asks the sink for an exact row count of the destination table, e.g. to confirm an import landed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadPipeline(cmd, opts, getenv)
			if err != nil {
				return err
			}
			repo, err := openRepository(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer repo.Close()

			c, ok := repo.(storage.Counter)
			if !ok {
				return fmt.Errorf("storage kind %q cannot count rows", p.Storage.Kind)
			}
			n, err := c.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", p.Storage.Table, n)
			return nil
		},
	}
}
