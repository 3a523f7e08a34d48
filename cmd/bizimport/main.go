// Command bizimport loads a CSV of retailers into the business_info table in
// fixed-size batches.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
