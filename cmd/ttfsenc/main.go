// Command ttfsenc encodes network-flow feature records into TTFS spike trains.
//
//	ttfsenc encode --ranges feature_ranges.json --input flows.csv --output spikes.jsonl
//	ttfsenc encode --ranges sqlite://ranges.db --input flows.jsonl --format blob --output spikes.blob
//	ttfsenc decode --input spikes.blob
//	ttfsenc topology --ranges feature_ranges.json
//	ttfsenc ranges import --ranges feature_ranges.json --db ranges.db
//	ttfsenc ranges show --db ranges.db
//
// Every flag can also be set through a TTFS_ environment variable (for example
// TTFS_SKIP_ZEROS=true) or a config file passed with --config.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(w, "Hint:", hint)
	}
}
