package main

import (
	"PayLedger/internal/csvio"
	"PayLedger/internal/engine"
	"PayLedger/internal/observability"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// payledger reads an ordered operation stream from the single input file and
// writes the final per-client balance report to stdout. Diagnostics go to
// stderr as structured JSON; the report is the only thing on stdout.
//
// The stream is processed strictly sequentially — one logical thread of
// control, no effect of a later operation visible before the previous one
// commits.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: payledger <input.csv>")
		os.Exit(2)
	}

	logger := observability.NewLogger("payledger").With().
		Str("run_id", uuid.NewString()).
		Logger()

	metrics := observability.NewMetrics()
	processor := engine.NewProcessor(logger, metrics)

	f, err := os.Open(os.Args[1])
	if err != nil {
		logger.Fatal().Err(err).Msg("open input")
	}
	defer f.Close()

	reader := csvio.NewReader(f)
	var processed int64
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed input aborts the whole run: no partial output.
			logger.Fatal().Err(err).Int64("processed", processed).Msg("malformed input record")
		}
		processor.Process(rec)
		processed++
	}

	if err := csvio.WriteBalances(os.Stdout, processor.Ledger()); err != nil {
		logger.Fatal().Err(err).Msg("write balance report")
	}

	observability.LogSummary(logger)
	logger.Info().
		Int64("operations", processed).
		Int("clients", processor.Ledger().Len()).
		Int("open_disputes", processor.Disputes().Len()).
		Msg("payledger complete")
}
