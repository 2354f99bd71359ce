package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/logger"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/reconcile"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/report"
)

// Single-purpose entry point for the reconciliation pipeline, for runs that
// never touch the Ramp API.
func main() {
	log := logger.New()

	rampPath := flag.String("ramp", "", "Ramp aging CSV (local path or gs:// URI)")
	netsuitePath := flag.String("netsuite", "", "NetSuite aging XML export (local path or gs:// URI)")
	outPath := flag.String("o", "reconciliation_report.csv", "output CSV path")
	epsilonFlag := flag.String("epsilon", reconcile.DefaultEpsilon.String(), "absolute differences below this are reported as zero")
	flag.Parse()

	if *rampPath == "" || *netsuitePath == "" {
		log.Error().Msg("both -ramp and -netsuite are required")
		os.Exit(1)
	}
	epsilon, err := decimal.NewFromString(*epsilonFlag)
	if err != nil {
		log.Error().Err(err).Str("epsilon", *epsilonFlag).Msg("invalid -epsilon value")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gen := report.New(nil, ".")
	if err := gen.GenerateReconciliationReport(ctx, *rampPath, *netsuitePath, *outPath, epsilon); err != nil {
		log.Error().Err(err).Msg("reconciliation failed")
		var srcErr *reconcile.SourceError
		if errors.As(err, &srcErr) {
			os.Exit(4)
		}
		os.Exit(1)
	}

	fmt.Printf("Reconciliation report written to %s\n", *outPath)
}
