package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/aging"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/archive"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/config"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/logger"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/ramp"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/reconcile"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/report"
)

// Exit codes, stable for scripting.
const (
	exitOK           = 0
	exitFailure      = 1
	exitInvalidDate  = 2
	exitConfig       = 3
	exitSourceFailed = 4
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitFailure)
	}

	switch os.Args[1] {
	case "entities":
		os.Exit(runEntities(log))
	case "combined":
		os.Exit(runCombined(log))
	case "reconcile":
		os.Exit(runReconcile(log))
	case "all":
		os.Exit(runAll(log))
	case "artifacts":
		os.Exit(runArtifacts(log))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(exitFailure)
	}
}

func printUsage() {
	fmt.Println("Ramp AP Aging Report")
	fmt.Println("\nUsage:")
	fmt.Println("  aging-report <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  entities   Generate one aging report per Ramp entity")
	fmt.Println("  combined   Generate a single aging report across all entities")
	fmt.Println("  reconcile  Compare a Ramp aging CSV against a NetSuite aging XML")
	fmt.Println("  all        Run entities, combined and reconcile in one go")
	fmt.Println("  artifacts  List archived report artifacts")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'aging-report <command> -h' for more information on a command.")
}

func runEntities(log zerolog.Logger) int {
	fs := flag.NewFlagSet("entities", flag.ExitOnError)
	dateFlag := fs.String("date", "", "cutoff date as DD-MM-YYYY")
	outDir := fs.String("out", ".", "directory for generated CSVs")
	bucket := fs.String("bucket", "", "archive bucket, overrides AGING_ARCHIVE_BUCKET")
	progress := fs.Bool("progress", true, "draw a progress bar over the entity loop")
	fs.Parse(os.Args[2:])

	cutoff, code := parseDateArg(log, *dateFlag)
	if code != exitOK {
		return code
	}

	gen, ctx, cancel, code := newGenerator(log, *outDir, *bucket, *progress)
	if code != exitOK {
		return code
	}
	defer cancel()

	if err := gen.GenerateEntityReports(ctx, cutoff); err != nil {
		log.Error().Err(err).Msg("entity report run failed")
		return exitFailure
	}
	fmt.Println("Entity aging reports generated.")
	return exitOK
}

func runCombined(log zerolog.Logger) int {
	fs := flag.NewFlagSet("combined", flag.ExitOnError)
	dateFlag := fs.String("date", "", "cutoff date as DD-MM-YYYY")
	outDir := fs.String("out", ".", "directory for generated CSVs")
	bucket := fs.String("bucket", "", "archive bucket, overrides AGING_ARCHIVE_BUCKET")
	progress := fs.Bool("progress", true, "draw a progress bar over the entity loop")
	fs.Parse(os.Args[2:])

	cutoff, code := parseDateArg(log, *dateFlag)
	if code != exitOK {
		return code
	}

	gen, ctx, cancel, code := newGenerator(log, *outDir, *bucket, *progress)
	if code != exitOK {
		return code
	}
	defer cancel()

	err := gen.GenerateCombinedReport(ctx, cutoff)
	switch {
	case errors.Is(err, report.ErrNoOpenBills):
		// Nothing to report is a clean outcome, not a failure.
		fmt.Println("No bills were open as of the cutoff date; no report written.")
		return exitOK
	case err != nil:
		log.Error().Err(err).Msg("combined report run failed")
		return exitFailure
	}
	fmt.Println("Combined aging report generated.")
	return exitOK
}

func runReconcile(log zerolog.Logger) int {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	rampPath := fs.String("ramp", "", "Ramp aging CSV (local path or gs:// URI)")
	netsuitePath := fs.String("netsuite", "", "NetSuite aging XML export (local path or gs:// URI)")
	outPath := fs.String("o", "reconciliation_report.csv", "output CSV path")
	epsilonFlag := fs.String("epsilon", reconcile.DefaultEpsilon.String(), "absolute differences below this are reported as zero")
	fs.Parse(os.Args[2:])

	if *rampPath == "" || *netsuitePath == "" {
		log.Error().Msg("both -ramp and -netsuite are required")
		return exitFailure
	}
	epsilon, err := decimal.NewFromString(*epsilonFlag)
	if err != nil {
		log.Error().Err(err).Str("epsilon", *epsilonFlag).Msg("invalid -epsilon value")
		return exitFailure
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	// Reconciliation needs no Ramp credentials, so skip config.Load and
	// read only the optional archive bucket.
	gen := report.New(nil, ".")
	if bucket := os.Getenv("AGING_ARCHIVE_BUCKET"); bucket != "" {
		gen.Archiver = archive.NewGCS(bucket)
	}

	if err := gen.GenerateReconciliationReport(ctx, *rampPath, *netsuitePath, *outPath, epsilon); err != nil {
		log.Error().Err(err).Msg("reconciliation failed")
		var srcErr *reconcile.SourceError
		if errors.As(err, &srcErr) {
			return exitSourceFailed
		}
		return exitFailure
	}
	fmt.Printf("Reconciliation report written to %s\n", *outPath)
	return exitOK
}

// runAll chains the three pipelines. Reconciliation runs even when an aging
// pipeline failed; the worst exit code wins.
func runAll(log zerolog.Logger) int {
	fs := flag.NewFlagSet("all", flag.ExitOnError)
	dateFlag := fs.String("date", "", "cutoff date as DD-MM-YYYY")
	outDir := fs.String("out", ".", "directory for generated CSVs")
	bucket := fs.String("bucket", "", "archive bucket, overrides AGING_ARCHIVE_BUCKET")
	progress := fs.Bool("progress", true, "draw a progress bar over the entity loops")
	rampPath := fs.String("ramp", "", "Ramp aging CSV to reconcile (optional)")
	netsuitePath := fs.String("netsuite", "", "NetSuite aging XML to reconcile (optional)")
	reconcileOut := fs.String("o", "reconciliation_report.csv", "reconciliation output CSV path")
	fs.Parse(os.Args[2:])

	cutoff, code := parseDateArg(log, *dateFlag)
	if code != exitOK {
		return code
	}

	gen, ctx, cancel, code := newGenerator(log, *outDir, *bucket, *progress)
	if code != exitOK {
		return code
	}
	defer cancel()

	worst := exitOK
	if err := gen.GenerateEntityReports(ctx, cutoff); err != nil {
		log.Error().Err(err).Msg("entity report run failed")
		worst = exitFailure
	}
	if err := gen.GenerateCombinedReport(ctx, cutoff); err != nil && !errors.Is(err, report.ErrNoOpenBills) {
		log.Error().Err(err).Msg("combined report run failed")
		worst = exitFailure
	}

	if *rampPath != "" && *netsuitePath != "" {
		err := gen.GenerateReconciliationReport(ctx, *rampPath, *netsuitePath, *reconcileOut, reconcile.DefaultEpsilon)
		if err != nil {
			log.Error().Err(err).Msg("reconciliation failed")
			var srcErr *reconcile.SourceError
			if errors.As(err, &srcErr) {
				return exitSourceFailed
			}
			return exitFailure
		}
	}
	return worst
}

func runArtifacts(log zerolog.Logger) int {
	fs := flag.NewFlagSet("artifacts", flag.ExitOnError)
	bucket := fs.String("bucket", os.Getenv("AGING_ARCHIVE_BUCKET"), "archive bucket")
	prefix := fs.String("prefix", "", "object name prefix, e.g. a run id")
	fs.Parse(os.Args[2:])

	if *bucket == "" {
		log.Error().Msg("-bucket or AGING_ARCHIVE_BUCKET is required")
		return exitConfig
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	objects, err := archive.NewGCS(*bucket).List(ctx, *prefix)
	if err != nil {
		log.Error().Err(err).Msg("listing artifacts failed")
		return exitFailure
	}
	for _, obj := range objects {
		fmt.Printf("gs://%s/%s\n", *bucket, obj)
	}
	return exitOK
}

func parseDateArg(log zerolog.Logger, value string) (aging.Cutoff, int) {
	if value == "" {
		log.Error().Msg("-date is required, format DD-MM-YYYY")
		return aging.Cutoff{}, exitInvalidDate
	}
	cutoff, err := aging.ParseCutoff(value)
	if err != nil {
		log.Error().Err(err).Str("cutoff", value).Msg("invalid cutoff date")
		return aging.Cutoff{}, exitInvalidDate
	}
	return cutoff, exitOK
}

// newGenerator loads configuration, builds the Ramp-backed generator and a
// run context carrying the logger.
func newGenerator(log zerolog.Logger, outDir, bucket string, progress bool) (*report.Generator, context.Context, context.CancelFunc, int) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		return nil, nil, nil, exitConfig
	}
	if bucket != "" {
		cfg.ArchiveBucket = bucket
	}

	gen := report.New(ramp.NewClient(cfg), outDir)
	gen.ShowProgress = progress
	if cfg.ArchiveBucket != "" {
		gen.Archiver = archive.NewGCS(cfg.ArchiveBucket)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("run_id", gen.RunID).Str("out_dir", outDir).Msg("starting run")
	return gen, ctx, cancel, exitOK
}
