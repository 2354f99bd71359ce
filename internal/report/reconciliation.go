package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/archive"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/logger"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/reconcile"
)

// GenerateReconciliationReport diffs the Ramp aging export against the
// NetSuite aging summary and writes the comparison to outPath. Source paths
// may be local files or gs:// URIs. This pipeline is fully isolated from
// aging-report generation: its failures are its own.
func (g *Generator) GenerateReconciliationReport(ctx context.Context, rampPath, netsuitePath, outPath string, epsilon decimal.Decimal) error {
	log := logger.WithRun(logger.FromContext(ctx), g.RunID)

	rampTable, err := readSource(ctx, rampPath, reconcile.ReadRampCSV)
	if err != nil {
		return err
	}
	netsuiteTable, err := readSource(ctx, netsuitePath, reconcile.ReadNetSuiteXML)
	if err != nil {
		return err
	}

	table := reconcile.Reconcile(rampTable, netsuiteTable, epsilon)

	if err := writeCSVFile(outPath, table.WriteCSV); err != nil {
		return fmt.Errorf("write reconciliation report: %w", err)
	}
	log.Info().
		Str("ramp", rampPath).
		Str("netsuite", netsuitePath).
		Str("file", outPath).
		Int("vendors", len(table.Rows)).
		Msg("reconciliation report saved")
	g.archiveArtifact(ctx, log, outPath)
	return nil
}

// readSource opens a local or gs:// source and hands it to a parser.
func readSource(ctx context.Context, path string, parse func(io.Reader, string) (*reconcile.SourceTable, error)) (*reconcile.SourceTable, error) {
	if archive.IsGCSURI(path) {
		data, err := archive.Fetch(ctx, path)
		if err != nil {
			return nil, &reconcile.SourceError{Source: path, Err: err}
		}
		return parse(bytes.NewReader(data), path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &reconcile.SourceError{Source: path, Err: err}
	}
	defer f.Close()
	return parse(f, path)
}
