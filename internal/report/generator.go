// Package report orchestrates the aging pipelines: per-entity reports, the
// combined report and the reconciliation, each writing CSV artifacts and
// optionally archiving them.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/aging"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/logger"
)

// ErrNoOpenBills marks the documented "nothing to report" outcome: the run
// completed but produced no rows. Not a failure.
var ErrNoOpenBills = errors.New("no bills were open as of the cutoff date")

// Generator runs report jobs against a bill source.
type Generator struct {
	Source BillSource
	OutDir string

	// Archiver, when non-nil, receives a copy of each artifact.
	Archiver Archiver

	// ShowProgress draws a progress bar over the entity loop.
	ShowProgress bool

	// RunID tags log events and archive objects of one run.
	RunID string
}

// New returns a generator writing artifacts under outDir.
func New(source BillSource, outDir string) *Generator {
	return &Generator{
		Source: source,
		OutDir: outDir,
		RunID:  uuid.NewString(),
	}
}

// GenerateEntityReports produces one aging report per entity, plus a raw
// bills snapshot per entity as an audit artifact. A failure in one entity is
// logged and never aborts the remaining entities.
func (g *Generator) GenerateEntityReports(ctx context.Context, cutoff aging.Cutoff) error {
	log := logger.WithRun(logger.FromContext(ctx), g.RunID)

	entities, err := g.Source.Entities(ctx)
	if err != nil {
		return fmt.Errorf("list entities: %w", err)
	}
	log.Info().Int("entities", len(entities)).Str("cutoff", cutoff.UserDate()).Msg("generating entity aging reports")

	bar := g.newProgressBar(len(entities))
	for _, entity := range entities {
		if err := g.entityReport(ctx, log, entity, cutoff); err != nil {
			log.Error().Err(err).
				Str("entity", entity.Name).
				Str("cutoff", cutoff.UserDate()).
				Msg("entity report failed, continuing with remaining entities")
		}
		_ = bar.Add(1)
	}
	return nil
}

func (g *Generator) entityReport(ctx context.Context, log zerolog.Logger, entity domain.Entity, cutoff aging.Cutoff) error {
	bills, err := g.Source.Bills(ctx, entity.ID, cutoff.ISO8601())
	if err != nil {
		return fmt.Errorf("fetch bills for entity %s: %w", entity.Name, err)
	}
	if len(bills) == 0 {
		log.Info().Str("entity", entity.Name).Msg("no bills data for entity")
		return nil
	}

	// Raw snapshot goes out before any filtering, as an audit artifact.
	rawPath := filepath.Join(g.OutDir, rawSnapshotFilename(entity.Name, cutoff))
	if err := writeRawSnapshot(rawPath, bills); err != nil {
		return fmt.Errorf("save raw snapshot for entity %s: %w", entity.Name, err)
	}
	log.Info().Str("entity", entity.Name).Str("file", rawPath).Msg("raw bills data saved")
	g.archiveArtifact(ctx, log, rawPath)

	open := aging.FilterOpenAsOf(bills, cutoff)
	if len(open) == 0 {
		log.Info().Str("entity", entity.Name).Str("cutoff", cutoff.UserDate()).Msg("no bills were open as of the cutoff date")
		return nil
	}

	table, skipped := aging.Aggregate(open, cutoff)
	g.warnSkipped(log, entity.Name, skipped)
	if table.Empty() {
		log.Info().Str("entity", entity.Name).Str("cutoff", cutoff.UserDate()).Msg("no bucketable open bills for entity")
		return nil
	}

	reportPath := filepath.Join(g.OutDir, agingReportFilename(entity.Name, cutoff))
	if err := writeCSVFile(reportPath, table.WriteCSV); err != nil {
		return fmt.Errorf("write aging report for entity %s: %w", entity.Name, err)
	}
	log.Info().Str("entity", entity.Name).Str("file", reportPath).Msg("aging report generated")
	g.archiveArtifact(ctx, log, reportPath)
	return nil
}

// GenerateCombinedReport merges the open bills of every entity, in entity
// enumeration order, into one aging report. Unlike the per-entity loop, a
// fetch failure here aborts the run: a combined report silently missing an
// entity would be wrong rather than incomplete.
func (g *Generator) GenerateCombinedReport(ctx context.Context, cutoff aging.Cutoff) error {
	log := logger.WithRun(logger.FromContext(ctx), g.RunID)

	entities, err := g.Source.Entities(ctx)
	if err != nil {
		return fmt.Errorf("list entities: %w", err)
	}
	log.Info().Int("entities", len(entities)).Str("cutoff", cutoff.UserDate()).Msg("generating combined aging report")

	var combined []domain.Bill
	bar := g.newProgressBar(len(entities))
	for _, entity := range entities {
		bills, err := g.Source.Bills(ctx, entity.ID, cutoff.ISO8601())
		if err != nil {
			return fmt.Errorf("fetch bills for entity %s: %w", entity.Name, err)
		}
		combined = append(combined, aging.FilterOpenAsOf(bills, cutoff)...)
		_ = bar.Add(1)
	}

	if len(combined) == 0 {
		return ErrNoOpenBills
	}

	table, skipped := aging.Aggregate(combined, cutoff)
	g.warnSkipped(log, "combined", skipped)
	if table.Empty() {
		return ErrNoOpenBills
	}

	reportPath := filepath.Join(g.OutDir, combinedReportFilename(cutoff))
	if err := writeCSVFile(reportPath, table.WriteCSV); err != nil {
		return fmt.Errorf("write combined aging report: %w", err)
	}
	log.Info().Str("file", reportPath).Str("cutoff", cutoff.UserDate()).Msg("combined aging report generated")
	g.archiveArtifact(ctx, log, reportPath)
	return nil
}

func (g *Generator) warnSkipped(log zerolog.Logger, scope string, skipped []domain.Bill) {
	for _, b := range skipped {
		log.Warn().
			Str("bill_id", b.ID).
			Str("vendor", b.VendorName).
			Str("scope", scope).
			Msg("skipping bill without a resolvable due date")
	}
}

func (g *Generator) archiveArtifact(ctx context.Context, log zerolog.Logger, path string) {
	if g.Archiver == nil {
		return
	}
	object := g.RunID + "/" + filepath.Base(path)
	if err := g.Archiver.UploadFile(ctx, object, path); err != nil {
		// Archiving is best-effort; the local artifact is the deliverable.
		log.Warn().Err(err).Str("file", path).Msg("artifact archive upload failed")
		return
	}
	log.Info().Str("object", object).Msg("artifact archived")
}

func (g *Generator) newProgressBar(n int) *progressbar.ProgressBar {
	if !g.ShowProgress {
		return progressbar.DefaultSilent(int64(n))
	}
	return progressbar.Default(int64(n), "entities")
}

// entitySlug builds the filename fragment for an entity: lowercased, spaces
// replaced by underscores, exactly as the report consumers expect.
func entitySlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

func agingReportFilename(entityName string, cutoff aging.Cutoff) string {
	return fmt.Sprintf("%s_open_bills_aging_report_as_of_%s.csv", entitySlug(entityName), cutoff.UserDate())
}

func rawSnapshotFilename(entityName string, cutoff aging.Cutoff) string {
	return fmt.Sprintf("%s_raw_bills_data_as_of_%s.csv", entitySlug(entityName), cutoff.UserDate())
}

func combinedReportFilename(cutoff aging.Cutoff) string {
	return fmt.Sprintf("combined_open_bills_aging_report_as_of_%s.csv", cutoff.UserDate())
}

// writeCSVFile creates path and hands the file to a table writer.
func writeCSVFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeRawSnapshot dumps normalized bill records, one line per bill, before
// openness filtering or bucketing.
func writeRawSnapshot(path string, bills []domain.Bill) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"id", "vendor_name", "amount", "issued_at", "due_at", "paid_at", "payment_effective_date"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, b := range bills {
		rec := []string{
			b.ID,
			b.VendorName,
			b.Amount.String(),
			formatDate(b.IssuedAt),
			formatDate(b.DueAt),
			formatDate(b.PaidAt),
			formatDate(b.PaymentEffectiveDate),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
