package aging

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

// Row is one vendor line of an aging table: one cell per bucket, in the
// canonical label order, plus the row total.
type Row struct {
	Vendor string
	Cells  [5]decimal.Decimal
	Total  decimal.Decimal
}

// Table is a finished aging report: vendor rows sorted case-insensitively
// by name, followed by a synthetic Total row summing every numeric column.
type Table struct {
	Columns []string
	Rows    []Row
	Totals  Row
}

// Empty reports whether the table has no vendor rows, the "nothing to
// report" outcome for an entity with no open bills.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Aggregate pivots open bills into a vendor × bucket aging table.
//
// Grouping is by exact vendor string; only the sort order is
// case-insensitive, so "ACME" and "acme" stay separate rows. That matches
// the upstream report this one is reconciled against, so it is load-bearing.
//
// Bills without a due date cannot be bucketed; they are skipped and returned
// so the caller can log them. Row totals are derived from the bucket cells,
// not re-summed from bills, keeping column sums internally consistent.
func Aggregate(bills []domain.Bill, c Cutoff) (*Table, []domain.Bill) {
	labels := c.BucketLabels()
	bucketIdx := make(map[string]int, len(labels))
	for i, l := range labels {
		bucketIdx[l] = i
	}

	// Phase 1: collect vendor × bucket sums.
	sums := make(map[string]*[5]decimal.Decimal)
	var skipped []domain.Bill
	for _, b := range bills {
		label, err := Classify(b, c)
		if err != nil {
			skipped = append(skipped, b)
			continue
		}
		cells, ok := sums[b.VendorName]
		if !ok {
			cells = &[5]decimal.Decimal{}
			sums[b.VendorName] = cells
		}
		i := bucketIdx[label]
		cells[i] = cells[i].Add(b.Amount)
	}

	// Phase 2: build the table once, sort once, total once.
	table := &Table{Columns: c.ColumnNames()}
	table.Rows = make([]Row, 0, len(sums))
	for vendor, cells := range sums {
		row := Row{Vendor: vendor, Cells: *cells}
		for _, cell := range row.Cells {
			row.Total = row.Total.Add(cell)
		}
		table.Rows = append(table.Rows, row)
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		a, b := strings.ToLower(table.Rows[i].Vendor), strings.ToLower(table.Rows[j].Vendor)
		if a != b {
			return a < b
		}
		return table.Rows[i].Vendor < table.Rows[j].Vendor
	})

	table.Totals = Row{Vendor: "Total"}
	for _, row := range table.Rows {
		for i, cell := range row.Cells {
			table.Totals.Cells[i] = table.Totals.Cells[i].Add(cell)
		}
		table.Totals.Total = table.Totals.Total.Add(row.Total)
	}

	return table, skipped
}

// WriteCSV writes the table, header first and the Total row last.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write aging header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("write aging row %q: %w", row.Vendor, err)
		}
	}
	if !t.Empty() {
		if err := cw.Write(t.Totals.record()); err != nil {
			return fmt.Errorf("write aging totals: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (r Row) record() []string {
	rec := make([]string, 0, len(r.Cells)+2)
	rec = append(rec, r.Vendor)
	for _, cell := range r.Cells {
		rec = append(rec, cell.String())
	}
	return append(rec, r.Total.String())
}
