package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the threshold below which a computed difference is
// treated as floating-point noise and snapped to exactly 0.
var DefaultEpsilon = decimal.New(1, -6)

// Vendors dropped from the comparison: intercompany rows and the sources'
// own totals rows. Applied after the join so excluded vendors never feed
// the recomputed Total row.
const (
	excludedVendorPrefix = "IC - "
	totalsVendor         = "Total"
)

// Row is one vendor line of the comparison: per period, the Ramp value, the
// NetSuite value and their difference. Missing cells (vendor absent from one
// source, or an uncoercible cell) stay missing through the diff and render
// as 0 on output.
type Row struct {
	Vendor   string
	Ramp     [6]decimal.NullDecimal
	NetSuite [6]decimal.NullDecimal
	Diff     [6]decimal.NullDecimal
}

// Table is the finished reconciliation: vendor rows in ascending
// (case-sensitive) vendor order, plus the recomputed Total row.
type Table struct {
	Rows   []Row
	Totals Row
}

func excluded(vendor string) bool {
	return strings.HasPrefix(vendor, excludedVendorPrefix) || vendor == totalsVendor
}

// Reconcile full-outer-joins the two sources on the exact vendor name and
// diffs each period as ramp − netsuite, snapping |diff| < epsilon to 0.
func Reconcile(ramp, netsuite *SourceTable, epsilon decimal.Decimal) *Table {
	type pair struct {
		ramp, netsuite [6]decimal.NullDecimal
	}

	joined := make(map[string]*pair)
	for _, r := range ramp.Rows {
		p, ok := joined[r.Vendor]
		if !ok {
			p = &pair{}
			joined[r.Vendor] = p
		}
		p.ramp = r.Values
	}
	for _, r := range netsuite.Rows {
		p, ok := joined[r.Vendor]
		if !ok {
			p = &pair{}
			joined[r.Vendor] = p
		}
		p.netsuite = r.Values
	}

	table := &Table{Rows: make([]Row, 0, len(joined))}
	for vendor, p := range joined {
		if excluded(vendor) {
			continue
		}
		row := Row{Vendor: vendor, Ramp: p.ramp, NetSuite: p.netsuite}
		for i := range Periods {
			row.Diff[i] = diffCell(p.ramp[i], p.netsuite[i], epsilon)
		}
		table.Rows = append(table.Rows, row)
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].Vendor < table.Rows[j].Vendor
	})

	table.Totals = Row{Vendor: totalsVendor}
	for _, row := range table.Rows {
		for i := range Periods {
			table.Totals.Ramp[i] = addCell(table.Totals.Ramp[i], row.Ramp[i])
			table.Totals.NetSuite[i] = addCell(table.Totals.NetSuite[i], row.NetSuite[i])
			table.Totals.Diff[i] = addCell(table.Totals.Diff[i], row.Diff[i])
		}
	}

	return table
}

// diffCell computes ramp − netsuite; a missing operand makes the difference
// itself missing (rendered 0), never an invented value.
func diffCell(a, b decimal.NullDecimal, epsilon decimal.Decimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	d := a.Decimal.Sub(b.Decimal)
	if d.Abs().LessThan(epsilon) {
		d = decimal.Zero
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// addCell accumulates the rendered value of a cell: missing counts as 0.
func addCell(sum, cell decimal.NullDecimal) decimal.NullDecimal {
	total := decimal.Zero
	if sum.Valid {
		total = sum.Decimal
	}
	if cell.Valid {
		total = total.Add(cell.Decimal)
	}
	return decimal.NullDecimal{Decimal: total, Valid: true}
}

// WriteCSV writes the comparison with the original column layout: vendor,
// then ramp/netsuite/diff triplets per period, Total row last.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, 1+3*len(Periods))
	header = append(header, "vendor")
	for _, p := range Periods {
		header = append(header, "ramp_"+p, "netsuite_"+p, "diff_"+p)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write reconciliation header: %w", err)
	}

	for _, row := range t.Rows {
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("write reconciliation row %q: %w", row.Vendor, err)
		}
	}
	if err := cw.Write(t.Totals.record()); err != nil {
		return fmt.Errorf("write reconciliation totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func (r Row) record() []string {
	rec := make([]string, 0, 1+3*len(Periods))
	rec = append(rec, r.Vendor)
	for i := range Periods {
		rec = append(rec, renderCell(r.Ramp[i]), renderCell(r.NetSuite[i]), renderCell(r.Diff[i]))
	}
	return rec
}

func renderCell(c decimal.NullDecimal) string {
	if !c.Valid {
		return "0"
	}
	return c.Decimal.String()
}
