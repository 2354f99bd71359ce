package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadRampCSV parses the Ramp aging export: seven positional columns
// (vendor, current, 30, 60, 90, >90, total). The export always carries a
// header line, which is consumed and discarded; column meaning is
// positional, not name-based. The trailing "Total" row stays in the table;
// reconciliation drops it with the other exclusions.
func ReadRampCSV(r io.Reader, source string) (*SourceTable, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &SourceError{Source: source, Err: err}
	}
	if len(records) == 0 {
		return nil, &SourceError{Source: source, Err: fmt.Errorf("empty report")}
	}
	if len(records[0]) != 7 {
		return nil, &SourceError{Source: source, Err: fmt.Errorf("expected 7 columns, got %d", len(records[0]))}
	}

	table := &SourceTable{Name: "ramp", Rows: make([]SourceRow, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := SourceRow{Vendor: rec[0]}
		for i := 0; i < 6; i++ {
			row.Values[i] = coerceNumber(rec[i+1])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
