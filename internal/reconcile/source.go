// Package reconcile matches two independently produced aging reports by
// vendor and diffs them: the Ramp aging export (CSV) against the NetSuite
// A/P aging summary (spreadsheet-XML).
package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Periods is the fixed column order shared by both sources and the output.
var Periods = [6]string{"current", "30", "60", "90", ">90", "total"}

// SourceRow is one vendor line of a source report: six period values keyed
// positionally. A cell that could not be coerced to a number is invalid
// ("missing") and renders as 0 on output.
type SourceRow struct {
	Vendor string
	Values [6]decimal.NullDecimal
}

// SourceTable is one parsed source report.
type SourceTable struct {
	Name string
	Rows []SourceRow
}

// SourceError reports a source report that could not be read or parsed.
// It is fatal for the reconciliation step only; aging-report generation
// never shares this failure state.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("reading reconciliation source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// coerceNumber turns a report cell into a number, stripping currency symbols
// and thousands separators. Anything unparseable is missing, never an error.
func coerceNumber(s string) decimal.NullDecimal {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
