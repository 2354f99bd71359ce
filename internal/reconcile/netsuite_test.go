package reconcile

import (
	"errors"
	"strings"
	"testing"
)

// buildNetSuiteXML wraps data rows in a minimal SpreadsheetML workbook with
// the 11-row title/header block the real export carries.
func buildNetSuiteXML(dataRows ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?>` + "\n")
	sb.WriteString(`<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet" xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">`)
	sb.WriteString(`<Worksheet ss:Name="A_PAgingSummary"><Table>`)
	for i := 0; i < headerRowCount; i++ {
		sb.WriteString(`<Row><Cell><Data ss:Type="String">header junk</Data></Cell></Row>`)
	}
	for _, r := range dataRows {
		sb.WriteString(r)
	}
	sb.WriteString(`</Table></Worksheet></Workbook>`)
	return sb.String()
}

func cellsRow(values ...string) string {
	var sb strings.Builder
	sb.WriteString("<Row>")
	for _, v := range values {
		sb.WriteString(`<Cell><Data ss:Type="String">` + v + `</Data></Cell>`)
	}
	sb.WriteString("</Row>")
	return sb.String()
}

func TestReadNetSuiteXML(t *testing.T) {
	in := buildNetSuiteXML(
		cellsRow("Acme", "$1,234.56", "0.00", "0.00", "0.00", "0.00", "$1,234.56"),
		cellsRow("Zephyr", "", "100.00", "0.00", "0.00", "0.00", "100.00"),
	)

	table, err := ReadNetSuiteXML(strings.NewReader(in), "aging.xls")
	if err != nil {
		t.Fatalf("ReadNetSuiteXML error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (header block skipped)", len(table.Rows))
	}

	acme := table.Rows[0]
	if acme.Vendor != "Acme" {
		t.Errorf("vendor = %q", acme.Vendor)
	}
	if got := acme.Values[0].Decimal.String(); got != "1234.56" {
		t.Errorf("current = %s, want 1234.56 (currency symbols stripped)", got)
	}

	// Empty cell text is missing.
	if table.Rows[1].Values[0].Valid {
		t.Error("empty cell should be missing")
	}
}

func TestReadNetSuiteXML_ShortRowsAndExtraCells(t *testing.T) {
	in := buildNetSuiteXML(
		cellsRow("ShortRow", "10.00"),
		cellsRow("WideRow", "1", "2", "3", "4", "5", "6", "ignored-eighth-cell"),
	)

	table, err := ReadNetSuiteXML(strings.NewReader(in), "aging.xls")
	if err != nil {
		t.Fatalf("ReadNetSuiteXML error: %v", err)
	}

	short := table.Rows[0]
	if got := short.Values[0].Decimal.String(); got != "10" {
		t.Errorf("short row current = %s, want 10", got)
	}
	for i := 1; i < 6; i++ {
		if short.Values[i].Valid {
			t.Errorf("short row period %s should be missing", Periods[i])
		}
	}

	wide := table.Rows[1]
	if got := wide.Values[5].Decimal.String(); got != "6" {
		t.Errorf("wide row total = %s, want 6 (only first 7 cells read)", got)
	}
}

func TestReadNetSuiteXML_HeaderBlockOnly(t *testing.T) {
	table, err := ReadNetSuiteXML(strings.NewReader(buildNetSuiteXML()), "aging.xls")
	if err != nil {
		t.Fatalf("ReadNetSuiteXML error: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("got %d rows, want 0", len(table.Rows))
	}
}

func TestReadNetSuiteXML_Malformed(t *testing.T) {
	_, err := ReadNetSuiteXML(strings.NewReader("this is not xml"), "aging.xls")
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error = %v, want *SourceError", err)
	}
}
