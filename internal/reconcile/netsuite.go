package reconcile

import (
	"encoding/xml"
	"io"
)

// NetSuite exports the A/P aging summary as SpreadsheetML: an XML workbook
// in the urn:schemas-microsoft-com:office:spreadsheet namespace. The first
// headerRowCount rows are a title/header block with merged cells and carry
// no vendor data.
const (
	spreadsheetNS  = "urn:schemas-microsoft-com:office:spreadsheet"
	headerRowCount = 11
)

type nsWorkbook struct {
	XMLName    xml.Name      `xml:"Workbook"`
	Worksheets []nsWorksheet `xml:"Worksheet"`
}

type nsWorksheet struct {
	Tables []nsTable `xml:"Table"`
}

type nsTable struct {
	Rows []nsRow `xml:"Row"`
}

type nsRow struct {
	Cells []nsCell `xml:"Cell"`
}

type nsCell struct {
	Data string `xml:"Data"`
}

// ReadNetSuiteXML parses the NetSuite spreadsheet-XML aging summary. After
// the header block, each row's first seven cells map to the same positional
// schema as the Ramp export. Cells are text; currency strings like
// "$1,234.56" are coerced, and anything unparseable becomes missing.
func ReadNetSuiteXML(r io.Reader, source string) (*SourceTable, error) {
	var wb nsWorkbook
	if err := xml.NewDecoder(r).Decode(&wb); err != nil {
		return nil, &SourceError{Source: source, Err: err}
	}

	var rows []nsRow
	for _, ws := range wb.Worksheets {
		for _, t := range ws.Tables {
			rows = append(rows, t.Rows...)
		}
	}
	if len(rows) <= headerRowCount {
		return &SourceTable{Name: "netsuite"}, nil
	}

	table := &SourceTable{Name: "netsuite", Rows: make([]SourceRow, 0, len(rows)-headerRowCount)}
	for _, row := range rows[headerRowCount:] {
		cells := make([]string, 7)
		for i := 0; i < 7 && i < len(row.Cells); i++ {
			cells[i] = row.Cells[i].Data
		}
		sr := SourceRow{Vendor: cells[0]}
		for i := 0; i < 6; i++ {
			sr.Values[i] = coerceNumber(cells[i+1])
		}
		table.Rows = append(table.Rows, sr)
	}
	return table, nil
}
