package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// DefaultHeader is the column layout used by most import fixtures.
var DefaultHeader = []interface{}{"Utility", "Amount", "Complex", "Owner", "Meter", "Date"}

// BuildWorkbook writes rows (header first) into an in-memory xlsx with a single
// sheet of the given name and returns its bytes.
func BuildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	return BuildMultiSheetWorkbook(t, map[string][][]interface{}{sheet: rows}, sheet)
}

// BuildMultiSheetWorkbook writes several sheets; first names the sheet that
// replaces the default "Sheet1".
func BuildMultiSheetWorkbook(t *testing.T, sheets map[string][][]interface{}, first string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", first); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	for name, rows := range sheets {
		if name != first {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("failed to add sheet %q: %v", name, err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("failed to compute cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("failed to write row %d: %v", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialise workbook: %v", err)
	}
	return buf.Bytes()
}

// ImportRows prepends DefaultHeader to data rows.
func ImportRows(rows ...[]interface{}) [][]interface{} {
	return append([][]interface{}{DefaultHeader}, rows...)
}
