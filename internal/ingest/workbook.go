package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook read failures. Both are fatal for a run.
var (
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
	ErrSheetNotFound      = errors.New("sheet not found")
)

// CSVSheetName is the name reported for the single sheet of a CSV upload.
const CSVSheetName = "csv"

// Sheet holds the data rows of one worksheet.
type Sheet struct {
	Name string
	Rows []RawRow
}

// ReadWorkbook parses an uploaded file and returns the requested sheet, or
// the first sheet when sheet is empty. Files named *.csv are read as a
// one-sheet workbook; everything else goes through excelize.
func ReadWorkbook(data []byte, filename, sheet string) (*Sheet, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return readCSV(data, sheet)
	}
	return readXLSX(data, sheet)
}

func readXLSX(data []byte, sheet string) (*Sheet, error) {
	// Raw values keep date cells as serial numbers instead of display strings.
	opts := excelize.Options{RawCellValue: true}
	f, err := excelize.OpenReader(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
	}
	name := sheet
	if name == "" {
		name = names[0]
	} else if !slices.Contains(names, name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	grid, err := f.GetRows(name, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	return &Sheet{Name: name, Rows: rowsFromGrid(grid)}, nil
}

func readCSV(data []byte, sheet string) (*Sheet, error) {
	if sheet != "" && sheet != CSVSheetName {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	return &Sheet{Name: CSVSheetName, Rows: rowsFromGrid(grid)}, nil
}

// rowsFromGrid treats the first row as the header and maps every following
// non-blank row onto logical fields. Row numbers are 1-based sheet rows, so
// the first data row is 2.
func rowsFromGrid(grid [][]string) []RawRow {
	if len(grid) == 0 {
		return nil
	}

	columns := make(map[string][]int)
	for idx, label := range grid[0] {
		if field, ok := FieldForHeader(label); ok {
			columns[field] = append(columns[field], idx)
		}
	}

	rows := make([]RawRow, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		raw := RawRow{Number: i + 2, Cells: make(map[string]string, len(columns))}
		for field, idxs := range columns {
			// With several columns for one field the first non-empty one wins.
			for _, idx := range idxs {
				if idx < len(cells) && strings.TrimSpace(cells[idx]) != "" {
					raw.Cells[field] = cells[idx]
					break
				}
			}
		}
		rows = append(rows, raw)
	}
	return rows
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
