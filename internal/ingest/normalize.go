package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// headerAliases maps normalized header labels onto logical fields.
var headerAliases = map[string]string{
	"utility":      FieldUtility,
	"utility type": FieldUtility,
	"amount":       FieldAmount,
	"complex":      FieldComplex,
	"complex name": FieldComplex,
	"owner":        FieldOwner,
	"owner name":   FieldOwner,
	"meter":        FieldMeter,
	"meter number": FieldMeter,
	"meter no":     FieldMeter,
	"date":         FieldDate,
	"date time":    FieldDate,
}

// maxExcelSerial is 9999-12-31, the last date a spreadsheet can represent.
const maxExcelSerial = 2958465

// dateLayouts are tried in order for textual dates. Layouts without a zone
// are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/1/2",
	"1/2/2006",
	"1/2/2006 15:04",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// FieldForHeader resolves a column label to its logical field, tolerating
// case, surrounding space, and "_"/"-" used as word separators.
func FieldForHeader(label string) (string, bool) {
	f, ok := headerAliases[normalizeHeader(label)]
	return f, ok
}

func normalizeHeader(label string) string {
	label = strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(label))
	return strings.Join(strings.Fields(label), " ")
}

// Normalize converts a raw row into a candidate.
func Normalize(row RawRow) Candidate {
	return Candidate{
		RowNumber:   row.Number,
		UtilityType: strings.ToLower(strings.TrimSpace(row.Cells[FieldUtility])),
		Amount:      ParseAmount(row.Cells[FieldAmount]),
		ComplexName: strings.TrimSpace(row.Cells[FieldComplex]),
		OwnerName:   strings.TrimSpace(row.Cells[FieldOwner]),
		MeterNumber: strings.TrimSpace(row.Cells[FieldMeter]),
		Date:        ParseDate(row.Cells[FieldDate]),
	}
}

// ParseAmount parses a numeric cell, discarding thousands separators and
// whitespace. Returns nil when the value is not a number.
func ParseAmount(raw string) *decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}

// ParseDate converts a cell into a UTC instant. Numeric cells are read as
// spreadsheet date serials; anything else is tried against dateLayouts.
// Returns nil for empty or unparseable input.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(serial) && serial > 0 && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		t = t.UTC().Round(time.Second)
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
