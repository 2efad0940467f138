package ingest

import (
	"strings"
	"time"
)

// Key is the composite identity of a candidate:
// (date, complex, meter, amount, utility). Values are compared exactly.
func (c Candidate) Key() string {
	amount := ""
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	date := ""
	if c.Date != nil {
		date = c.Date.UTC().Format(time.RFC3339Nano)
	}
	return strings.Join([]string{date, c.ComplexName, c.MeterNumber, amount, c.UtilityType}, "\x1f")
}

// DedupWithinBatch keeps the first occurrence of every key and reports each
// later one as a warning, in input order.
func DedupWithinBatch(cands []Candidate) ([]Candidate, []Warning) {
	seen := make(map[string]struct{}, len(cands))
	unique := make([]Candidate, 0, len(cands))
	var warnings []Warning
	for _, c := range cands {
		k := c.Key()
		if _, dup := seen[k]; dup {
			row := c.RowNumber
			warnings = append(warnings, Warning{Row: &row, Message: MsgDuplicateInFile})
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, c)
	}
	return unique, warnings
}
