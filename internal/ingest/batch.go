package ingest

// Batch is the outcome of the store-independent stages of an import.
type Batch struct {
	RowsReceived int
	RowsValid    int
	Rows         []Candidate
	Errors       []RowError
	Warnings     []Warning
}

// Failed counts rows rejected by validation.
func (b *Batch) Failed() int {
	seen := make(map[int]struct{}, len(b.Errors))
	for _, e := range b.Errors {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}

// Prepare normalizes, validates, and de-duplicates the rows of one sheet.
func Prepare(rows []RawRow) *Batch {
	b := &Batch{RowsReceived: len(rows)}
	valid := make([]Candidate, 0, len(rows))
	for _, r := range rows {
		c := Normalize(r)
		if errs := Validate(c); len(errs) > 0 {
			b.Errors = append(b.Errors, errs...)
			continue
		}
		valid = append(valid, c)
	}
	b.RowsValid = len(valid)
	b.Rows, b.Warnings = DedupWithinBatch(valid)
	return b
}
