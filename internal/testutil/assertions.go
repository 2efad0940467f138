package testutil

import (
	"errors"
	"testing"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/ingest"
)

// AssertAppError fails unless err carries the given code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error %s, got nil", expectedCode)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertRowError fails unless errs holds an entry for (row, field).
func AssertRowError(t *testing.T, errs []ingest.RowError, row int, field string) {
	t.Helper()

	for _, e := range errs {
		if e.Row == row && e.Field == field {
			return
		}
	}
	t.Errorf("expected a %s error on row %d, got %+v", field, row, errs)
}

// AssertWarningRows fails unless warnings point at exactly rows, in order.
func AssertWarningRows(t *testing.T, warnings []ingest.Warning, rows ...int) {
	t.Helper()

	got := make([]int, 0, len(warnings))
	for _, w := range warnings {
		if w.Row == nil {
			got = append(got, 0)
			continue
		}
		got = append(got, *w.Row)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected warnings on rows %v, got %v", rows, got)
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Fatalf("expected warnings on rows %v, got %v", rows, got)
		}
	}
}
