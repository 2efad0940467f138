package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"utilityledger/internal/ingest"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
	"utilityledger/internal/testutil"
	"utilityledger/internal/uuid"
)

// scenarioWorkbook holds one valid row, an exact duplicate of it, and a row
// with an unparseable amount.
func scenarioWorkbook(t *testing.T) []byte {
	t.Helper()
	return testutil.BuildWorkbook(t, "Readings", testutil.ImportRows(
		[]interface{}{"Water", 100, "C1", "Acme", "M-1", "2024-01-01"},
		[]interface{}{"Water", 100, "C1", "Acme", "M-1", "2024-01-01"},
		[]interface{}{"gas", "abc", "C1", "Acme", "M-2", "2024-01-01"},
	))
}

func newImportFixture(t *testing.T) (*gorm.DB, ImportServicer, ImportLedgerServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ledger := NewImportLedgerService(db)
	return db, NewImportService(db, ledger), ledger
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestImport_Scenario(t *testing.T) {
	db, svc, ledger := newImportFixture(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()

	res, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: scenarioWorkbook(t)})
	testutil.AssertNoError(t, err)

	if res.Summary.RowsReceived != 3 || res.Summary.RowsValid != 2 {
		t.Errorf("expected 3 received and 2 valid, got %+v", res.Summary)
	}
	if res.Summary.Inserted != 1 || res.Summary.Failed != 1 || res.Summary.Updated != 0 {
		t.Errorf("expected 1 inserted and 1 failed, got %+v", res.Summary)
	}
	if res.Summary.Sheet != "Readings" || res.Summary.DryRun {
		t.Errorf("unexpected summary: %+v", res.Summary)
	}
	if res.Success {
		t.Error("a run with validation errors is not successful")
	}
	if res.Error != "" {
		t.Errorf("expected no fatal error, got %q", res.Error)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Message != ingest.MsgDuplicateInFile || *res.Warnings[0].Row != 3 {
		t.Errorf("expected one in-file duplicate warning for row 3, got %+v", res.Warnings)
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected one row error, got %+v", res.Errors)
	}
	testutil.AssertRowError(t, res.Errors, 4, ingest.FieldAmount)
	if res.UpsertKey != "composite" || !uuid.IsImportID(res.ImportID) {
		t.Errorf("unexpected upsert key or import id: %q %q", res.UpsertKey, res.ImportID)
	}
	if len(res.Sample) != 1 || res.Sample[0].Complex != "C1" || *res.Sample[0].Owner != "Acme" {
		t.Errorf("unexpected sample: %+v", res.Sample)
	}

	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Errorf("expected 1 transaction, got %d", n)
	}
	if n := countRows(t, db, &models.Owner{}); n != 1 {
		t.Errorf("expected 1 owner, got %d", n)
	}

	run, err := ledger.GetRun(ctx, res.ImportID)
	testutil.AssertNoError(t, err)
	if run.Inserted != 1 || run.Failed != 1 || run.Sheet != "Readings" || run.Filename != "readings.xlsx" {
		t.Errorf("unexpected ledger entry: %+v", run.ImportRun)
	}
	if len(run.Report.Errors) != 1 || len(run.Report.Warnings) != 1 {
		t.Errorf("expected report to carry 1 error and 1 warning, got %+v", run.Report)
	}
}

func TestImport_ReimportInsertsNothing(t *testing.T) {
	db, svc, _ := newImportFixture(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()
	data := scenarioWorkbook(t)

	_, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: data})
	testutil.AssertNoError(t, err)
	res, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: data})
	testutil.AssertNoError(t, err)

	if res.Summary.Inserted != 0 {
		t.Errorf("expected 0 inserted on re-import, got %d", res.Summary.Inserted)
	}
	var dbDup *ingest.Warning
	for i := range res.Warnings {
		if res.Warnings[i].Message == ingest.MsgDuplicateInDB {
			dbDup = &res.Warnings[i]
		}
	}
	if dbDup == nil {
		t.Fatalf("expected a store duplicate warning, got %+v", res.Warnings)
	}
	if dbDup.Composite == nil || dbDup.Composite.Complex != "C1" || dbDup.Composite.Meter != "M-1" ||
		dbDup.Composite.Amount != 100 || dbDup.Composite.Utility != "water" || dbDup.Composite.Date != "2024-01-01T00:00:00Z" {
		t.Errorf("unexpected composite: %+v", dbDup.Composite)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Errorf("expected ledger to still hold 1 transaction, got %d", n)
	}
	if n := countRows(t, db, &models.Complex{}); n != 1 {
		t.Errorf("expected 1 complex, got %d", n)
	}
}

func TestImport_DryRun(t *testing.T) {
	t.Run("fresh_store", func(t *testing.T) {
		db, svc, ledger := newImportFixture(t)
		defer testutil.TeardownTestDB(t, db)
		ctx := context.Background()

		res, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: scenarioWorkbook(t), DryRun: true})
		testutil.AssertNoError(t, err)

		if !res.Summary.DryRun || res.Summary.Inserted != 1 {
			t.Errorf("expected dry run projecting 1 insert, got %+v", res.Summary)
		}
		for _, m := range []interface{}{&models.Owner{}, &models.Complex{}, &models.Transaction{}} {
			if n := countRows(t, db, m); n != 0 {
				t.Errorf("dry run wrote %d rows of %T", n, m)
			}
		}

		runs, err := ledger.ListRuns(ctx, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if runs.TotalItems != 1 || !runs.Data[0].DryRun {
			t.Errorf("expected one dry-run ledger entry, got %+v", runs.Data)
		}
	})

	t.Run("detects_store_duplicates", func(t *testing.T) {
		db, svc, _ := newImportFixture(t)
		defer testutil.TeardownTestDB(t, db)
		ctx := context.Background()
		data := scenarioWorkbook(t)

		_, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: data})
		testutil.AssertNoError(t, err)
		before := countRows(t, db, &models.Transaction{})

		res, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: data, DryRun: true})
		testutil.AssertNoError(t, err)

		if res.Summary.Inserted != 0 {
			t.Errorf("expected 0 projected inserts, got %d", res.Summary.Inserted)
		}
		testutil.AssertWarningRows(t, res.Warnings, 3, 2)
		if res.Warnings[1].Message != ingest.MsgDuplicateInDB {
			t.Errorf("expected a store duplicate warning last, got %+v", res.Warnings)
		}
		if after := countRows(t, db, &models.Transaction{}); after != before {
			t.Errorf("dry run changed transaction count from %d to %d", before, after)
		}
	})
}

func TestImport_OwnerScoping(t *testing.T) {
	db, svc, _ := newImportFixture(t)
	defer testutil.TeardownTestDB(t, db)

	data := testutil.BuildWorkbook(t, "Sheet1", testutil.ImportRows(
		[]interface{}{"water", 1, "Sunset", "Acme", "", "2024-01-01"},
		[]interface{}{"water", 2, "Sunset", "Globex", "", "2024-01-01"},
		[]interface{}{"water", 3, "Sunset", "", "", "2024-01-01"},
		[]interface{}{"gas", 4, "Sunset", "Acme", "", "2024-01-02"},
	))
	res, err := svc.Import(context.Background(), ImportRequest{Filename: "scoped.xlsx", Data: data})
	testutil.AssertNoError(t, err)

	if !res.Success || res.Summary.Inserted != 4 {
		t.Fatalf("expected a clean run with 4 inserts, got %+v", res.Summary)
	}
	if n := countRows(t, db, &models.Complex{}); n != 3 {
		t.Errorf("expected 3 complexes named Sunset, got %d", n)
	}
	if n := countRows(t, db, &models.Owner{}); n != 2 {
		t.Errorf("expected 2 owners, got %d", n)
	}
	if len(res.Sample) != 3 {
		t.Errorf("expected sample of 3 rows, got %d", len(res.Sample))
	}
}

func TestImport_MalformedInput(t *testing.T) {
	t.Run("unreadable", func(t *testing.T) {
		db, svc, _ := newImportFixture(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := svc.Import(context.Background(), ImportRequest{Filename: "x.xlsx", Data: []byte("not a workbook")})
		testutil.AssertAppError(t, err, "MALFORMED_WORKBOOK")
		if n := countRows(t, db, &models.ImportRun{}); n != 0 {
			t.Errorf("malformed input must not be ledgered, got %d entries", n)
		}
	})

	t.Run("missing_sheet", func(t *testing.T) {
		db, svc, _ := newImportFixture(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := svc.Import(context.Background(), ImportRequest{Filename: "x.xlsx", Data: scenarioWorkbook(t), Sheet: "Nope"})
		testutil.AssertAppError(t, err, "SHEET_NOT_FOUND")
		if n := countRows(t, db, &models.ImportRun{}); n != 0 {
			t.Errorf("missing sheet must not be ledgered, got %d entries", n)
		}
	})
}

func TestImport_FatalErrorRollsBack(t *testing.T) {
	db, svc, ledger := newImportFixture(t)
	defer testutil.TeardownTestDB(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Import(ctx, ImportRequest{Filename: "readings.xlsx", Data: scenarioWorkbook(t)})
	testutil.AssertNoError(t, err)

	if res.Success || res.Error == "" {
		t.Errorf("expected failed run with an error message, got %+v", res)
	}
	if res.Summary.Inserted != 0 {
		t.Errorf("expected 0 inserted after rollback, got %d", res.Summary.Inserted)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 0 {
		t.Errorf("expected no transactions after rollback, got %d", n)
	}

	run, err := ledger.GetRun(context.Background(), res.ImportID)
	testutil.AssertNoError(t, err)
	if run.Success || run.Report.Error == "" {
		t.Errorf("expected failed ledger entry with error, got %+v", run)
	}
}

func TestImport_CSV(t *testing.T) {
	db, svc, _ := newImportFixture(t)
	defer testutil.TeardownTestDB(t, db)

	csv := "Utility,Amount,Complex,Owner,Meter,Date\nelectricity,12.5,Tower,,E-1,2024-03-01\n"
	res, err := svc.Import(context.Background(), ImportRequest{Filename: "export.csv", Data: []byte(csv)})
	testutil.AssertNoError(t, err)

	if !res.Success || res.Summary.Inserted != 1 || res.Summary.Sheet != ingest.CSVSheetName {
		t.Errorf("unexpected CSV result: %+v", res.Summary)
	}
}

func TestImport_AmountOutsideFloatRange(t *testing.T) {
	db, svc, _ := newImportFixture(t)
	defer testutil.TeardownTestDB(t, db)

	csv := "Utility,Amount,Complex,Owner,Meter,Date\n" +
		"water,10,C1,,M1,2024-01-01\n" +
		"water,1e400,C1,,M1,2024-01-02\n" +
		"water,1e-400,C1,,M1,2024-01-03\n"
	res, err := svc.Import(context.Background(), ImportRequest{Filename: "export.csv", Data: []byte(csv)})
	testutil.AssertNoError(t, err)

	if res.Summary.Inserted != 1 || res.Summary.Failed != 2 {
		t.Fatalf("expected 1 inserted and 2 failed, got %+v", res.Summary)
	}
	testutil.AssertRowError(t, res.Errors, 3, ingest.FieldAmount)
	testutil.AssertRowError(t, res.Errors, 4, ingest.FieldAmount)
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Errorf("expected the valid row to be stored, got %d rows", n)
	}
}
