package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/ingest"
	"utilityledger/internal/logger"
	"utilityledger/internal/models"
	"utilityledger/internal/uuid"
)

// UpsertKeyComposite names the duplicate-detection strategy reported in results.
const UpsertKeyComposite = "composite"

// sampleSize is how many accepted rows a result previews.
const sampleSize = 3

// importService drives one spreadsheet through normalization, validation,
// de-duplication and commit, then records the run in the ledger.
type importService struct {
	db     *gorm.DB
	ledger ImportLedgerServicer
	now    func() time.Time
}

// NewImportService creates a new ImportServicer.
func NewImportService(db *gorm.DB, ledger ImportLedgerServicer) ImportServicer {
	return &importService{
		db:     db,
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Import ingests one sheet of req. Row-level problems are reported in the
// result, not as an error. An error is returned only when the file itself
// cannot be read; in that case nothing is written, ledger included.
//
// All inserts of a run share one database transaction. Any store failure
// rolls the run back and is reported through ImportResult.Error with
// Success false.
func (s *importService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	started := s.now()
	log := logger.Named("import")

	sheet, err := ingest.ReadWorkbook(req.Data, req.Filename, req.Sheet)
	if err != nil {
		log.Infow("rejected upload", "filename", req.Filename, "sheet", req.Sheet, "error", err)
		if errors.Is(err, ingest.ErrSheetNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrSheetNotFound, "Sheet \""+req.Sheet+"\" not found in workbook")
		}
		return nil, apperrors.Wrap(apperrors.ErrMalformedWorkbook, err)
	}

	batch := ingest.Prepare(sheet.Rows)
	importID := uuid.NewImportID()
	log.Infow("import started",
		"import_id", importID,
		"filename", req.Filename,
		"sheet", sheet.Name,
		"rows_received", batch.RowsReceived,
		"rows_valid", batch.RowsValid,
		"dry_run", req.DryRun,
	)

	var (
		inserted   int
		dbWarnings []ingest.Warning
		runErr     error
	)
	if req.DryRun {
		inserted, dbWarnings, runErr = s.project(ctx, batch.Rows)
	} else {
		inserted, dbWarnings, runErr = s.commit(ctx, batch.Rows)
	}

	warnings := append(emptyWarnings(), batch.Warnings...)
	rowErrors := append(emptyRowErrors(), batch.Errors...)
	result := &ImportResult{
		Success:   len(rowErrors) == 0 && runErr == nil,
		Warnings:  warnings,
		Errors:    rowErrors,
		Sample:    sampleRows(batch.Rows),
		UpsertKey: UpsertKeyComposite,
		ImportID:  importID,
	}
	if runErr != nil {
		// Nothing from the rolled back unit survives, including its warnings.
		inserted = 0
		result.Error = runErrorMessage(runErr)
		log.Errorw("import failed", "import_id", importID, "error", runErr)
	} else {
		result.Warnings = append(result.Warnings, dbWarnings...)
	}

	finished := s.now()
	result.Summary = ImportSummary{
		RowsReceived: batch.RowsReceived,
		RowsValid:    batch.RowsValid,
		Inserted:     inserted,
		Updated:      0,
		Failed:       batch.Failed(),
		DryRun:       req.DryRun,
		Sheet:        sheet.Name,
		DurationMS:   finished.Sub(started).Milliseconds(),
	}

	s.ledger.Record(ctx, &models.ImportRun{
		ImportID:     importID,
		Filename:     req.Filename,
		Sheet:        sheet.Name,
		StartedAt:    started,
		FinishedAt:   finished,
		RowsReceived: result.Summary.RowsReceived,
		RowsValid:    result.Summary.RowsValid,
		Inserted:     result.Summary.Inserted,
		Updated:      result.Summary.Updated,
		Failed:       result.Summary.Failed,
		DryRun:       req.DryRun,
		Success:      result.Success,
	}, ImportReport{
		Warnings: result.Warnings,
		Errors:   result.Errors,
		Error:    result.Error,
	})

	log.Infow("import finished",
		"import_id", importID,
		"inserted", result.Summary.Inserted,
		"failed", result.Summary.Failed,
		"warnings", len(result.Warnings),
		"success", result.Success,
		"duration_ms", result.Summary.DurationMS,
	)
	return result, nil
}

// commit resolves entities and inserts every non-duplicate row inside a
// single transaction. Only tx is used inside the closure.
func (s *importService) commit(ctx context.Context, rows []ingest.Candidate) (int, []ingest.Warning, error) {
	var (
		inserted int
		warnings []ingest.Warning
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, warnings = 0, nil
		for _, c := range rows {
			ownerID, err := resolveOwner(tx, c.OwnerName)
			if err != nil {
				return err
			}
			complexID, err := resolveComplex(tx, c.ComplexName, ownerID)
			if err != nil {
				return err
			}

			txn := transactionFromCandidate(c, complexID, ownerID)
			dup, err := findDuplicate(tx, txn)
			if err != nil {
				return err
			}
			if dup {
				warnings = append(warnings, duplicateInStore(c))
				continue
			}

			if err := tx.Create(txn).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return inserted, warnings, nil
}

// project mirrors commit without writing. Owners and complexes are looked up
// but never created; a row whose complex does not exist yet cannot be in the
// ledger, so it counts as a projected insert.
func (s *importService) project(ctx context.Context, rows []ingest.Candidate) (int, []ingest.Warning, error) {
	db := s.db.WithContext(ctx)

	var (
		inserted int
		warnings []ingest.Warning
	)
	for _, c := range rows {
		var ownerID *uint
		if c.OwnerName != "" {
			id, err := lookupOwnerID(db, c.OwnerName)
			if err != nil {
				return 0, nil, err
			}
			if id == nil {
				inserted++
				continue
			}
			ownerID = id
		}

		complexID, found, err := lookupComplexID(db, c.ComplexName, ownerID)
		if err != nil {
			return 0, nil, err
		}
		if !found {
			inserted++
			continue
		}

		dup, err := findDuplicate(db, transactionFromCandidate(c, complexID, ownerID))
		if err != nil {
			return 0, nil, err
		}
		if dup {
			warnings = append(warnings, duplicateInStore(c))
			continue
		}
		inserted++
	}
	return inserted, warnings, nil
}

func transactionFromCandidate(c ingest.Candidate, complexID uint, ownerID *uint) *models.Transaction {
	txn := &models.Transaction{
		UtilityType: models.UtilityType(c.UtilityType),
		Amount:      c.AmountFloat(),
		ComplexID:   complexID,
		OwnerID:     ownerID,
		Date:        c.Date.UTC(),
	}
	if c.MeterNumber != "" {
		meter := c.MeterNumber
		txn.MeterNumber = &meter
	}
	return txn
}

func duplicateInStore(c ingest.Candidate) ingest.Warning {
	row := c.RowNumber
	return ingest.Warning{
		Row:       &row,
		Message:   ingest.MsgDuplicateInDB,
		Composite: c.Composite(),
	}
}

func sampleRows(rows []ingest.Candidate) []SampleRow {
	n := min(len(rows), sampleSize)
	sample := make([]SampleRow, 0, n)
	for _, c := range rows[:n] {
		row := SampleRow{
			UtilityType: c.UtilityType,
			Amount:      c.AmountFloat(),
			Complex:     c.ComplexName,
			Date:        c.DateString(),
		}
		if c.OwnerName != "" {
			owner := c.OwnerName
			row.Owner = &owner
		}
		if c.MeterNumber != "" {
			meter := c.MeterNumber
			row.MeterNumber = &meter
		}
		sample = append(sample, row)
	}
	return sample
}

// runErrorMessage renders a fatal run error for the result payload without
// exposing store internals.
func runErrorMessage(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "Import cancelled before commit"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return apperrors.ErrInternalServer.Message
}

func emptyWarnings() []ingest.Warning {
	return []ingest.Warning{}
}

func emptyRowErrors() []ingest.RowError {
	return []ingest.RowError{}
}
