package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/logger"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
)

// importLedgerService records one entry per import run.
type importLedgerService struct {
	db *gorm.DB
}

// NewImportLedgerService creates a new ImportLedgerServicer.
func NewImportLedgerService(db *gorm.DB) ImportLedgerServicer {
	return &importLedgerService{db: db}
}

// Record upserts the ledger entry for run, keyed by import id. Errors are
// logged but never propagate: a failed ledger write must not change the
// outcome already reported to the caller.
func (s *importLedgerService) Record(ctx context.Context, run *models.ImportRun, report ImportReport) {
	if report.Warnings == nil {
		report.Warnings = emptyWarnings()
	}
	if report.Errors == nil {
		report.Errors = emptyRowErrors()
	}

	data, err := json.Marshal(report)
	if err != nil {
		logger.Get().Errorw("failed to marshal import report", "error", err, "import_id", run.ImportID)
		data = []byte("{}")
	}
	run.ReportJSON = string(data)

	// The entry is written even if the request that triggered it has gone away.
	db := s.db.WithContext(context.WithoutCancel(ctx))
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "import_id"}},
		UpdateAll: true,
	}).Create(run).Error; err != nil {
		logger.Get().Errorw("failed to record import run",
			"error", err,
			"import_id", run.ImportID,
			"filename", run.Filename,
			"success", run.Success,
		)
	}
}

// ListRuns returns ledger entries, most recent first.
func (s *importLedgerService) ListRuns(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ImportRun], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.ImportRun{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var runs []models.ImportRun
	if err := base.Scopes(pagination.Paginate(page)).
		Order("started_at DESC").
		Order("import_id DESC").
		Find(&runs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(runs, page, totalItems)
	return &result, nil
}

// GetRun returns a single ledger entry with its decoded report.
func (s *importLedgerService) GetRun(ctx context.Context, importID string) (*ImportRunDetail, error) {
	var runs []models.ImportRun
	if err := s.db.WithContext(ctx).Where("import_id = ?", importID).Limit(1).Find(&runs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(runs) == 0 {
		return nil, apperrors.ErrImportNotFound
	}

	detail := &ImportRunDetail{ImportRun: runs[0]}
	if runs[0].ReportJSON != "" {
		if err := json.Unmarshal([]byte(runs[0].ReportJSON), &detail.Report); err != nil {
			logger.Get().Warnw("stored import report is not valid JSON", "error", err, "import_id", importID)
		}
	}
	if detail.Report.Warnings == nil {
		detail.Report.Warnings = emptyWarnings()
	}
	if detail.Report.Errors == nil {
		detail.Report.Errors = emptyRowErrors()
	}
	return detail, nil
}
