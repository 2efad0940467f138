package services

import (
	"context"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
)

// transactionService handles direct reads and writes of ledger rows.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction inserts a single ledger row. The complex, and the owner
// when given, must already exist.
func (s *transactionService) CreateTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error) {
	if err := validateUtility(input.UtilityType); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.ComplexID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "complex_id is required")
	}
	if input.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	txn := &models.Transaction{
		UtilityType: input.UtilityType,
		Amount:      input.Amount,
		ComplexID:   input.ComplexID,
		MeterNumber: normalizeMeter(input.MeterNumber),
		OwnerID:     input.OwnerID,
		Date:        input.Date.UTC(),
	}

	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.Wrap(apperrors.ErrReferenceNotFound, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txn, nil
}

// UpdateTransaction applies a partial update and returns how many rows
// changed. A missing id yields 0 with no error.
func (s *transactionService) UpdateTransaction(ctx context.Context, id uint, fields TransactionUpdateFields) (int64, error) {
	updates := make(map[string]interface{})

	if fields.UtilityType != nil {
		if err := validateUtility(*fields.UtilityType); err != nil {
			return 0, err
		}
		updates["utility_type"] = *fields.UtilityType
	}
	if fields.Amount != nil {
		if err := validateAmount(*fields.Amount); err != nil {
			return 0, err
		}
		updates["amount"] = *fields.Amount
	}
	if fields.ComplexID != nil {
		if *fields.ComplexID == 0 {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "complex_id must be positive")
		}
		updates["complex_id"] = *fields.ComplexID
	}
	if fields.MeterNumber != nil {
		updates["meter_number"] = normalizeMeter(*fields.MeterNumber)
	}
	if fields.OwnerID != nil {
		updates["owner_id"] = *fields.OwnerID
	}
	if fields.Date != nil {
		if fields.Date.IsZero() {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must not be empty")
		}
		updates["date"] = fields.Date.UTC()
	}

	if len(updates) == 0 {
		return 0, nil
	}
	updates["updated_at"] = time.Now().UTC()

	res := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return 0, apperrors.Wrap(apperrors.ErrReferenceNotFound, res.Error)
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// GetTransactionByID retrieves a single ledger row.
func (s *transactionService) GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(txns) == 0 {
		return nil, apperrors.ErrTransactionNotFound
	}
	return &txns[0], nil
}

// ListTransactions returns a filtered window of the ledger, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := filter.apply(s.db.WithContext(ctx).Model(&models.Transaction{}), "")

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Order("id DESC").
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txns, page, totalItems)
	return &result, nil
}

// predicate is one parameterized condition of a filter.
type predicate struct {
	expr string
	arg  interface{}
}

// predicates builds the conditions for the set fields of f. Columns are
// qualified with alias when it is not empty. Every predicate is independent,
// so the result is the same whatever order filters are supplied in.
func (f TransactionFilter) predicates(alias string) []predicate {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	var preds []predicate
	if f.UtilityType != nil {
		preds = append(preds, predicate{col("utility_type") + " = ?", string(*f.UtilityType)})
	}
	if f.MinAmount != nil {
		preds = append(preds, predicate{col("amount") + " > ?", *f.MinAmount})
	}
	if f.MaxAmount != nil {
		preds = append(preds, predicate{col("amount") + " < ?", *f.MaxAmount})
	}
	if f.ComplexID != nil {
		preds = append(preds, predicate{col("complex_id") + " = ?", *f.ComplexID})
	}
	if f.OwnerID != nil {
		preds = append(preds, predicate{col("owner_id") + " = ?", *f.OwnerID})
	}
	if f.MeterSearch != nil && *f.MeterSearch != "" {
		preds = append(preds, predicate{col("meter_number") + " LIKE ?", "%" + *f.MeterSearch + "%"})
	}
	// Date bounds compare whole days: from its midnight up to the midnight after to.
	if f.DateFrom != nil {
		preds = append(preds, predicate{col("date") + " >= ?", startOfDay(*f.DateFrom)})
	}
	if f.DateTo != nil {
		preds = append(preds, predicate{col("date") + " < ?", startOfDay(*f.DateTo).AddDate(0, 0, 1)})
	}
	return preds
}

// apply narrows q to rows matching every predicate of f.
func (f TransactionFilter) apply(q *gorm.DB, alias string) *gorm.DB {
	preds := f.predicates(alias)
	if len(preds) == 0 {
		return q
	}
	exprs := make([]string, len(preds))
	args := make([]interface{}, len(preds))
	for i, p := range preds {
		exprs[i] = p.expr
		args[i] = p.arg
	}
	return q.Where(strings.Join(exprs, " AND "), args...)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateUtility(u models.UtilityType) error {
	if !u.Valid() {
		return apperrors.ErrInvalidUtilityType
	}
	return nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// normalizeMeter stores blank meter numbers as NULL.
func normalizeMeter(meter *string) *string {
	if meter == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*meter)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
