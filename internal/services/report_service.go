package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/models"
)

// totalsScale is the number of decimal places kept in aggregated amounts.
const totalsScale = 6

// reportService computes aggregations over the ledger. Sums run in the
// store and ignore pagination.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// TotalsByUtility sums amounts per utility type over the filtered ledger.
func (s *reportService) TotalsByUtility(ctx context.Context, filter TransactionFilter) (*UtilityTotals, error) {
	var rows []struct {
		UtilityType string
		Total       float64
	}

	q := s.db.WithContext(ctx).
		Table("transactions t").
		Select("t.utility_type AS utility_type, SUM(t.amount) AS total")
	if err := filter.apply(q, "t").Group("t.utility_type").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	buckets := make(map[models.UtilityType]float64, len(models.UtilityTypes))
	for _, r := range rows {
		// Store sums carry float noise (0.1+0.2); round it off per bucket.
		buckets[models.UtilityType(r.UtilityType)] = roundTotal(r.Total)
	}

	totals := &UtilityTotals{
		Water:       buckets[models.UtilityWater],
		Electricity: buckets[models.UtilityElectricity],
		Gas:         buckets[models.UtilityGas],
	}
	totals.All = totals.Water + totals.Electricity + totals.Gas
	return totals, nil
}

// TotalsByOwner sums amounts per owner, largest first. Rows without an owner
// fall into a single group with a nil owner.
func (s *reportService) TotalsByOwner(ctx context.Context, filter TransactionFilter) ([]OwnerTotal, error) {
	var rows []OwnerTotal

	q := s.db.WithContext(ctx).
		Table("transactions t").
		Select("o.id AS owner_id, o.name AS owner_name, SUM(t.amount) AS total").
		Joins("LEFT JOIN owners o ON o.id = t.owner_id")
	err := filter.apply(q, "t").
		Group("o.id, o.name").
		Order("total DESC").
		Order("owner_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []OwnerTotal{}
	}
	for i := range rows {
		rows[i].Total = roundTotal(rows[i].Total)
	}
	return rows, nil
}

// TotalsByComplex sums amounts per complex, largest first.
func (s *reportService) TotalsByComplex(ctx context.Context, filter TransactionFilter) ([]ComplexTotal, error) {
	var rows []ComplexTotal

	q := s.db.WithContext(ctx).
		Table("transactions t").
		Select("c.id AS complex_id, c.name AS complex_name, SUM(t.amount) AS total").
		Joins("LEFT JOIN complexes c ON c.id = t.complex_id")
	err := filter.apply(q, "t").
		Group("c.id, c.name").
		Order("total DESC").
		Order("complex_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []ComplexTotal{}
	}
	for i := range rows {
		rows[i].Total = roundTotal(rows[i].Total)
	}
	return rows, nil
}

func roundTotal(v float64) float64 {
	return decimal.NewFromFloat(v).Round(totalsScale).InexactFloat64()
}
