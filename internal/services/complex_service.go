package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
)

// complexService manages complexes and their optional owners.
type complexService struct {
	db *gorm.DB
}

// NewComplexService creates a new ComplexServicer.
func NewComplexService(db *gorm.DB) ComplexServicer {
	return &complexService{db: db}
}

// EnsureComplex returns the complex identified by (name, ownerID), creating
// it if needed. A non-nil ownerID must reference an existing owner.
func (s *complexService) EnsureComplex(ctx context.Context, name string, ownerID *uint) (*models.Complex, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "complex name is required")
	}

	db := s.db.WithContext(ctx)
	id, err := resolveComplex(db, name, ownerID)
	if err != nil {
		return nil, err
	}
	return s.GetComplexByID(ctx, id)
}

// GetComplexByID retrieves a single complex.
func (s *complexService) GetComplexByID(ctx context.Context, id uint) (*models.Complex, error) {
	var complexes []models.Complex
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&complexes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(complexes) == 0 {
		return nil, apperrors.ErrComplexNotFound
	}
	return &complexes[0], nil
}

// ListComplexes returns complexes ordered by name, optionally narrowed to one owner.
func (s *complexService) ListComplexes(ctx context.Context, ownerID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.Complex], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Complex{})
	if ownerID != nil {
		base = base.Where("owner_id = ?", *ownerID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var complexes []models.Complex
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC, id ASC").Find(&complexes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(complexes, page, totalItems)
	return &result, nil
}

// lookupComplexID finds a complex by name within an owner scope. A nil
// ownerID matches only ownerless complexes.
func lookupComplexID(db *gorm.DB, name string, ownerID *uint) (uint, bool, error) {
	var ids []uint
	err := db.Model(&models.Complex{}).
		Where("name = ? AND owner_scope = ?", name, models.ScopeOf(ownerID)).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// resolveComplex is the complex counterpart of resolveOwner.
func resolveComplex(db *gorm.DB, name string, ownerID *uint) (uint, error) {
	id, found, err := lookupComplexID(db, name, ownerID)
	if err != nil || found {
		return id, err
	}

	cplx := models.Complex{Name: name, OwnerID: ownerID}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cplx)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return 0, apperrors.Wrap(apperrors.ErrReferenceNotFound, res.Error)
		}
		if !isUniqueViolation(res.Error) {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
	}
	if res.Error == nil && res.RowsAffected == 1 && cplx.ID != 0 {
		return cplx.ID, nil
	}

	id, found, err = lookupComplexID(db, name, ownerID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, apperrors.Wrap(apperrors.ErrEntityConflict, fmt.Errorf("complex %q not found after insert conflict", name))
	}
	return id, nil
}
