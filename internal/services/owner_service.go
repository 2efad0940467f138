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

// ownerService manages owner reference data.
type ownerService struct {
	db *gorm.DB
}

// NewOwnerService creates a new OwnerServicer.
func NewOwnerService(db *gorm.DB) OwnerServicer {
	return &ownerService{db: db}
}

// EnsureOwner returns the owner with the given name, creating it if needed.
func (s *ownerService) EnsureOwner(ctx context.Context, name string) (*models.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "owner name is required")
	}

	db := s.db.WithContext(ctx)
	id, err := resolveOwner(db, name)
	if err != nil {
		return nil, err
	}
	return s.GetOwnerByID(ctx, *id)
}

// GetOwnerByID retrieves a single owner.
func (s *ownerService) GetOwnerByID(ctx context.Context, id uint) (*models.Owner, error) {
	var owners []models.Owner
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&owners).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(owners) == 0 {
		return nil, apperrors.ErrOwnerNotFound
	}
	return &owners[0], nil
}

// ListOwners returns owners ordered by name.
func (s *ownerService) ListOwners(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Owner], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Owner{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var owners []models.Owner
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC, id ASC").Find(&owners).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(owners, page, totalItems)
	return &result, nil
}

// lookupOwnerID finds an owner by exact name. A nil id means no such owner.
func lookupOwnerID(db *gorm.DB, name string) (*uint, error) {
	var ids []uint
	if err := db.Model(&models.Owner{}).Where("name = ?", name).Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

// resolveOwner maps a name onto an owner id, creating the owner when absent.
// An empty name resolves to nil. The insert tolerates a concurrent writer
// winning the race: the conflicting row is re-read once, and a miss on that
// re-read is reported as ErrEntityConflict.
//
// db may be a transaction; the insert never aborts it.
func resolveOwner(db *gorm.DB, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}

	id, err := lookupOwnerID(db, name)
	if err != nil || id != nil {
		return id, err
	}

	owner := models.Owner{Name: name}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&owner)
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.Error == nil && res.RowsAffected == 1 && owner.ID != 0 {
		return &owner.ID, nil
	}

	id, err = lookupOwnerID(db, name)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, apperrors.Wrap(apperrors.ErrEntityConflict, fmt.Errorf("owner %q not found after insert conflict", name))
	}
	return id, nil
}
