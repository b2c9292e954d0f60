package repository

import (
	"context"

	"github.com/fanexp/vip-tickets/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TourRepository interface {
	Create(ctx context.Context, tour *models.Tour) error
	FindByID(ctx context.Context, id uint) (*models.Tour, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Tour, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Tour, error)
	FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Tour, int64, error)
	FindAvailable(ctx context.Context) ([]models.Tour, error)
	Save(ctx context.Context, tour *models.Tour) error
	SaveTx(ctx context.Context, tx *gorm.DB, tour *models.Tour) error
	Delete(ctx context.Context, tour *models.Tour) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type tourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{db: db}
}

func (r *tourRepository) Create(ctx context.Context, tour *models.Tour) error {
	return r.db.WithContext(ctx).Create(tour).Error
}

func (r *tourRepository) FindByID(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.WithContext(ctx).First(&tour, id).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

// FindByIDForUpdate acquires a row-level lock on the tour within the
// given transaction. Serializes concurrent issuance for one tour.
func (r *tourRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tour, id).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *tourRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Tour, error) {
	var tours []models.Tour
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *tourRepository) FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Tour, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Tour{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tours []models.Tour
	if err := q.Order("date ASC").Offset(offset).Limit(limit).Find(&tours).Error; err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

func (r *tourRepository) FindAvailable(ctx context.Context) ([]models.Tour, error) {
	var tours []models.Tour
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND tickets_claimed < ticket_limit", true).
		Order("date ASC").
		Find(&tours).Error
	if err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *tourRepository) Save(ctx context.Context, tour *models.Tour) error {
	return r.db.WithContext(ctx).Save(tour).Error
}

func (r *tourRepository) SaveTx(ctx context.Context, tx *gorm.DB, tour *models.Tour) error {
	return tx.WithContext(ctx).Save(tour).Error
}

func (r *tourRepository) Delete(ctx context.Context, tour *models.Tour) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(tour).Error
}

func (r *tourRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Tour{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
