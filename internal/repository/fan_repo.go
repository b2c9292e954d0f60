package repository

import (
	"context"

	"github.com/fanexp/vip-tickets/internal/models"
	"gorm.io/gorm"
)

type FanRepository interface {
	Create(ctx context.Context, fan *models.Fan) error
	FindByID(ctx context.Context, id uint) (*models.Fan, error)
	FindByIDFull(ctx context.Context, id uint) (*models.Fan, error)
	FindByEmail(ctx context.Context, email string) (*models.Fan, error)
	FindByCode(ctx context.Context, code string) (*models.Fan, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, fan *models.Fan) error
	Count(ctx context.Context) (int64, error)
}

type fanRepository struct {
	db *gorm.DB
}

func NewFanRepository(db *gorm.DB) FanRepository {
	return &fanRepository{db: db}
}

func (r *fanRepository) Create(ctx context.Context, fan *models.Fan) error {
	return r.db.WithContext(ctx).Create(fan).Error
}

func (r *fanRepository) FindByID(ctx context.Context, id uint) (*models.Fan, error) {
	var fan models.Fan
	if err := r.db.WithContext(ctx).Preload("Consent").First(&fan, id).Error; err != nil {
		return nil, err
	}
	return &fan, nil
}

// FindByIDFull loads the fan with selections (and their tours) and consent.
func (r *fanRepository) FindByIDFull(ctx context.Context, id uint) (*models.Fan, error) {
	var fan models.Fan
	err := r.db.WithContext(ctx).
		Preload("Selections", func(db *gorm.DB) *gorm.DB { return db.Order("selections.id ASC") }).
		Preload("Selections.Tour").
		Preload("Consent").
		First(&fan, id).Error
	if err != nil {
		return nil, err
	}
	return &fan, nil
}

func (r *fanRepository) FindByEmail(ctx context.Context, email string) (*models.Fan, error) {
	var fan models.Fan
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&fan).Error; err != nil {
		return nil, err
	}
	return &fan, nil
}

func (r *fanRepository) FindByCode(ctx context.Context, code string) (*models.Fan, error) {
	var fan models.Fan
	if err := r.db.WithContext(ctx).Where("registration_code = ?", code).First(&fan).Error; err != nil {
		return nil, err
	}
	return &fan, nil
}

func (r *fanRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Fan{}).
		Where("registration_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *fanRepository) Save(ctx context.Context, fan *models.Fan) error {
	return r.db.WithContext(ctx).Save(fan).Error
}

func (r *fanRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Fan{}).Count(&count).Error
	return count, err
}
