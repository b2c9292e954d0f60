package repository

import (
	"context"

	"github.com/fanexp/vip-tickets/internal/models"
	"gorm.io/gorm"
)

type ConsentRepository interface {
	Create(ctx context.Context, consent *models.Consent) error
	FindByFan(ctx context.Context, fanID uint) (*models.Consent, error)
	Save(ctx context.Context, consent *models.Consent) error
	Delete(ctx context.Context, consent *models.Consent) error
}

type consentRepository struct {
	db *gorm.DB
}

func NewConsentRepository(db *gorm.DB) ConsentRepository {
	return &consentRepository{db: db}
}

func (r *consentRepository) Create(ctx context.Context, consent *models.Consent) error {
	return r.db.WithContext(ctx).Create(consent).Error
}

func (r *consentRepository) FindByFan(ctx context.Context, fanID uint) (*models.Consent, error) {
	var consent models.Consent
	if err := r.db.WithContext(ctx).Where("fan_id = ?", fanID).First(&consent).Error; err != nil {
		return nil, err
	}
	return &consent, nil
}

func (r *consentRepository) Save(ctx context.Context, consent *models.Consent) error {
	return r.db.WithContext(ctx).Save(consent).Error
}

func (r *consentRepository) Delete(ctx context.Context, consent *models.Consent) error {
	return r.db.WithContext(ctx).Delete(consent).Error
}
