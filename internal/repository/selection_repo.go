package repository

import (
	"context"

	"github.com/fanexp/vip-tickets/internal/models"
	"gorm.io/gorm"
)

type SelectionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *models.Selection) error
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*models.Selection, error)
	FindByIDFull(ctx context.Context, id uint) (*models.Selection, error)
	FindByFan(ctx context.Context, fanID uint) ([]models.Selection, error)
	FindByFanAndID(ctx context.Context, fanID, id uint) (*models.Selection, error)
	FindByTicketID(ctx context.Context, ticketID string) (*models.Selection, error)
	CountLiveByFan(ctx context.Context, fanID uint) (int64, error)
	SaveTx(ctx context.Context, tx *gorm.DB, s *models.Selection) error
	Delete(ctx context.Context, s *models.Selection) error
	Count(ctx context.Context) (int64, error)
	CountWithTickets(ctx context.Context) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type selectionRepository struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

func (r *selectionRepository) Create(ctx context.Context, tx *gorm.DB, s *models.Selection) error {
	return tx.WithContext(ctx).Create(s).Error
}

// FindByIDTx re-reads the selection inside a transaction so issuance
// decisions see committed state under the tour row lock.
func (r *selectionRepository) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*models.Selection, error) {
	var s models.Selection
	if err := tx.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByIDFull loads the selection with its fan and tour.
func (r *selectionRepository) FindByIDFull(ctx context.Context, id uint) (*models.Selection, error) {
	var s models.Selection
	err := r.db.WithContext(ctx).
		Preload("Fan").
		Preload("Fan.Consent").
		Preload("Tour").
		First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *selectionRepository) FindByFan(ctx context.Context, fanID uint) ([]models.Selection, error) {
	var selections []models.Selection
	err := r.db.WithContext(ctx).
		Preload("Tour").
		Where("fan_id = ?", fanID).
		Order("id ASC").
		Find(&selections).Error
	if err != nil {
		return nil, err
	}
	return selections, nil
}

func (r *selectionRepository) FindByFanAndID(ctx context.Context, fanID, id uint) (*models.Selection, error) {
	var s models.Selection
	err := r.db.WithContext(ctx).
		Where("id = ? AND fan_id = ?", id, fanID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *selectionRepository) FindByTicketID(ctx context.Context, ticketID string) (*models.Selection, error) {
	var s models.Selection
	err := r.db.WithContext(ctx).
		Preload("Fan").
		Preload("Tour").
		Where("ticket_id = ?", ticketID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountLiveByFan counts selections that hold or may still claim a
// ticket; cancelled ones don't count against the fan's ceiling.
func (r *selectionRepository) CountLiveByFan(ctx context.Context, fanID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Selection{}).
		Where("fan_id = ? AND status <> ?", fanID, models.SelectionCancelled).
		Count(&count).Error
	return count, err
}

func (r *selectionRepository) SaveTx(ctx context.Context, tx *gorm.DB, s *models.Selection) error {
	return tx.WithContext(ctx).Save(s).Error
}

func (r *selectionRepository) Delete(ctx context.Context, s *models.Selection) error {
	return r.db.WithContext(ctx).Delete(s).Error
}

func (r *selectionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Selection{}).Count(&count).Error
	return count, err
}

func (r *selectionRepository) CountWithTickets(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Selection{}).
		Where("ticket_id <> ''").
		Count(&count).Error
	return count, err
}

func (r *selectionRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
