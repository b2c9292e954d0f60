package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fanexp/vip-tickets/internal/ident"
	"github.com/fanexp/vip-tickets/internal/models"
	"github.com/fanexp/vip-tickets/internal/repository"
	"github.com/fanexp/vip-tickets/pkg/mailer"
	"github.com/fanexp/vip-tickets/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrFanNotFound       = errors.New("fan not found")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrEmailTaken        = errors.New("email already registered")
	ErrCodeGeneration    = errors.New("could not generate a unique registration code")
	ErrSelectionNotFound = errors.New("selection not found")
	ErrSelectionLimit    = errors.New("maximum number of tour selections reached")
	ErrAlreadySelected   = errors.New("tour already selected")
	ErrHasTicket         = errors.New("cannot remove selection, ticket already generated")
)

// Bounded retry for registration-code collisions; past this the
// registration fails instead of looping.
const maxCodeAttempts = 10

// RegisterInput carries validated fan registration data.
type RegisterInput struct {
	Email string
	Name  string
	Phone string
}

// FanUpdate enumerates the mutable fan fields; nil means unchanged.
type FanUpdate struct {
	Name     *string
	Phone    *string
	IsActive *bool
}

type FanService interface {
	Register(ctx context.Context, in RegisterInput) (*models.Fan, error)
	Get(ctx context.Context, id uint) (*models.Fan, error)
	GetByEmail(ctx context.Context, email string) (*models.Fan, error)
	GetByCode(ctx context.Context, code string) (*models.Fan, error)
	Update(ctx context.Context, id uint, upd FanUpdate) (*models.Fan, error)
	AddSelection(ctx context.Context, fanID, tourID uint) (*models.Selection, error)
	AddSelectionsBulk(ctx context.Context, fanID uint, tourIDs []uint) ([]models.Selection, error)
	ListSelections(ctx context.Context, fanID uint) ([]models.Selection, error)
	RemoveSelection(ctx context.Context, fanID, selectionID uint) error
}

type fanService struct {
	fans       repository.FanRepository
	tours      repository.TourRepository
	selections repository.SelectionRepository
	mail       *mailer.Mailer
	publisher  *rabbitmq.Publisher
	maxTours   int
}

func NewFanService(
	fans repository.FanRepository,
	tours repository.TourRepository,
	selections repository.SelectionRepository,
	mail *mailer.Mailer,
	publisher *rabbitmq.Publisher,
	maxTours int,
) FanService {
	return &fanService{
		fans:       fans,
		tours:      tours,
		selections: selections,
		mail:       mail,
		publisher:  publisher,
		maxTours:   maxTours,
	}
}

func (s *fanService) Register(ctx context.Context, in RegisterInput) (*models.Fan, error) {
	if !ident.ValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !ident.ValidPhone(in.Phone) {
		return nil, ErrInvalidPhone
	}

	_, err := s.fans.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	fan := &models.Fan{
		Email:            in.Email,
		Name:             in.Name,
		Phone:            in.Phone,
		RegistrationCode: code,
		IsActive:         true,
		RegisteredAt:     time.Now().UTC(),
	}
	if err := s.fans.Create(ctx, fan); err != nil {
		return nil, fmt.Errorf("create fan: %w", err)
	}

	_ = s.publisher.Publish(rabbitmq.KeyFanRegistered, fan)

	if s.mail != nil {
		go func(email, name, code string) {
			if err := s.mail.SendRegistration(email, name, code); err != nil {
				log.Printf("registration mail: %v", err)
			}
		}(fan.Email, fan.Name, fan.RegistrationCode)
	}

	return fan, nil
}

// uniqueCode draws registration codes until one is unused, with a hard
// attempt cap.
func (s *fanService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := ident.RegistrationCode()
		exists, err := s.fans.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check registration code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

func (s *fanService) Get(ctx context.Context, id uint) (*models.Fan, error) {
	fan, err := s.fans.FindByIDFull(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}
	return fan, nil
}

func (s *fanService) GetByEmail(ctx context.Context, email string) (*models.Fan, error) {
	fan, err := s.fans.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}
	return fan, nil
}

func (s *fanService) GetByCode(ctx context.Context, code string) (*models.Fan, error) {
	fan, err := s.fans.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}
	return fan, nil
}

func (s *fanService) Update(ctx context.Context, id uint, upd FanUpdate) (*models.Fan, error) {
	fan, err := s.fans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}

	if upd.Name != nil {
		fan.Name = *upd.Name
	}
	if upd.Phone != nil {
		fan.Phone = *upd.Phone
	}
	if upd.IsActive != nil {
		fan.IsActive = *upd.IsActive
	}

	if err := s.fans.Save(ctx, fan); err != nil {
		return nil, fmt.Errorf("update fan: %w", err)
	}
	return fan, nil
}

func (s *fanService) AddSelection(ctx context.Context, fanID, tourID uint) (*models.Selection, error) {
	selections, err := s.AddSelectionsBulk(ctx, fanID, []uint{tourID})
	if err != nil {
		return nil, err
	}
	return &selections[0], nil
}

// AddSelectionsBulk creates every selection or none: ceiling breaches,
// missing tours, unavailable tours and duplicates all reject the batch.
func (s *fanService) AddSelectionsBulk(ctx context.Context, fanID uint, tourIDs []uint) ([]models.Selection, error) {
	if _, err := s.fans.FindByID(ctx, fanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}

	current, err := s.selections.CountLiveByFan(ctx, fanID)
	if err != nil {
		return nil, fmt.Errorf("count selections: %w", err)
	}
	if int(current)+len(tourIDs) > s.maxTours {
		return nil, ErrSelectionLimit
	}

	tours, err := s.tours.FindByIDs(ctx, tourIDs)
	if err != nil {
		return nil, fmt.Errorf("load tours: %w", err)
	}
	if len(tours) != len(tourIDs) {
		return nil, ErrTourNotFound
	}
	for i := range tours {
		if !tours[i].IsAvailable() {
			return nil, ErrTourUnavailable
		}
	}

	existing, err := s.selections.FindByFan(ctx, fanID)
	if err != nil {
		return nil, fmt.Errorf("load selections: %w", err)
	}
	taken := make(map[uint]bool, len(existing))
	for i := range existing {
		if existing[i].Status != models.SelectionCancelled {
			taken[existing[i].TourID] = true
		}
	}
	requested := make(map[uint]bool, len(tourIDs))
	for _, id := range tourIDs {
		if taken[id] || requested[id] {
			return nil, ErrAlreadySelected
		}
		requested[id] = true
	}

	now := time.Now().UTC()
	selections := make([]models.Selection, len(tourIDs))
	err = s.selections.Transaction(ctx, func(tx *gorm.DB) error {
		for i, tourID := range tourIDs {
			selections[i] = models.Selection{
				FanID:      fanID,
				TourID:     tourID,
				Status:     models.SelectionPending,
				SelectedAt: now,
			}
			if err := s.selections.Create(ctx, tx, &selections[i]); err != nil {
				return fmt.Errorf("create selection for tour %d: %w", tourID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range selections {
		for j := range tours {
			if tours[j].ID == selections[i].TourID {
				selections[i].Tour = &tours[j]
			}
		}
	}
	return selections, nil
}

func (s *fanService) ListSelections(ctx context.Context, fanID uint) ([]models.Selection, error) {
	if _, err := s.fans.FindByID(ctx, fanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}
	return s.selections.FindByFan(ctx, fanID)
}

func (s *fanService) RemoveSelection(ctx context.Context, fanID, selectionID uint) error {
	selection, err := s.selections.FindByFanAndID(ctx, fanID, selectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSelectionNotFound
		}
		return err
	}

	if selection.HasTicket() {
		return ErrHasTicket
	}

	return s.selections.Delete(ctx, selection)
}
