package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fanexp/vip-tickets/internal/models"
	"github.com/fanexp/vip-tickets/internal/repository"
	"gorm.io/gorm"
)

var ErrTourHasTickets = errors.New("tour has issued tickets and cannot be deleted")

// TourInput carries the fields needed to create a tour.
type TourInput struct {
	Title       string
	Date        time.Time
	City        string
	Venue       string
	Artists     string
	TicketLimit int
	Description string
	ImageURL    string
}

// TourUpdate enumerates the mutable tour fields; nil means unchanged.
type TourUpdate struct {
	Title       *string
	Date        *time.Time
	City        *string
	Venue       *string
	Artists     *string
	TicketLimit *int
	IsActive    *bool
	Description *string
	ImageURL    *string
}

// Stats summarizes the system for the admin dashboard.
type Stats struct {
	TotalFans        int64 `json:"total_fans"`
	TotalTours       int64 `json:"total_tours"`
	ActiveTours      int64 `json:"active_tours"`
	TotalSelections  int64 `json:"total_selections"`
	TicketsGenerated int64 `json:"tickets_generated"`
}

type TourService interface {
	Create(ctx context.Context, in TourInput) (*models.Tour, error)
	Get(ctx context.Context, id uint) (*models.Tour, error)
	List(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Tour, int64, error)
	Available(ctx context.Context) ([]models.Tour, error)
	Update(ctx context.Context, id uint, upd TourUpdate) (*models.Tour, error)
	ToggleActive(ctx context.Context, id uint) (*models.Tour, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*Stats, error)
}

type tourService struct {
	tours      repository.TourRepository
	fans       repository.FanRepository
	selections repository.SelectionRepository
}

func NewTourService(
	tours repository.TourRepository,
	fans repository.FanRepository,
	selections repository.SelectionRepository,
) TourService {
	return &tourService{tours: tours, fans: fans, selections: selections}
}

func (s *tourService) Create(ctx context.Context, in TourInput) (*models.Tour, error) {
	tour := &models.Tour{
		Title:       in.Title,
		Date:        in.Date,
		City:        in.City,
		Venue:       in.Venue,
		Artists:     in.Artists,
		TicketLimit: in.TicketLimit,
		IsActive:    true,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if tour.TicketLimit <= 0 {
		tour.TicketLimit = 100
	}
	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}
	return tour, nil
}

func (s *tourService) Get(ctx context.Context, id uint) (*models.Tour, error) {
	tour, err := s.tours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return tour, nil
}

func (s *tourService) List(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Tour, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.tours.FindAll(ctx, activeOnly, offset, limit)
}

func (s *tourService) Available(ctx context.Context) ([]models.Tour, error) {
	return s.tours.FindAvailable(ctx)
}

func (s *tourService) Update(ctx context.Context, id uint, upd TourUpdate) (*models.Tour, error) {
	tour, err := s.tours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	if upd.Title != nil {
		tour.Title = *upd.Title
	}
	if upd.Date != nil {
		tour.Date = *upd.Date
	}
	if upd.City != nil {
		tour.City = *upd.City
	}
	if upd.Venue != nil {
		tour.Venue = *upd.Venue
	}
	if upd.Artists != nil {
		tour.Artists = *upd.Artists
	}
	if upd.TicketLimit != nil {
		// Never shrink below what has already been claimed.
		limit := *upd.TicketLimit
		if limit < tour.TicketsClaimed {
			limit = tour.TicketsClaimed
		}
		tour.TicketLimit = limit
	}
	if upd.IsActive != nil {
		tour.IsActive = *upd.IsActive
	}
	if upd.Description != nil {
		tour.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		tour.ImageURL = *upd.ImageURL
	}

	if err := s.tours.Save(ctx, tour); err != nil {
		return nil, fmt.Errorf("update tour: %w", err)
	}
	return tour, nil
}

func (s *tourService) ToggleActive(ctx context.Context, id uint) (*models.Tour, error) {
	tour, err := s.tours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	tour.IsActive = !tour.IsActive
	if err := s.tours.Save(ctx, tour); err != nil {
		return nil, fmt.Errorf("toggle tour: %w", err)
	}
	return tour, nil
}

func (s *tourService) Delete(ctx context.Context, id uint) error {
	tour, err := s.tours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTourNotFound
		}
		return err
	}

	if tour.TicketsClaimed > 0 {
		return ErrTourHasTickets
	}

	return s.tours.Delete(ctx, tour)
}

func (s *tourService) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	if stats.TotalFans, err = s.fans.Count(ctx); err != nil {
		return nil, fmt.Errorf("count fans: %w", err)
	}
	if stats.TotalTours, err = s.tours.Count(ctx, false); err != nil {
		return nil, fmt.Errorf("count tours: %w", err)
	}
	if stats.ActiveTours, err = s.tours.Count(ctx, true); err != nil {
		return nil, fmt.Errorf("count active tours: %w", err)
	}
	if stats.TotalSelections, err = s.selections.Count(ctx); err != nil {
		return nil, fmt.Errorf("count selections: %w", err)
	}
	if stats.TicketsGenerated, err = s.selections.CountWithTickets(ctx); err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	return stats, nil
}
