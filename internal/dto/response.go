package dto

import (
	"time"

	"github.com/fanexp/vip-tickets/internal/models"
)

type FanResponse struct {
	ID               uint                `json:"id"`
	Email            string              `json:"email"`
	Name             string              `json:"name"`
	Phone            string              `json:"phone,omitempty"`
	RegistrationCode string              `json:"registration_code"`
	IsActive         bool                `json:"is_active"`
	RegisteredAt     time.Time           `json:"registered_at"`
	ConsentCompleted bool                `json:"consent_completed"`
	SelectionCount   int                 `json:"selection_count"`
	Selections       []SelectionResponse `json:"selections,omitempty"`
}

type TourResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Date             time.Time `json:"date"`
	City             string    `json:"city"`
	Venue            string    `json:"venue"`
	Artists          string    `json:"artists"`
	TicketLimit      int       `json:"ticket_limit"`
	TicketsClaimed   int       `json:"tickets_claimed"`
	TicketsRemaining int       `json:"tickets_remaining"`
	IsActive         bool      `json:"is_active"`
	IsAvailable      bool      `json:"is_available"`
	Description      string    `json:"description,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
}

type TourListResponse struct {
	Tours  []TourResponse `json:"tours"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

type SelectionResponse struct {
	ID                uint                   `json:"id"`
	TourID            uint                   `json:"tour_id"`
	Status            models.SelectionStatus `json:"status"`
	TicketID          string                 `json:"ticket_id,omitempty"`
	TicketGeneratedAt *time.Time             `json:"ticket_generated_at,omitempty"`
	SelectedAt        time.Time              `json:"selected_at"`
	ConfirmedAt       *time.Time             `json:"confirmed_at,omitempty"`
	Tour              *TourResponse          `json:"tour,omitempty"`
}

type ConsentResponse struct {
	ID                uint       `json:"id"`
	FanID             uint       `json:"fan_id"`
	AgreedToTerms     bool       `json:"agreed_to_terms"`
	AgreedToPrivacy   bool       `json:"agreed_to_privacy"`
	AgreedToMarketing bool       `json:"agreed_to_marketing"`
	AgeVerified       bool       `json:"age_verified"`
	ConfirmedName     string     `json:"confirmed_name"`
	ConfirmedEmail    string     `json:"confirmed_email"`
	ConfirmedPhone    string     `json:"confirmed_phone,omitempty"`
	PhotoIDUploaded   bool       `json:"photo_id_uploaded"`
	SignatureName     string     `json:"signature_name,omitempty"`
	Agreed            bool       `json:"agreed"`
	TicketUnlocked    bool       `json:"ticket_unlocked"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
}

type VerifyTicketResponse struct {
	Valid       bool                   `json:"valid"`
	TicketID    string                 `json:"ticket_id"`
	Status      models.SelectionStatus `json:"status"`
	FanName     string                 `json:"fan_name,omitempty"`
	TourTitle   string                 `json:"tour_title,omitempty"`
	TourDate    *time.Time             `json:"tour_date,omitempty"`
	TourVenue   string                 `json:"tour_venue,omitempty"`
	TourCity    string                 `json:"tour_city,omitempty"`
	GeneratedAt *time.Time             `json:"generated_at,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToFanResponse(f *models.Fan) FanResponse {
	resp := FanResponse{
		ID:               f.ID,
		Email:            f.Email,
		Name:             f.Name,
		Phone:            f.Phone,
		RegistrationCode: f.RegistrationCode,
		IsActive:         f.IsActive,
		RegisteredAt:     f.RegisteredAt,
		ConsentCompleted: f.HasCompletedConsent(),
		SelectionCount:   len(f.Selections),
	}
	for i := range f.Selections {
		resp.Selections = append(resp.Selections, ToSelectionResponse(&f.Selections[i]))
	}
	return resp
}

func ToTourResponse(t *models.Tour) TourResponse {
	return TourResponse{
		ID:               t.ID,
		Title:            t.Title,
		Date:             t.Date,
		City:             t.City,
		Venue:            t.Venue,
		Artists:          t.Artists,
		TicketLimit:      t.TicketLimit,
		TicketsClaimed:   t.TicketsClaimed,
		TicketsRemaining: t.TicketsRemaining(),
		IsActive:         t.IsActive,
		IsAvailable:      t.IsAvailable(),
		Description:      t.Description,
		ImageURL:         t.ImageURL,
	}
}

func ToTourListResponse(tours []models.Tour, total int64, offset, limit int) TourListResponse {
	resp := TourListResponse{
		Tours:  make([]TourResponse, 0, len(tours)),
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}
	for i := range tours {
		resp.Tours = append(resp.Tours, ToTourResponse(&tours[i]))
	}
	return resp
}

func ToSelectionResponse(s *models.Selection) SelectionResponse {
	resp := SelectionResponse{
		ID:                s.ID,
		TourID:            s.TourID,
		Status:            s.Status,
		TicketID:          s.TicketID,
		TicketGeneratedAt: s.TicketGeneratedAt,
		SelectedAt:        s.SelectedAt,
		ConfirmedAt:       s.ConfirmedAt,
	}
	if s.Tour != nil {
		tour := ToTourResponse(s.Tour)
		resp.Tour = &tour
	}
	return resp
}

func ToSelectionResponses(selections []models.Selection) []SelectionResponse {
	resp := make([]SelectionResponse, 0, len(selections))
	for i := range selections {
		resp = append(resp, ToSelectionResponse(&selections[i]))
	}
	return resp
}

func ToConsentResponse(c *models.Consent) ConsentResponse {
	return ConsentResponse{
		ID:                c.ID,
		FanID:             c.FanID,
		AgreedToTerms:     c.AgreedToTerms,
		AgreedToPrivacy:   c.AgreedToPrivacy,
		AgreedToMarketing: c.AgreedToMarketing,
		AgeVerified:       c.AgeVerified,
		ConfirmedName:     c.ConfirmedName,
		ConfirmedEmail:    c.ConfirmedEmail,
		ConfirmedPhone:    c.ConfirmedPhone,
		PhotoIDUploaded:   c.PhotoIDUploaded,
		SignatureName:     c.SignatureName,
		Agreed:            c.Agreed,
		TicketUnlocked:    c.TicketUnlocked,
		SignedAt:          c.SignedAt,
	}
}

func ToVerifyTicketResponse(s *models.Selection) VerifyTicketResponse {
	resp := VerifyTicketResponse{
		Valid:       s.IsConfirmed(),
		TicketID:    s.TicketID,
		Status:      s.Status,
		GeneratedAt: s.TicketGeneratedAt,
	}
	if s.Fan != nil {
		resp.FanName = s.Fan.Name
	}
	if s.Tour != nil {
		resp.TourTitle = s.Tour.Title
		date := s.Tour.Date
		resp.TourDate = &date
		resp.TourVenue = s.Tour.Venue
		resp.TourCity = s.Tour.City
	}
	return resp
}
