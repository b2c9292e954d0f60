package dto

import "time"

type RegisterFanRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=200"`
	Phone string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type UpdateFanRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,min=7,max=20"`
	IsActive *bool   `json:"is_active"`
}

type AddSelectionRequest struct {
	TourID uint `json:"tour_id" validate:"required,gt=0"`
}

type AddSelectionsBulkRequest struct {
	TourIDs []uint `json:"tour_ids" validate:"required,min=1,dive,gt=0"`
}

type SubmitConsentRequest struct {
	AgreedToTerms     bool       `json:"agreed_to_terms" validate:"required"`
	AgreedToPrivacy   bool       `json:"agreed_to_privacy" validate:"required"`
	AgreedToMarketing bool       `json:"agreed_to_marketing"`
	AgeVerified       bool       `json:"age_verified" validate:"required"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	ConfirmedName     string     `json:"confirmed_name" validate:"required,min=2,max=200"`
	ConfirmedEmail    string     `json:"confirmed_email" validate:"required,email"`
	ConfirmedPhone    string     `json:"confirmed_phone"`
	SignatureName     string     `json:"signature_name"`
	SignatureData     string     `json:"signature_data"`
}

type UpdateConsentRequest struct {
	AgreedToMarketing *bool   `json:"agreed_to_marketing"`
	ConfirmedName     *string `json:"confirmed_name" validate:"omitempty,min=2,max=200"`
	ConfirmedEmail    *string `json:"confirmed_email" validate:"omitempty,email"`
	ConfirmedPhone    *string `json:"confirmed_phone"`
	SignatureName     *string `json:"signature_name"`
	SignatureData     *string `json:"signature_data"`
}

type CreateTourRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	City        string    `json:"city" validate:"required,max=100"`
	Venue       string    `json:"venue" validate:"required,max=200"`
	Artists     string    `json:"artists" validate:"required"`
	TicketLimit int       `json:"ticket_limit" validate:"omitempty,gt=0"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
}

type UpdateTourRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=2,max=200"`
	Date        *time.Time `json:"date"`
	City        *string    `json:"city" validate:"omitempty,max=100"`
	Venue       *string    `json:"venue" validate:"omitempty,max=200"`
	Artists     *string    `json:"artists"`
	TicketLimit *int       `json:"ticket_limit" validate:"omitempty,gt=0"`
	IsActive    *bool      `json:"is_active"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
}
