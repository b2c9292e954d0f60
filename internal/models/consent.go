package models

import (
	"errors"
	"time"
)

var ErrConsentIncomplete = errors.New("consent is missing required agreements")

// Consent stores a fan's signed agreement. One row per fan.
type Consent struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	FanID uint `gorm:"not null;uniqueIndex" json:"fan_id"`

	AgreedToTerms     bool `gorm:"not null;default:false" json:"agreed_to_terms"`
	AgreedToPrivacy   bool `gorm:"not null;default:false" json:"agreed_to_privacy"`
	AgreedToMarketing bool `gorm:"default:false" json:"agreed_to_marketing"`

	AgeVerified bool       `gorm:"not null;default:false" json:"age_verified"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	ConfirmedName  string `gorm:"size:200;not null" json:"confirmed_name"`
	ConfirmedEmail string `gorm:"size:255;not null" json:"confirmed_email"`
	ConfirmedPhone string `gorm:"size:20" json:"confirmed_phone,omitempty"`

	PhotoIDPath     string `gorm:"size:500" json:"-"`
	PhotoIDUploaded bool   `gorm:"default:false" json:"photo_id_uploaded"`

	SignatureData string `gorm:"type:text" json:"-"`
	SignatureName string `gorm:"size:200" json:"signature_name,omitempty"`
	IPAddress     string `gorm:"size:50" json:"-"`

	Agreed         bool `gorm:"not null;default:false" json:"agreed"`
	TicketUnlocked bool `gorm:"default:false" json:"ticket_unlocked"`

	SignedAt  *time.Time `json:"signed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Fan *Fan `gorm:"foreignKey:FanID" json:"-"`
}

// IsComplete reports whether every required agreement has been given.
func (c *Consent) IsComplete() bool {
	return c.AgreedToTerms && c.AgreedToPrivacy && c.AgeVerified
}

// Complete marks the consent as agreed and signed. Fails if a required
// agreement is missing.
func (c *Consent) Complete(ipAddress string) error {
	if !c.IsComplete() {
		return ErrConsentIncomplete
	}
	now := time.Now().UTC()
	c.Agreed = true
	c.SignedAt = &now
	if ipAddress != "" {
		c.IPAddress = ipAddress
	}
	return nil
}

// Unlock enables ticket issuance. Requires a completed, agreed consent.
func (c *Consent) Unlock() error {
	if !c.IsComplete() || !c.Agreed {
		return ErrConsentIncomplete
	}
	c.TicketUnlocked = true
	return nil
}
