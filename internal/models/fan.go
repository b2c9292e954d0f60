package models

import "time"

type Fan struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name  string `gorm:"size:200;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone,omitempty"`

	RegistrationCode string `gorm:"size:50;uniqueIndex" json:"registration_code"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	RegisteredAt time.Time  `json:"registered_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Selections []Selection `gorm:"foreignKey:FanID;constraint:OnDelete:CASCADE" json:"selections,omitempty"`
	Consent    *Consent    `gorm:"foreignKey:FanID;constraint:OnDelete:CASCADE" json:"consent,omitempty"`
}

// HasCompletedConsent reports whether the fan's consent is submitted and agreed.
func (f *Fan) HasCompletedConsent() bool {
	return f.Consent != nil && f.Consent.Agreed
}
