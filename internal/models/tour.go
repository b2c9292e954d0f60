package models

import "time"

type Tour struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Title  string    `gorm:"size:200;not null" json:"title"`
	Date   time.Time `gorm:"not null;index" json:"date"`
	City   string    `gorm:"size:100;not null" json:"city"`
	Venue  string    `gorm:"size:200;not null" json:"venue"`

	// Comma-separated artist names, stored opaque
	Artists string `gorm:"type:text;not null" json:"artists"`

	TicketLimit    int `gorm:"default:100" json:"ticket_limit"`
	TicketsClaimed int `gorm:"default:0" json:"tickets_claimed"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Description string `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string `gorm:"size:500" json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Selections []Selection `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"selections,omitempty"`
}

// IsAvailable reports whether fans can still claim a ticket for this tour.
func (t *Tour) IsAvailable() bool {
	return t.IsActive && t.TicketsClaimed < t.TicketLimit
}

func (t *Tour) TicketsRemaining() int {
	remaining := t.TicketLimit - t.TicketsClaimed
	if remaining < 0 {
		return 0
	}
	return remaining
}
