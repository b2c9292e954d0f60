package models

import "time"

type SelectionStatus string

const (
	SelectionPending   SelectionStatus = "pending"   // selected, no ticket yet
	SelectionConfirmed SelectionStatus = "confirmed" // ticket generated
	SelectionCancelled SelectionStatus = "cancelled"
	SelectionExpired   SelectionStatus = "expired"
)

// Selection links a fan to a tour they have claimed a ticket for.
type Selection struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	FanID  uint `gorm:"not null;index" json:"fan_id"`
	TourID uint `gorm:"not null;index" json:"tour_id"`

	Status SelectionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Populated by ticket issuance
	TicketID          string     `gorm:"size:100;index" json:"ticket_id,omitempty"`
	TicketQRCode      string     `gorm:"type:text" json:"-"`
	TicketPDFPath     string     `gorm:"size:500" json:"-"`
	TicketGeneratedAt *time.Time `json:"ticket_generated_at,omitempty"`

	SelectedAt  time.Time  `json:"selected_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Fan  *Fan  `gorm:"foreignKey:FanID" json:"fan,omitempty"`
	Tour *Tour `gorm:"foreignKey:TourID" json:"tour,omitempty"`
}

// HasTicket reports whether a ticket has been generated for this selection.
func (s *Selection) HasTicket() bool {
	return s.TicketID != "" && s.TicketPDFPath != ""
}

func (s *Selection) IsConfirmed() bool {
	return s.Status == SelectionConfirmed
}
