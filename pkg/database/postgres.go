package database

import (
	"log"

	"github.com/fanexp/vip-tickets/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Fan{},
		&models.Tour{},
		&models.Selection{},
		&models.Consent{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// One live selection per (fan, tour); cancelled rows don't block re-selecting
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_selection_active
		ON selections (fan_id, tour_id)
		WHERE status <> 'cancelled'
	`)

	// Ticket IDs are unique once assigned; rows without a ticket stay blank
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_selection_ticket_id
		ON selections (ticket_id)
		WHERE ticket_id <> ''
	`)

	return db
}
