package database

import (
	"log"

	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.TourPackage{},
		&models.Booking{},
		&models.Rating{},
		&models.TouristSpot{},
		&models.SpotRating{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Counter invariant enforced at the storage level as a last line of
	// defense behind the guarded updates.
	db.Exec(`
		ALTER TABLE tour_packages
		DROP CONSTRAINT IF EXISTS chk_participants_bounds
	`)
	db.Exec(`
		ALTER TABLE tour_packages
		ADD CONSTRAINT chk_participants_bounds
		CHECK (current_participants >= 0 AND current_participants <= max_participants)
	`)

	return db
}
