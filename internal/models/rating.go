package models

import "time"

type Rating struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TourPackageID uint      `gorm:"not null;uniqueIndex:idx_rating_package_tourist" json:"tour_package_id"`
	TouristID     uint      `gorm:"not null;uniqueIndex:idx_rating_package_tourist" json:"tourist_id"`
	BookingID     uint      `gorm:"not null" json:"booking_id"`
	Rating        int       `gorm:"not null" json:"rating"` // 1-5
	Review        string    `gorm:"type:text" json:"review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
