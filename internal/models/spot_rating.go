package models

import "time"

type SpotRating struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TouristSpotID uint      `gorm:"not null;uniqueIndex:idx_spot_rating_spot_tourist" json:"tourist_spot_id"`
	TouristID     uint      `gorm:"not null;uniqueIndex:idx_spot_rating_spot_tourist" json:"tourist_id"`
	Rating        int       `gorm:"not null" json:"rating"` // 1-5
	Review        string    `gorm:"type:text" json:"review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
