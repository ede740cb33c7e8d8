package models

import (
	"encoding/json"
	"strings"
	"time"
)

type SpotStatus string

const (
	SpotPending  SpotStatus = "pending"
	SpotApproved SpotStatus = "approved"
	SpotRejected SpotStatus = "rejected"
)

func (s SpotStatus) IsValid() bool {
	switch s {
	case SpotPending, SpotApproved, SpotRejected:
		return true
	}
	return false
}

// SpotCategories are the recognized category values; anything else is
// silently dropped on write.
var SpotCategories = map[string]bool{
	"historical": true,
	"natural":    true,
	"religious":  true,
	"cultural":   true,
	"adventure":  true,
}

type TouristSpot struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	Latitude        float64    `gorm:"not null" json:"latitude"`
	Longitude       float64    `gorm:"not null" json:"longitude"`
	Address         string     `json:"address"`
	Region          string     `gorm:"index" json:"region"`
	Categories      string     `gorm:"type:text" json:"-"` // JSON-encoded []string
	BestTimeToVisit string     `json:"best_time_to_visit"`
	Status          SpotStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AverageRating   float64    `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings    int        `gorm:"not null;default:0" json:"total_ratings"`
	CompanyID       *uint      `gorm:"index" json:"company_id,omitempty"`
	CreatedBy       uint       `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SetCategories keeps only recognized category values, lowercased.
func (s *TouristSpot) SetCategories(categories []string) error {
	kept := []string{}
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if SpotCategories[c] {
			kept = append(kept, c)
		}
	}
	b, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	s.Categories = string(b)
	return nil
}

func (s *TouristSpot) GetCategories() []string {
	if s.Categories == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s.Categories), &out); err != nil {
		return []string{}
	}
	return out
}
