package models

import (
	"encoding/json"
	"time"
)

type PackageStatus string

const (
	PackageActive   PackageStatus = "active"
	PackageInactive PackageStatus = "inactive"
)

type TourPackage struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	Name                string        `gorm:"not null" json:"name"`
	Description         string        `json:"description"`
	Price               float64       `gorm:"not null" json:"price"`
	DurationDays        int           `gorm:"not null" json:"duration_days"`
	Category            string        `json:"category"`
	DifficultyLevel     string        `json:"difficulty_level"`
	Destinations        string        `gorm:"type:text" json:"-"` // JSON-encoded []string
	MaxParticipants     int           `gorm:"not null" json:"max_participants"`
	CurrentParticipants int           `gorm:"not null;default:0" json:"current_participants"`
	Status              PackageStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	AverageRating       float64       `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings        int           `gorm:"not null;default:0" json:"total_ratings"`
	CompanyID           uint          `gorm:"not null;index" json:"company_id"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// AvailableSlots is the remaining capacity; never negative for a row that
// satisfies the counter invariant.
func (p *TourPackage) AvailableSlots() int {
	return p.MaxParticipants - p.CurrentParticipants
}

func (p *TourPackage) SetDestinations(destinations []string) error {
	if destinations == nil {
		destinations = []string{}
	}
	b, err := json.Marshal(destinations)
	if err != nil {
		return err
	}
	p.Destinations = string(b)
	return nil
}

func (p *TourPackage) GetDestinations() []string {
	if p.Destinations == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(p.Destinations), &out); err != nil {
		return []string{}
	}
	return out
}
