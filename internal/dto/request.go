package dto

import (
	"time"

	"github.com/touristapp/booking-backend/internal/models"
)

type RegisterRequest struct {
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	FullName    string          `json:"full_name"`
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePackageRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DurationDays    int      `json:"duration_days"`
	Category        string   `json:"category"`
	DifficultyLevel string   `json:"difficulty_level"`
	Destinations    []string `json:"destinations"`
	MaxParticipants int      `json:"max_participants"`
}

type UpdatePackageRequest struct {
	Name            *string               `json:"name"`
	Description     *string               `json:"description"`
	Price           *float64              `json:"price"`
	DurationDays    *int                  `json:"duration_days"`
	Category        *string               `json:"category"`
	DifficultyLevel *string               `json:"difficulty_level"`
	Destinations    []string              `json:"destinations"`
	MaxParticipants *int                  `json:"max_participants"`
	Status          *models.PackageStatus `json:"status"`
}

type PackageStatusRequest struct {
	Status models.PackageStatus `json:"status"`
}

type CreateBookingRequest struct {
	TourPackageID          uint      `json:"tour_package_id"`
	NumberOfPeople         int       `json:"number_of_people"`
	TravelDate             time.Time `json:"travel_date"`
	ContactPhone           string    `json:"contact_phone"`
	EmergencyContactName   string    `json:"emergency_contact_name"`
	EmergencyContactNumber string    `json:"emergency_contact_number"`
	SpecialRequests        string    `json:"special_requests"`
	IdempotencyKey         string    `json:"idempotency_key"`
}

type BookingStatusRequest struct {
	Status models.BookingStatus `json:"status"`
}

type CreateRatingRequest struct {
	TourPackageID uint   `json:"tour_package_id"`
	Rating        int    `json:"rating"`
	Review        string `json:"review"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type CreateSpotRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Address         string   `json:"address"`
	Region          string   `json:"region"`
	Categories      []string `json:"categories"`
	BestTimeToVisit string   `json:"best_time_to_visit"`
}

type UpdateSpotRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Address         *string  `json:"address"`
	Region          *string  `json:"region"`
	Categories      []string `json:"categories"`
	BestTimeToVisit *string  `json:"best_time_to_visit"`
}

type SpotStatusRequest struct {
	Status models.SpotStatus `json:"status"`
}

type CreateSpotRatingRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type UpdateSpotRatingRequest struct {
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}
