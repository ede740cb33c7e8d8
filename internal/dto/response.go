package dto

import (
	"time"

	"github.com/touristapp/booking-backend/internal/models"
)

type UserResponse struct {
	ID          uint            `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type PackageResponse struct {
	ID                  uint                 `json:"id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	Price               float64              `json:"price"`
	DurationDays        int                  `json:"duration_days"`
	Category            string               `json:"category"`
	DifficultyLevel     string               `json:"difficulty_level"`
	Destinations        []string             `json:"destinations"`
	MaxParticipants     int                  `json:"max_participants"`
	CurrentParticipants int                  `json:"current_participants"`
	AvailableSlots      int                  `json:"available_slots"`
	Status              models.PackageStatus `json:"status"`
	AverageRating       float64              `json:"average_rating"`
	TotalRatings        int                  `json:"total_ratings"`
	CompanyID           uint                 `json:"company_id"`
	CreatedAt           time.Time            `json:"created_at"`
}

type BookingResponse struct {
	ID                     uint                 `json:"id"`
	BookingReference       string               `json:"booking_reference"`
	TourPackageID          uint                 `json:"tour_package_id"`
	TouristID              uint                 `json:"tourist_id"`
	NumberOfPeople         int                  `json:"number_of_people"`
	TotalPrice             float64              `json:"total_price"`
	Status                 models.BookingStatus `json:"status"`
	TravelDate             time.Time            `json:"travel_date"`
	BookingDate            time.Time            `json:"booking_date"`
	ContactPhone           string               `json:"contact_phone"`
	EmergencyContactName   string               `json:"emergency_contact_name"`
	EmergencyContactNumber string               `json:"emergency_contact_number"`
	SpecialRequests        string               `json:"special_requests,omitempty"`
	CreatedAt              time.Time            `json:"created_at"`
}

type RelatedUser struct {
	ID          uint   `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type RelatedPackage struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Destinations []string `json:"destinations"`
}

// BookingSummaryResponse is the company view of a booking: the booking plus
// the tourist and package it belongs to.
type BookingSummaryResponse struct {
	Booking     BookingResponse `json:"booking"`
	Tourist     *RelatedUser    `json:"tourist,omitempty"`
	TourPackage *RelatedPackage `json:"tour_package,omitempty"`
}

type RatingResponse struct {
	ID            uint      `json:"id"`
	TourPackageID uint      `json:"tour_package_id"`
	TouristID     uint      `json:"tourist_id"`
	BookingID     uint      `json:"booking_id"`
	Rating        int       `json:"rating"`
	Review        string    `json:"review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type SpotResponse struct {
	ID              uint              `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Latitude        float64           `json:"latitude"`
	Longitude       float64           `json:"longitude"`
	Address         string            `json:"address"`
	Region          string            `json:"region"`
	Categories      []string          `json:"categories"`
	BestTimeToVisit string            `json:"best_time_to_visit"`
	Status          models.SpotStatus `json:"status"`
	AverageRating   float64           `json:"average_rating"`
	TotalRatings    int               `json:"total_ratings"`
	CompanyID       *uint             `json:"company_id,omitempty"`
	CreatedBy       uint              `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
}

type SpotRatingResponse struct {
	ID            uint      `json:"id"`
	TouristSpotID uint      `json:"tourist_spot_id"`
	TouristID     uint      `json:"tourist_id"`
	Rating        int       `json:"rating"`
	Review        string    `json:"review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

func ToPackageResponse(p *models.TourPackage) PackageResponse {
	return PackageResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		DurationDays:        p.DurationDays,
		Category:            p.Category,
		DifficultyLevel:     p.DifficultyLevel,
		Destinations:        p.GetDestinations(),
		MaxParticipants:     p.MaxParticipants,
		CurrentParticipants: p.CurrentParticipants,
		AvailableSlots:      p.AvailableSlots(),
		Status:              p.Status,
		AverageRating:       p.AverageRating,
		TotalRatings:        p.TotalRatings,
		CompanyID:           p.CompanyID,
		CreatedAt:           p.CreatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:                     b.ID,
		BookingReference:       b.BookingReference,
		TourPackageID:          b.TourPackageID,
		TouristID:              b.TouristID,
		NumberOfPeople:         b.NumberOfPeople,
		TotalPrice:             b.TotalPrice,
		Status:                 b.Status,
		TravelDate:             b.TravelDate,
		BookingDate:            b.BookingDate,
		ContactPhone:           b.ContactPhone,
		EmergencyContactName:   b.EmergencyContactName,
		EmergencyContactNumber: b.EmergencyContactNumber,
		SpecialRequests:        b.SpecialRequests,
		CreatedAt:              b.CreatedAt,
	}
}

func ToBookingSummaryResponse(b *models.Booking) BookingSummaryResponse {
	summary := BookingSummaryResponse{Booking: ToBookingResponse(b)}
	if b.Tourist != nil {
		summary.Tourist = &RelatedUser{
			ID:          b.Tourist.ID,
			FullName:    b.Tourist.FullName,
			Email:       b.Tourist.Email,
			PhoneNumber: b.Tourist.PhoneNumber,
		}
	}
	if b.TourPackage != nil {
		summary.TourPackage = &RelatedPackage{
			ID:           b.TourPackage.ID,
			Name:         b.TourPackage.Name,
			Description:  b.TourPackage.Description,
			Price:        b.TourPackage.Price,
			DurationDays: b.TourPackage.DurationDays,
			Destinations: b.TourPackage.GetDestinations(),
		}
	}
	return summary
}

func ToSpotResponse(s *models.TouristSpot) SpotResponse {
	return SpotResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
		Address:         s.Address,
		Region:          s.Region,
		Categories:      s.GetCategories(),
		BestTimeToVisit: s.BestTimeToVisit,
		Status:          s.Status,
		AverageRating:   s.AverageRating,
		TotalRatings:    s.TotalRatings,
		CompanyID:       s.CompanyID,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
}

func ToSpotRatingResponse(r *models.SpotRating) SpotRatingResponse {
	return SpotRatingResponse{
		ID:            r.ID,
		TouristSpotID: r.TouristSpotID,
		TouristID:     r.TouristID,
		Rating:        r.Rating,
		Review:        r.Review,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:            r.ID,
		TourPackageID: r.TourPackageID,
		TouristID:     r.TouristID,
		BookingID:     r.BookingID,
		Rating:        r.Rating,
		Review:        r.Review,
		CreatedAt:     r.CreatedAt,
	}
}
