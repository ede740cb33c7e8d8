package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// validTransitions is the whole booking state machine. Cancelled and
// completed are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether a booking may move from its current status
// to the requested one.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the four known statuses.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

type Booking struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	BookingReference string        `gorm:"type:varchar(8);uniqueIndex;not null" json:"booking_reference"`
	IdempotencyKey   string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"idempotency_key"`
	TourPackageID    uint          `gorm:"not null;index" json:"tour_package_id"`
	TouristID        uint          `gorm:"not null;index" json:"tourist_id"`
	NumberOfPeople   int           `gorm:"not null" json:"number_of_people"`
	TotalPrice       float64       `gorm:"not null" json:"total_price"` // frozen at creation
	Status           BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TravelDate       time.Time     `gorm:"not null" json:"travel_date"`
	BookingDate      time.Time     `gorm:"not null" json:"booking_date"`

	ContactPhone           string `gorm:"not null" json:"contact_phone"`
	EmergencyContactName   string `json:"emergency_contact_name"`
	EmergencyContactNumber string `json:"emergency_contact_number"`
	SpecialRequests        string `json:"special_requests,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TourPackage *TourPackage `gorm:"foreignKey:TourPackageID" json:"tour_package,omitempty"`
	Tourist     *User        `gorm:"foreignKey:TouristID" json:"tourist,omitempty"`
}
