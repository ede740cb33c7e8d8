package service

import "errors"

var (
	ErrPackageNotFound        = errors.New("tour package not found")
	ErrPackageInactive        = errors.New("tour package is not currently available")
	ErrInsufficientCapacity   = errors.New("not enough slots available")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidTransition      = errors.New("invalid booking status transition")
	ErrInvalidPartySize       = errors.New("number of people must be positive")
	ErrNotEligible            = errors.New("only completed bookings can be rated")
	ErrDuplicateRating        = errors.New("package already rated by this tourist")
	ErrInvalidRatingValue     = errors.New("rating must be between 1 and 5")
	ErrReferenceExhausted     = errors.New("could not generate a unique booking reference")
	ErrConcurrentModification = errors.New("package capacity changed concurrently, retry the operation")
	ErrCompanyNotFound        = errors.New("travel company not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("email is already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountDisabled        = errors.New("account is deactivated")
	ErrSpotNotFound           = errors.New("tourist spot not found")
	ErrInvalidSpotStatus      = errors.New("invalid spot status")
	ErrDuplicateSpotRating    = errors.New("spot already rated by this tourist")
	ErrSpotRatingNotFound     = errors.New("spot rating not found")
)
