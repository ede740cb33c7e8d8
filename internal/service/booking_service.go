package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"gorm.io/gorm"
)

// EventPublisher publishes domain events to the message broker.
// *rabbitmq.Publisher implements it.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type CreateBookingInput struct {
	TourPackageID          uint
	TouristID              uint
	NumberOfPeople         int
	TravelDate             time.Time
	ContactPhone           string
	EmergencyContactName   string
	EmergencyContactNumber string
	SpecialRequests        string
	// IdempotencyKey is optional; a replayed key returns the original
	// booking instead of reserving again.
	IdempotencyKey string
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListTouristBookings(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error)
	ListCompanyBookings(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error)
	TransitionStatus(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	packageRepo repository.PackageRepository
	publisher   EventPublisher
}

func NewBookingService(bookingRepo repository.BookingRepository, packageRepo repository.PackageRepository, publisher EventPublisher) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		packageRepo: packageRepo,
		publisher:   publisher,
	}
}

// CreateBooking reserves capacity and inserts the booking row in a single
// transaction. The package row is locked for the duration, and the
// reservation itself is a guarded update, so two concurrent requests can
// never jointly oversell the package.
func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if in.NumberOfPeople <= 0 {
		return nil, ErrInvalidPartySize
	}

	clientKey := in.IdempotencyKey != ""
	if !clientKey {
		in.IdempotencyKey = uuid.NewString()
	}

	var result *models.Booking
	var replayed bool

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A replayed idempotency key means the earlier attempt already
		// reserved; hand back the stored booking untouched.
		if clientKey {
			existing, err := s.bookingRepo.FindByIdempotencyKey(ctx, tx, in.IdempotencyKey)
			if err == nil {
				result = existing
				replayed = true
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		pkg, err := s.packageRepo.FindByIDForUpdate(ctx, tx, in.TourPackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}

		if pkg.Status != models.PackageActive {
			return ErrPackageInactive
		}

		if available := pkg.AvailableSlots(); in.NumberOfPeople > available {
			return fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientCapacity, in.NumberOfPeople, available)
		}

		reference, err := s.uniqueReference(ctx, tx)
		if err != nil {
			return err
		}

		booking := &models.Booking{
			BookingReference:       reference,
			IdempotencyKey:         in.IdempotencyKey,
			TourPackageID:          pkg.ID,
			TouristID:              in.TouristID,
			NumberOfPeople:         in.NumberOfPeople,
			TotalPrice:             pkg.Price * float64(in.NumberOfPeople),
			Status:                 models.StatusPending,
			TravelDate:             in.TravelDate,
			BookingDate:            time.Now().UTC(),
			ContactPhone:           in.ContactPhone,
			EmergencyContactName:   in.EmergencyContactName,
			EmergencyContactNumber: in.EmergencyContactNumber,
			SpecialRequests:        in.SpecialRequests,
		}

		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race on the idempotency key: the winning insert
				// is the booking the caller wants.
				if existing, ferr := s.bookingRepo.FindByIdempotencyKey(ctx, tx, in.IdempotencyKey); ferr == nil {
					result = existing
					replayed = true
					return nil
				}
				return ErrConcurrentModification
			}
			return err
		}

		rows, err := s.packageRepo.ReserveSlots(ctx, tx, pkg.ID, in.NumberOfPeople)
		if err != nil {
			return err
		}
		if rows == 0 {
			// The row lock makes this unreachable in practice; the guard
			// catches anything that slips past it.
			return ErrConcurrentModification
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A replay created nothing; publishing again would hand consumers a
	// duplicate creation event.
	if s.publisher != nil && !replayed {
		_ = s.publisher.Publish("booking.created", result)
	}
	return result, nil
}

func (s *bookingService) uniqueReference(ctx context.Context, tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		reference, err := newBookingReference()
		if err != nil {
			return "", err
		}
		exists, err := s.bookingRepo.ExistsByReference(ctx, tx, reference)
		if err != nil {
			return "", err
		}
		if !exists {
			return reference, nil
		}
	}
	return "", ErrReferenceExhausted
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListTouristBookings(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.FindByTourist(ctx, touristID, status)
}

func (s *bookingService) ListCompanyBookings(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.FindByCompany(ctx, companyID, status)
}

// TransitionStatus applies the booking state machine. Cancellation releases
// the reserved slots in the same transaction; no other transition touches
// capacity.
func (s *bookingService) TransitionStatus(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	var result *models.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !booking.Status.CanTransition(to) {
			return fmt.Errorf("%w: cannot transition from %s to %s",
				ErrInvalidTransition, booking.Status, to)
		}

		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, to); err != nil {
			return err
		}

		if to == models.StatusCancelled {
			if err := s.packageRepo.ReleaseSlots(ctx, tx, booking.TourPackageID, booking.NumberOfPeople); err != nil {
				return err
			}
		}

		booking.Status = to
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.status_changed", result)
	}
	return result, nil
}
