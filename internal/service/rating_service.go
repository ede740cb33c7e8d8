package service

import (
	"context"
	"errors"
	"math"

	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"gorm.io/gorm"
)

type CreateRatingInput struct {
	TourPackageID uint
	TouristID     uint
	Rating        int
	Review        string
}

type RatingService interface {
	CreateRating(ctx context.Context, in CreateRatingInput) (*models.Rating, error)
	ListPackageRatings(ctx context.Context, packageID uint) ([]models.Rating, error)
	ListUserRatings(ctx context.Context, touristID uint) ([]models.Rating, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	bookingRepo repository.BookingRepository
	packageRepo repository.PackageRepository
	publisher   EventPublisher
}

func NewRatingService(ratingRepo repository.RatingRepository, bookingRepo repository.BookingRepository, packageRepo repository.PackageRepository, publisher EventPublisher) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		bookingRepo: bookingRepo,
		packageRepo: packageRepo,
		publisher:   publisher,
	}
}

// CreateRating inserts the rating and recomputes the package aggregate in one
// transaction. The unique index on (tour_package_id, tourist_id) closes the
// duplicate-rating race; a violation surfaces as gorm.ErrDuplicatedKey.
func (s *ratingService) CreateRating(ctx context.Context, in CreateRatingInput) (*models.Rating, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRatingValue
	}

	var result *models.Rating

	err := s.ratingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the package row so concurrent rating inserts serialize
		// their aggregate rewrites.
		if _, err := s.packageRepo.FindByIDForUpdate(ctx, tx, in.TourPackageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}

		booking, err := s.bookingRepo.FindCompletedBooking(ctx, tx, in.TourPackageID, in.TouristID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEligible
			}
			return err
		}

		rating := &models.Rating{
			TourPackageID: in.TourPackageID,
			TouristID:     in.TouristID,
			BookingID:     booking.ID,
			Rating:        in.Rating,
			Review:        in.Review,
		}
		if err := s.ratingRepo.Create(ctx, tx, rating); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRating
			}
			return err
		}

		avg, count, err := s.ratingRepo.Aggregate(ctx, tx, in.TourPackageID)
		if err != nil {
			return err
		}
		avg = math.Round(avg*10) / 10

		if err := s.packageRepo.UpdateRatingStats(ctx, tx, in.TourPackageID, avg, count); err != nil {
			return err
		}

		result = rating
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("rating.created", result)
	}
	return result, nil
}

func (s *ratingService) ListPackageRatings(ctx context.Context, packageID uint) ([]models.Rating, error) {
	return s.ratingRepo.FindByPackage(ctx, packageID)
}

func (s *ratingService) ListUserRatings(ctx context.Context, touristID uint) ([]models.Rating, error) {
	return s.ratingRepo.FindByTourist(ctx, touristID)
}
