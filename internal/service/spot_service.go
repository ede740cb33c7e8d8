package service

import (
	"context"
	"errors"
	"math"

	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"gorm.io/gorm"
)

type CreateSpotInput struct {
	Name            string
	Description     string
	Latitude        float64
	Longitude       float64
	Address         string
	Region          string
	Categories      []string
	BestTimeToVisit string
	CreatorID       uint
	CreatorRole     models.UserRole
}

type UpdateSpotInput struct {
	Name            *string
	Description     *string
	Latitude        *float64
	Longitude       *float64
	Address         *string
	Region          *string
	Categories      []string
	BestTimeToVisit *string
}

type SpotRatingInput struct {
	TouristSpotID uint
	TouristID     uint
	Rating        int
	Review        string
}

type SpotService interface {
	CreateSpot(ctx context.Context, in CreateSpotInput) (*models.TouristSpot, error)
	GetSpot(ctx context.Context, id uint) (*models.TouristSpot, error)
	ListSpots(ctx context.Context, filter repository.SpotFilter) ([]models.TouristSpot, error)
	UpdateSpot(ctx context.Context, id uint, in UpdateSpotInput) (*models.TouristSpot, error)
	SetSpotStatus(ctx context.Context, id uint, status models.SpotStatus) (*models.TouristSpot, error)
	DeleteSpot(ctx context.Context, id uint) error
	RateSpot(ctx context.Context, in SpotRatingInput) (*models.SpotRating, error)
	UpdateSpotRating(ctx context.Context, ratingID, touristID uint, rating *int, review *string) (*models.SpotRating, error)
	DeleteSpotRating(ctx context.Context, ratingID, touristID uint) error
	ListSpotRatings(ctx context.Context, spotID uint) ([]models.SpotRating, error)
	ListTouristSpotRatings(ctx context.Context, touristID uint) ([]models.SpotRating, error)
}

type spotService struct {
	spotRepo       repository.SpotRepository
	spotRatingRepo repository.SpotRatingRepository
	publisher      EventPublisher
}

func NewSpotService(spotRepo repository.SpotRepository, spotRatingRepo repository.SpotRatingRepository, publisher EventPublisher) SpotService {
	return &spotService{
		spotRepo:       spotRepo,
		spotRatingRepo: spotRatingRepo,
		publisher:      publisher,
	}
}

// CreateSpot stores a new spot. Admin submissions go live immediately;
// company submissions wait in pending until an admin approves them.
func (s *spotService) CreateSpot(ctx context.Context, in CreateSpotInput) (*models.TouristSpot, error) {
	spot := &models.TouristSpot{
		Name:            in.Name,
		Description:     in.Description,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Address:         in.Address,
		Region:          in.Region,
		BestTimeToVisit: in.BestTimeToVisit,
		CreatedBy:       in.CreatorID,
	}
	if err := spot.SetCategories(in.Categories); err != nil {
		return nil, err
	}

	switch in.CreatorRole {
	case models.RoleAdmin:
		spot.Status = models.SpotApproved
	default:
		spot.Status = models.SpotPending
		companyID := in.CreatorID
		spot.CompanyID = &companyID
	}

	if err := s.spotRepo.Create(ctx, spot); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("spot.created", spot)
	}
	return spot, nil
}

func (s *spotService) GetSpot(ctx context.Context, id uint) (*models.TouristSpot, error) {
	spot, err := s.spotRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return spot, nil
}

func (s *spotService) ListSpots(ctx context.Context, filter repository.SpotFilter) ([]models.TouristSpot, error) {
	return s.spotRepo.List(ctx, filter)
}

func (s *spotService) UpdateSpot(ctx context.Context, id uint, in UpdateSpotInput) (*models.TouristSpot, error) {
	var result *models.TouristSpot

	err := s.spotRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		spot, err := s.spotRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return err
		}

		if in.Name != nil {
			spot.Name = *in.Name
		}
		if in.Description != nil {
			spot.Description = *in.Description
		}
		if in.Latitude != nil {
			spot.Latitude = *in.Latitude
		}
		if in.Longitude != nil {
			spot.Longitude = *in.Longitude
		}
		if in.Address != nil {
			spot.Address = *in.Address
		}
		if in.Region != nil {
			spot.Region = *in.Region
		}
		if in.Categories != nil {
			if err := spot.SetCategories(in.Categories); err != nil {
				return err
			}
		}
		if in.BestTimeToVisit != nil {
			spot.BestTimeToVisit = *in.BestTimeToVisit
		}

		if err := tx.WithContext(ctx).Save(spot).Error; err != nil {
			return err
		}
		result = spot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *spotService) SetSpotStatus(ctx context.Context, id uint, status models.SpotStatus) (*models.TouristSpot, error) {
	if !status.IsValid() {
		return nil, ErrInvalidSpotStatus
	}

	spot, err := s.spotRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	spot.Status = status
	if err := s.spotRepo.Save(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

func (s *spotService) DeleteSpot(ctx context.Context, id uint) error {
	rows, err := s.spotRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSpotNotFound
	}
	return nil
}

// RateSpot inserts the rating and recomputes the spot aggregate in one
// transaction. The unique index on (tourist_spot_id, tourist_id) closes the
// duplicate-rating race; a violation surfaces as gorm.ErrDuplicatedKey.
func (s *spotService) RateSpot(ctx context.Context, in SpotRatingInput) (*models.SpotRating, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRatingValue
	}

	var result *models.SpotRating

	err := s.spotRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the spot row so concurrent rating writes serialize their
		// aggregate rewrites.
		if _, err := s.spotRepo.FindByIDForUpdate(ctx, tx, in.TouristSpotID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return err
		}

		rating := &models.SpotRating{
			TouristSpotID: in.TouristSpotID,
			TouristID:     in.TouristID,
			Rating:        in.Rating,
			Review:        in.Review,
		}
		if err := s.spotRatingRepo.Create(ctx, tx, rating); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSpotRating
			}
			return err
		}

		if err := s.recomputeSpotStats(ctx, tx, in.TouristSpotID); err != nil {
			return err
		}

		result = rating
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("spot_rating.created", result)
	}
	return result, nil
}

// UpdateSpotRating rewrites the tourist's own rating and refreshes the spot
// aggregate. Nil fields keep the stored value.
func (s *spotService) UpdateSpotRating(ctx context.Context, ratingID, touristID uint, rating *int, review *string) (*models.SpotRating, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, ErrInvalidRatingValue
	}

	var result *models.SpotRating

	err := s.spotRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := s.spotRatingRepo.FindByID(ctx, tx, ratingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotRatingNotFound
			}
			return err
		}
		if stored.TouristID != touristID {
			return ErrSpotRatingNotFound
		}

		if _, err := s.spotRepo.FindByIDForUpdate(ctx, tx, stored.TouristSpotID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return err
		}

		if rating != nil {
			stored.Rating = *rating
		}
		if review != nil {
			stored.Review = *review
		}
		if err := s.spotRatingRepo.Save(ctx, tx, stored); err != nil {
			return err
		}

		if err := s.recomputeSpotStats(ctx, tx, stored.TouristSpotID); err != nil {
			return err
		}

		result = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSpotRating removes the tourist's own rating and refreshes the spot
// aggregate.
func (s *spotService) DeleteSpotRating(ctx context.Context, ratingID, touristID uint) error {
	return s.spotRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := s.spotRatingRepo.FindByID(ctx, tx, ratingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotRatingNotFound
			}
			return err
		}
		if stored.TouristID != touristID {
			return ErrSpotRatingNotFound
		}

		if _, err := s.spotRepo.FindByIDForUpdate(ctx, tx, stored.TouristSpotID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return err
		}

		if err := s.spotRatingRepo.Delete(ctx, tx, stored.ID); err != nil {
			return err
		}
		return s.recomputeSpotStats(ctx, tx, stored.TouristSpotID)
	})
}

func (s *spotService) ListSpotRatings(ctx context.Context, spotID uint) ([]models.SpotRating, error) {
	if _, err := s.GetSpot(ctx, spotID); err != nil {
		return nil, err
	}
	return s.spotRatingRepo.FindBySpot(ctx, spotID)
}

func (s *spotService) ListTouristSpotRatings(ctx context.Context, touristID uint) ([]models.SpotRating, error) {
	return s.spotRatingRepo.FindByTourist(ctx, touristID)
}

func (s *spotService) recomputeSpotStats(ctx context.Context, tx *gorm.DB, spotID uint) error {
	avg, count, err := s.spotRatingRepo.Aggregate(ctx, tx, spotID)
	if err != nil {
		return err
	}
	avg = math.Round(avg*10) / 10
	return s.spotRepo.UpdateRatingStats(ctx, tx, spotID, avg, count)
}
