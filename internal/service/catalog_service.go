package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"gorm.io/gorm"
)

type UpdatePackageInput struct {
	Name            *string
	Description     *string
	Price           *float64
	DurationDays    *int
	Category        *string
	DifficultyLevel *string
	Destinations    []string
	MaxParticipants *int
	Status          *models.PackageStatus
}

type CatalogService interface {
	CreatePackage(ctx context.Context, pkg *models.TourPackage) error
	GetPackage(ctx context.Context, id uint) (*models.TourPackage, error)
	ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TourPackage, error)
	UpdatePackage(ctx context.Context, id uint, in UpdatePackageInput) (*models.TourPackage, error)
	SetStatus(ctx context.Context, id uint, status models.PackageStatus) (*models.TourPackage, error)
	ReserveSlots(ctx context.Context, id uint, n int) (*models.TourPackage, error)
	ReleaseSlots(ctx context.Context, id uint, n int) (*models.TourPackage, error)
}

type catalogService struct {
	packageRepo repository.PackageRepository
	userRepo    repository.UserRepository
}

func NewCatalogService(packageRepo repository.PackageRepository, userRepo repository.UserRepository) CatalogService {
	return &catalogService{packageRepo: packageRepo, userRepo: userRepo}
}

func (s *catalogService) CreatePackage(ctx context.Context, pkg *models.TourPackage) error {
	owner, err := s.userRepo.FindByID(ctx, pkg.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}
	if owner.Role != models.RoleTravelCompany || !owner.IsActive {
		return ErrCompanyNotFound
	}

	pkg.CurrentParticipants = 0
	if pkg.Status == "" {
		pkg.Status = models.PackageActive
	}
	return s.packageRepo.Create(ctx, pkg)
}

func (s *catalogService) GetPackage(ctx context.Context, id uint) (*models.TourPackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

func (s *catalogService) ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TourPackage, error) {
	return s.packageRepo.List(ctx, filter)
}

// UpdatePackage edits catalog fields under the package row lock. Price edits
// never touch existing bookings (total_price is frozen at creation), and
// current_participants is never writable through this path.
func (s *catalogService) UpdatePackage(ctx context.Context, id uint, in UpdatePackageInput) (*models.TourPackage, error) {
	var result *models.TourPackage

	err := s.packageRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := s.packageRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}

		if in.Name != nil {
			pkg.Name = *in.Name
		}
		if in.Description != nil {
			pkg.Description = *in.Description
		}
		if in.Price != nil {
			pkg.Price = *in.Price
		}
		if in.DurationDays != nil {
			pkg.DurationDays = *in.DurationDays
		}
		if in.Category != nil {
			pkg.Category = *in.Category
		}
		if in.DifficultyLevel != nil {
			pkg.DifficultyLevel = *in.DifficultyLevel
		}
		if in.Destinations != nil {
			if err := pkg.SetDestinations(in.Destinations); err != nil {
				return err
			}
		}
		if in.MaxParticipants != nil {
			if *in.MaxParticipants < pkg.CurrentParticipants {
				return fmt.Errorf("%w: max_participants %d below current_participants %d",
					ErrInsufficientCapacity, *in.MaxParticipants, pkg.CurrentParticipants)
			}
			pkg.MaxParticipants = *in.MaxParticipants
		}
		if in.Status != nil {
			pkg.Status = *in.Status
		}

		if err := tx.WithContext(ctx).Save(pkg).Error; err != nil {
			return err
		}
		result = pkg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *catalogService) SetStatus(ctx context.Context, id uint, status models.PackageStatus) (*models.TourPackage, error) {
	return s.UpdatePackage(ctx, id, UpdatePackageInput{Status: &status})
}

// ReserveSlots is the standalone capacity operation: a guarded atomic
// increment with the failure cause diagnosed after the fact. Booking
// creation uses the same repository guard inside its own transaction.
func (s *catalogService) ReserveSlots(ctx context.Context, id uint, n int) (*models.TourPackage, error) {
	if n <= 0 {
		return nil, ErrInvalidPartySize
	}

	var result *models.TourPackage

	err := s.packageRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.packageRepo.ReserveSlots(ctx, tx, id, n)
		if err != nil {
			return err
		}
		if rows == 0 {
			pkg, err := s.packageRepo.FindByIDForUpdate(ctx, tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPackageNotFound
				}
				return err
			}
			if pkg.Status != models.PackageActive {
				return ErrPackageInactive
			}
			return fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientCapacity, n, pkg.AvailableSlots())
		}

		pkg, err := s.packageRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		result = pkg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *catalogService) ReleaseSlots(ctx context.Context, id uint, n int) (*models.TourPackage, error) {
	if n <= 0 {
		return nil, ErrInvalidPartySize
	}

	var result *models.TourPackage

	err := s.packageRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.packageRepo.ReleaseSlots(ctx, tx, id, n); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}
		pkg, err := s.packageRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		result = pkg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
