package repository

import (
	"context"

	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, key string) (*models.Booking, error)
	ExistsByReference(ctx context.Context, tx *gorm.DB, reference string) (bool, error)
	FindByTourist(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error)
	FindByCompany(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error)
	FindCompletedBooking(ctx context.Context, tx *gorm.DB, packageID, touristID uint) (*models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row so concurrent status transitions
// serialize instead of racing each other.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, key string) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ExistsByReference(ctx context.Context, tx *gorm.DB, reference string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("booking_reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) FindByTourist(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("tourist_id = ?", touristID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindByCompany returns bookings placed against any package owned by the
// company, with tourist and package details preloaded for summaries.
func (r *bookingRepository) FindByCompany(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Joins("JOIN tour_packages ON tour_packages.id = bookings.tour_package_id").
		Where("tour_packages.company_id = ?", companyID).
		Preload("TourPackage").
		Preload("Tourist")
	if status != nil {
		q = q.Where("bookings.status = ?", *status)
	}
	if err := q.Order("bookings.id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindCompletedBooking returns a completed booking for the pair, used as the
// eligibility proof for rating a package.
func (r *bookingRepository) FindCompletedBooking(ctx context.Context, tx *gorm.DB, packageID, touristID uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Where("tour_package_id = ? AND tourist_id = ? AND status = ?",
			packageID, touristID, models.StatusCompleted).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}
