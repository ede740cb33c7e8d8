package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/touristapp/booking-backend/internal/dto"
	"github.com/touristapp/booking-backend/internal/middleware"
	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"github.com/touristapp/booking-backend/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn      func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error)
	getFn         func(ctx context.Context, id uint) (*models.Booking, error)
	listTouristFn func(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error)
	listCompanyFn func(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error)
	transitionFn  func(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, in)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListTouristBookings(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listTouristFn(ctx, touristID, status)
}
func (m *mockBookingService) ListCompanyBookings(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listCompanyFn(ctx, companyID, status)
}
func (m *mockBookingService) TransitionStatus(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error) {
	return m.transitionFn(ctx, bookingID, to)
}

// --- Mock CatalogService ---

type mockCatalogService struct {
	getFn    func(ctx context.Context, id uint) (*models.TourPackage, error)
	createFn func(ctx context.Context, pkg *models.TourPackage) error
	listFn   func(ctx context.Context, filter repository.PackageFilter) ([]models.TourPackage, error)
	updateFn func(ctx context.Context, id uint, in service.UpdatePackageInput) (*models.TourPackage, error)
}

func (m *mockCatalogService) CreatePackage(ctx context.Context, pkg *models.TourPackage) error {
	return m.createFn(ctx, pkg)
}
func (m *mockCatalogService) GetPackage(ctx context.Context, id uint) (*models.TourPackage, error) {
	return m.getFn(ctx, id)
}
func (m *mockCatalogService) ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TourPackage, error) {
	return m.listFn(ctx, filter)
}
func (m *mockCatalogService) UpdatePackage(ctx context.Context, id uint, in service.UpdatePackageInput) (*models.TourPackage, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockCatalogService) SetStatus(ctx context.Context, id uint, status models.PackageStatus) (*models.TourPackage, error) {
	return m.updateFn(ctx, id, service.UpdatePackageInput{Status: &status})
}
func (m *mockCatalogService) ReserveSlots(ctx context.Context, id uint, n int) (*models.TourPackage, error) {
	return nil, nil
}
func (m *mockCatalogService) ReleaseSlots(ctx context.Context, id uint, n int) (*models.TourPackage, error) {
	return nil, nil
}

// --- Helpers ---

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uint, role models.UserRole) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, string(role))
	return c
}

func bookingCreateBody() string {
	return `{
		"tour_package_id": 1,
		"number_of_people": 4,
		"travel_date": "2026-10-01T00:00:00Z",
		"contact_phone": "+66-81-000-0000",
		"emergency_contact_name": "Nok",
		"emergency_contact_number": "+66-81-111-1111"
	}`
}

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			return &models.Booking{
				ID:               1,
				BookingReference: "AB12CD34",
				TourPackageID:    in.TourPackageID,
				TouristID:        in.TouristID,
				NumberOfPeople:   in.NumberOfPeople,
				TotalPrice:       400,
				Status:           models.StatusPending,
				TravelDate:       in.TravelDate,
				BookingDate:      time.Now(),
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(bookingCreateBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)

	h := NewBookingHandler(svc, &mockCatalogService{})
	err := h.CreateBooking(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AB12CD34", resp.BookingReference)
	assert.Equal(t, uint(9), resp.TouristID, "tourist id must come from the token, not the body")
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, 400.0, resp.TotalPrice)
}

func TestCreateBooking_Handler_InvalidBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"number_of_people": 0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)

	h := NewBookingHandler(nil, nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"package not found", service.ErrPackageNotFound, http.StatusNotFound},
		{"package inactive", service.ErrPackageInactive, http.StatusBadRequest},
		{"insufficient capacity", service.ErrInsufficientCapacity, http.StatusConflict},
		{"concurrent modification", service.ErrConcurrentModification, http.StatusConflict},
		{"reference exhausted", service.ErrReferenceExhausted, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
					return nil, tc.svcErr
				},
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(bookingCreateBody()))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := authedContext(e, req, rec, 9, models.RoleTourist)

			h := NewBookingHandler(svc, &mockCatalogService{})
			err := h.CreateBooking(c)

			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tc.wantCode, he.Code)
		})
	}
}

func TestGetBooking_Handler_OwnBooking(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 9, TourPackageID: 1, Status: models.StatusPending}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, &mockCatalogService{})
	require.NoError(t, h.GetBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBooking_Handler_ForeignBookingForbidden(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 77, TourPackageID: 1}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, &mockCatalogService{})
	err := h.GetBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestGetBooking_Handler_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/999", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("999")

	h := NewBookingHandler(svc, &mockCatalogService{})
	err := h.GetBooking(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestTransitionStatus_Handler_TouristCancelsOwnBooking(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 9, TourPackageID: 1, Status: models.StatusPending}, nil
		},
		transitionFn: func(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error) {
			return &models.Booking{ID: bookingID, TouristID: 9, Status: to}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/status", strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, &mockCatalogService{})
	require.NoError(t, h.TransitionStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCancelled, resp.Status)
}

func TestTransitionStatus_Handler_TouristCannotConfirm(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 9, TourPackageID: 1, Status: models.StatusPending}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, &mockCatalogService{})
	err := h.TransitionStatus(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestTransitionStatus_Handler_CompanyConfirms(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 9, TourPackageID: 4, Status: models.StatusPending}, nil
		},
		transitionFn: func(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error) {
			return &models.Booking{ID: bookingID, Status: to}, nil
		},
	}
	catalog := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, catalog)
	require.NoError(t, h.TransitionStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTransitionStatus_Handler_CompanyNotOwnerForbidden(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 9, TourPackageID: 4, Status: models.StatusPending}, nil
		},
	}
	catalog := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 55}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, catalog)
	err := h.TransitionStatus(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestTransitionStatus_Handler_InvalidTransition(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, TouristID: 9, TourPackageID: 1, Status: models.StatusCancelled}, nil
		},
		transitionFn: func(ctx context.Context, bookingID uint, to models.BookingStatus) (*models.Booking, error) {
			return nil, service.ErrInvalidTransition
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/status", strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc, &mockCatalogService{})
	err := h.TransitionStatus(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestTransitionStatus_Handler_UnknownStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/status", strings.NewReader(`{"status":"waitlisted"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(nil, nil)
	err := h.TransitionStatus(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestListTouristBookings_Handler_WithStatusFilter(t *testing.T) {
	var capturedStatus *models.BookingStatus
	var capturedTourist uint
	svc := &mockBookingService{
		listTouristFn: func(ctx context.Context, touristID uint, status *models.BookingStatus) ([]models.Booking, error) {
			capturedTourist = touristID
			capturedStatus = status
			return []models.Booking{}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=confirmed", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)

	h := NewBookingHandler(svc, &mockCatalogService{})
	require.NoError(t, h.ListTouristBookings(c))
	assert.Equal(t, uint(9), capturedTourist)
	require.NotNil(t, capturedStatus)
	assert.Equal(t, models.StatusConfirmed, *capturedStatus)
}

func TestListTouristBookings_Handler_BadStatusFilter(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=bogus", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, models.RoleTourist)

	h := NewBookingHandler(nil, nil)
	err := h.ListTouristBookings(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestListCompanyBookings_Handler_Summaries(t *testing.T) {
	svc := &mockBookingService{
		listCompanyFn: func(ctx context.Context, companyID uint, status *models.BookingStatus) ([]models.Booking, error) {
			return []models.Booking{
				{
					ID:            1,
					TourPackageID: 4,
					TouristID:     9,
					Status:        models.StatusConfirmed,
					Tourist:       &models.User{ID: 9, FullName: "Somchai J.", Email: "somchai@example.com"},
					TourPackage:   &models.TourPackage{ID: 4, Name: "Northern Highlands Trek", Price: 4500},
				},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/company/bookings", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)

	h := NewBookingHandler(svc, &mockCatalogService{})
	require.NoError(t, h.ListCompanyBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.NotNil(t, resp[0].Tourist)
	assert.Equal(t, "Somchai J.", resp[0].Tourist.FullName)
	require.NotNil(t, resp[0].TourPackage)
	assert.Equal(t, "Northern Highlands Trek", resp[0].TourPackage.Name)
}
