package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/touristapp/booking-backend/internal/dto"
	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"github.com/touristapp/booking-backend/internal/service"
)

func TestCreatePackage_Handler_Success(t *testing.T) {
	var captured *models.TourPackage
	svc := &mockCatalogService{
		createFn: func(ctx context.Context, pkg *models.TourPackage) error {
			captured = pkg
			pkg.ID = 4
			return nil
		},
	}

	e := echo.New()
	body := `{
		"name": "Northern Highlands Trek",
		"description": "Three day trek",
		"price": 4500,
		"duration_days": 3,
		"category": "adventure",
		"difficulty_level": "moderate",
		"destinations": ["Chiang Mai", "Pai"],
		"max_participants": 10
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)

	h := NewPackageHandler(svc, &mockRatingService{})
	require.NoError(t, h.CreatePackage(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, captured)
	assert.Equal(t, uint(20), captured.CompanyID, "company id must come from the token")
	assert.Equal(t, models.PackageActive, captured.Status)

	var resp dto.PackageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Chiang Mai", "Pai"}, resp.Destinations)
	assert.Equal(t, 10, resp.AvailableSlots)
}

func TestCreatePackage_Handler_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"price": 100, "max_participants": 10}`},
		{"zero price", `{"name": "X", "price": 0, "max_participants": 10}`},
		{"zero capacity", `{"name": "X", "price": 100, "max_participants": 0}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/packages", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := authedContext(e, req, rec, 20, models.RoleTravelCompany)

			h := NewPackageHandler(nil, nil)
			err := h.CreatePackage(c)

			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}

func TestGetPackage_Handler_NotFound(t *testing.T) {
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return nil, service.ErrPackageNotFound
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages/999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	h := NewPackageHandler(svc, &mockRatingService{})
	err := h.GetPackage(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestListPackages_Handler_ParsesFilters(t *testing.T) {
	var captured repository.PackageFilter
	svc := &mockCatalogService{
		listFn: func(ctx context.Context, filter repository.PackageFilter) ([]models.TourPackage, error) {
			captured = filter
			return []models.TourPackage{}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages?search=trek&min_price=1000&max_price=5000&duration=3&status=active&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewPackageHandler(svc, &mockRatingService{})
	require.NoError(t, h.ListPackages(c))

	assert.Equal(t, "trek", captured.Search)
	require.NotNil(t, captured.MinPrice)
	assert.Equal(t, 1000.0, *captured.MinPrice)
	require.NotNil(t, captured.MaxPrice)
	assert.Equal(t, 5000.0, *captured.MaxPrice)
	require.NotNil(t, captured.Duration)
	assert.Equal(t, 3, *captured.Duration)
	require.NotNil(t, captured.Status)
	assert.Equal(t, models.PackageActive, *captured.Status)
	assert.Equal(t, 5, captured.Limit)
	assert.Equal(t, 10, captured.Offset)
}

func TestListPackages_Handler_BadPriceFilter(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages?min_price=cheap", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewPackageHandler(nil, nil)
	err := h.ListPackages(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUpdatePackage_Handler_OwnerUpdatesPrice(t *testing.T) {
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20}, nil
		},
		updateFn: func(ctx context.Context, id uint, in service.UpdatePackageInput) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20, Price: *in.Price}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/packages/4", strings.NewReader(`{"price": 5200}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(svc, &mockRatingService{})
	require.NoError(t, h.UpdatePackage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PackageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5200.0, resp.Price)
}

func TestUpdatePackage_Handler_NotOwnerForbidden(t *testing.T) {
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 55}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/packages/4", strings.NewReader(`{"price": 5200}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(svc, &mockRatingService{})
	err := h.UpdatePackage(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestUpdatePackage_Handler_AdminBypassesOwnership(t *testing.T) {
	svc := &mockCatalogService{
		updateFn: func(ctx context.Context, id uint, in service.UpdatePackageInput) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 55, Price: *in.Price}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/packages/4", strings.NewReader(`{"price": 5200}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 1, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(svc, &mockRatingService{})
	require.NoError(t, h.UpdatePackage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdatePackage_Handler_CapacityBelowBooked(t *testing.T) {
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20}, nil
		},
		updateFn: func(ctx context.Context, id uint, in service.UpdatePackageInput) (*models.TourPackage, error) {
			return nil, service.ErrInsufficientCapacity
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/packages/4", strings.NewReader(`{"max_participants": 2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(svc, &mockRatingService{})
	err := h.UpdatePackage(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestSetStatus_Handler_UnknownStatus(t *testing.T) {
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/packages/4/status", strings.NewReader(`{"status": "archived"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(svc, &mockRatingService{})
	err := h.SetStatus(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSetStatus_Handler_OwnerDeactivates(t *testing.T) {
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id uint) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20}, nil
		},
		updateFn: func(ctx context.Context, id uint, in service.UpdatePackageInput) (*models.TourPackage, error) {
			return &models.TourPackage{ID: id, CompanyID: 20, Status: *in.Status}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/packages/4/status", strings.NewReader(`{"status": "inactive"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 20, models.RoleTravelCompany)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(svc, &mockRatingService{})
	require.NoError(t, h.SetStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PackageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.PackageInactive, resp.Status)
}

func TestListPackageRatings_Handler(t *testing.T) {
	ratingSvc := &mockRatingService{
		listPackageFn: func(ctx context.Context, packageID uint) ([]models.Rating, error) {
			return []models.Rating{
				{ID: 1, TourPackageID: packageID, TouristID: 9, Rating: 5},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages/4/ratings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewPackageHandler(&mockCatalogService{}, ratingSvc)
	require.NoError(t, h.ListPackageRatings(c))

	var resp []dto.RatingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 5, resp[0].Rating)
}
