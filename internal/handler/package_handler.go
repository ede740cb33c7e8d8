package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/touristapp/booking-backend/internal/dto"
	"github.com/touristapp/booking-backend/internal/middleware"
	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/repository"
	"github.com/touristapp/booking-backend/internal/service"
)

type PackageHandler struct {
	svc       service.CatalogService
	ratingSvc service.RatingService
}

func NewPackageHandler(svc service.CatalogService, ratingSvc service.RatingService) *PackageHandler {
	return &PackageHandler{svc: svc, ratingSvc: ratingSvc}
}

func (h *PackageHandler) RegisterRoutes(e *echo.Echo) {
	packages := e.Group("/api/v1/packages")
	packages.GET("", h.ListPackages)
	packages.GET("/:id", h.GetPackage)
	packages.GET("/:id/ratings", h.ListPackageRatings)

	authed := packages.Group("", middleware.JWTAuth())
	authed.POST("", h.CreatePackage, middleware.RequireRole(string(models.RoleTravelCompany)))
	authed.PUT("/:id", h.UpdatePackage)
	authed.PATCH("/:id/status", h.SetStatus)
}

func (h *PackageHandler) CreatePackage(c echo.Context) error {
	var req dto.CreatePackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Price <= 0 || req.MaxParticipants <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name, price (>0) and max_participants (>0) are required")
	}

	pkg := &models.TourPackage{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationDays:    req.DurationDays,
		Category:        req.Category,
		DifficultyLevel: req.DifficultyLevel,
		MaxParticipants: req.MaxParticipants,
		Status:          models.PackageActive,
		CompanyID:       middleware.CallerID(c),
	}
	if err := pkg.SetDestinations(req.Destinations); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid destinations")
	}

	if err := h.svc.CreatePackage(c.Request().Context(), pkg); err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToPackageResponse(pkg))
}

func (h *PackageHandler) GetPackage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid package id")
	}

	pkg, err := h.svc.GetPackage(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToPackageResponse(pkg))
}

func (h *PackageHandler) ListPackages(c echo.Context) error {
	filter := repository.PackageFilter{
		Search: c.QueryParam("search"),
		Limit:  50,
	}

	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		filter.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		filter.MaxPrice = &p
	}
	if v := c.QueryParam("duration"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid duration")
		}
		filter.Duration = &d
	}
	if v := c.QueryParam("status"); v != "" {
		status := models.PackageStatus(v)
		filter.Status = &status
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		filter.Offset = o
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = l
	}

	packages, err := h.svc.ListPackages(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.PackageResponse, len(packages))
	for i, p := range packages {
		resp[i] = dto.ToPackageResponse(&p)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid package id")
	}

	if err := h.authorizeOwner(c, uint(id)); err != nil {
		return err
	}

	var req dto.UpdatePackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Price != nil && *req.Price <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be positive")
	}
	if req.Status != nil && *req.Status != models.PackageActive && *req.Status != models.PackageInactive {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be active or inactive")
	}

	pkg, err := h.svc.UpdatePackage(c.Request().Context(), uint(id), service.UpdatePackageInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationDays:    req.DurationDays,
		Category:        req.Category,
		DifficultyLevel: req.DifficultyLevel,
		Destinations:    req.Destinations,
		MaxParticipants: req.MaxParticipants,
		Status:          req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInsufficientCapacity):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToPackageResponse(pkg))
}

func (h *PackageHandler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid package id")
	}

	if err := h.authorizeOwner(c, uint(id)); err != nil {
		return err
	}

	var req dto.PackageStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Status != models.PackageActive && req.Status != models.PackageInactive {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be active or inactive")
	}

	pkg, err := h.svc.SetStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToPackageResponse(pkg))
}

func (h *PackageHandler) ListPackageRatings(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid package id")
	}

	ratings, err := h.ratingSvc.ListPackageRatings(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RatingResponse, len(ratings))
	for i, r := range ratings {
		resp[i] = dto.ToRatingResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

// authorizeOwner allows the owning company or an admin through.
func (h *PackageHandler) authorizeOwner(c echo.Context, packageID uint) error {
	role := middleware.CallerRole(c)
	if role == string(models.RoleAdmin) {
		return nil
	}
	if role != string(models.RoleTravelCompany) {
		return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	}

	pkg, err := h.svc.GetPackage(c.Request().Context(), packageID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if pkg.CompanyID != middleware.CallerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the package owner")
	}
	return nil
}
