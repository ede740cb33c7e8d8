package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/touristapp/booking-backend/internal/dto"
	"github.com/touristapp/booking-backend/internal/middleware"
	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/service"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

func (h *RatingHandler) RegisterRoutes(e *echo.Echo) {
	ratings := e.Group("/api/v1", middleware.JWTAuth())
	ratings.POST("/ratings", h.CreateRating, middleware.RequireRole(string(models.RoleTourist)))
	ratings.GET("/users/me/ratings", h.ListMyRatings, middleware.RequireRole(string(models.RoleTourist)))
}

func (h *RatingHandler) CreateRating(c echo.Context) error {
	var req dto.CreateRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TourPackageID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tour_package_id is required")
	}

	rating, err := h.svc.CreateRating(c.Request().Context(), service.CreateRatingInput{
		TourPackageID: req.TourPackageID,
		TouristID:     middleware.CallerID(c),
		Rating:        req.Rating,
		Review:        req.Review,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRatingValue),
			errors.Is(err, service.ErrNotEligible):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateRating):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToRatingResponse(rating))
}

func (h *RatingHandler) ListMyRatings(c echo.Context) error {
	ratings, err := h.svc.ListUserRatings(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RatingResponse, len(ratings))
	for i, r := range ratings {
		resp[i] = dto.ToRatingResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}
