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

type SpotHandler struct {
	svc service.SpotService
}

func NewSpotHandler(svc service.SpotService) *SpotHandler {
	return &SpotHandler{svc: svc}
}

func (h *SpotHandler) RegisterRoutes(e *echo.Echo) {
	spots := e.Group("/api/v1/spots")
	spots.GET("", h.ListSpots)
	spots.GET("/:id", h.GetSpot)
	spots.GET("/:id/ratings", h.ListSpotRatings)

	authed := spots.Group("", middleware.JWTAuth())
	authed.POST("", h.CreateSpot, middleware.RequireRole(string(models.RoleAdmin), string(models.RoleTravelCompany)))
	authed.GET("/pending", h.ListPendingSpots, middleware.RequireRole(string(models.RoleAdmin)))
	authed.PUT("/:id", h.UpdateSpot, middleware.RequireRole(string(models.RoleAdmin)))
	authed.PATCH("/:id/status", h.SetSpotStatus, middleware.RequireRole(string(models.RoleAdmin)))
	authed.DELETE("/:id", h.DeleteSpot, middleware.RequireRole(string(models.RoleAdmin)))
	authed.POST("/:id/ratings", h.RateSpot, middleware.RequireRole(string(models.RoleTourist)))
	authed.PUT("/:id/ratings/:rating_id", h.UpdateSpotRating, middleware.RequireRole(string(models.RoleTourist)))
	authed.DELETE("/:id/ratings/:rating_id", h.DeleteSpotRating, middleware.RequireRole(string(models.RoleTourist)))

	me := e.Group("/api/v1/users/me", middleware.JWTAuth())
	me.GET("/spot-ratings", h.ListMySpotRatings, middleware.RequireRole(string(models.RoleTourist)))
}

func validCoordinates(lat, long float64) bool {
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}

func (h *SpotHandler) CreateSpot(c echo.Context) error {
	var req dto.CreateSpotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !validCoordinates(req.Latitude, req.Longitude) {
		return echo.NewHTTPError(http.StatusBadRequest, "latitude must be -90..90 and longitude -180..180")
	}

	spot, err := h.svc.CreateSpot(c.Request().Context(), service.CreateSpotInput{
		Name:            req.Name,
		Description:     req.Description,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         req.Address,
		Region:          req.Region,
		Categories:      req.Categories,
		BestTimeToVisit: req.BestTimeToVisit,
		CreatorID:       middleware.CallerID(c),
		CreatorRole:     models.UserRole(middleware.CallerRole(c)),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToSpotResponse(spot))
}

func (h *SpotHandler) GetSpot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spot id")
	}

	spot, err := h.svc.GetSpot(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrSpotNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToSpotResponse(spot))
}

// ListSpots is the public catalog: only approved spots are visible here.
// Pending submissions are reviewed through the admin listing.
func (h *SpotHandler) ListSpots(c echo.Context) error {
	approved := models.SpotApproved
	filter := repository.SpotFilter{
		Search:   c.QueryParam("search"),
		Region:   c.QueryParam("region"),
		Category: c.QueryParam("category"),
		Status:   &approved,
		Limit:    50,
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

	spots, err := h.svc.ListSpots(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.SpotResponse, len(spots))
	for i, s := range spots {
		resp[i] = dto.ToSpotResponse(&s)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SpotHandler) ListPendingSpots(c echo.Context) error {
	pending := models.SpotPending
	spots, err := h.svc.ListSpots(c.Request().Context(), repository.SpotFilter{Status: &pending})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.SpotResponse, len(spots))
	for i, s := range spots {
		resp[i] = dto.ToSpotResponse(&s)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SpotHandler) UpdateSpot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spot id")
	}

	var req dto.UpdateSpotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return echo.NewHTTPError(http.StatusBadRequest, "latitude must be -90..90")
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return echo.NewHTTPError(http.StatusBadRequest, "longitude must be -180..180")
	}

	spot, err := h.svc.UpdateSpot(c.Request().Context(), uint(id), service.UpdateSpotInput{
		Name:            req.Name,
		Description:     req.Description,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         req.Address,
		Region:          req.Region,
		Categories:      req.Categories,
		BestTimeToVisit: req.BestTimeToVisit,
	})
	if err != nil {
		if errors.Is(err, service.ErrSpotNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToSpotResponse(spot))
}

func (h *SpotHandler) SetSpotStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spot id")
	}

	var req dto.SpotStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	spot, err := h.svc.SetSpotStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSpotStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSpotNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToSpotResponse(spot))
}

func (h *SpotHandler) DeleteSpot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spot id")
	}

	if err := h.svc.DeleteSpot(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrSpotNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *SpotHandler) RateSpot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spot id")
	}

	var req dto.CreateSpotRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rating, err := h.svc.RateSpot(c.Request().Context(), service.SpotRatingInput{
		TouristSpotID: uint(id),
		TouristID:     middleware.CallerID(c),
		Rating:        req.Rating,
		Review:        req.Review,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRatingValue):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSpotNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateSpotRating):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToSpotRatingResponse(rating))
}

func (h *SpotHandler) UpdateSpotRating(c echo.Context) error {
	ratingID, err := strconv.ParseUint(c.Param("rating_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid rating id")
	}

	var req dto.UpdateSpotRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rating, err := h.svc.UpdateSpotRating(c.Request().Context(), uint(ratingID), middleware.CallerID(c), req.Rating, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRatingValue):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSpotRatingNotFound), errors.Is(err, service.ErrSpotNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToSpotRatingResponse(rating))
}

func (h *SpotHandler) DeleteSpotRating(c echo.Context) error {
	ratingID, err := strconv.ParseUint(c.Param("rating_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid rating id")
	}

	if err := h.svc.DeleteSpotRating(c.Request().Context(), uint(ratingID), middleware.CallerID(c)); err != nil {
		if errors.Is(err, service.ErrSpotRatingNotFound) || errors.Is(err, service.ErrSpotNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *SpotHandler) ListSpotRatings(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid spot id")
	}

	ratings, err := h.svc.ListSpotRatings(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrSpotNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.SpotRatingResponse, len(ratings))
	for i, r := range ratings {
		resp[i] = dto.ToSpotRatingResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SpotHandler) ListMySpotRatings(c echo.Context) error {
	ratings, err := h.svc.ListTouristSpotRatings(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.SpotRatingResponse, len(ratings))
	for i, r := range ratings {
		resp[i] = dto.ToSpotRatingResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}
