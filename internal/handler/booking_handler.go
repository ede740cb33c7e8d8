package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/touristapp/booking-backend/internal/dto"
	"github.com/touristapp/booking-backend/internal/middleware"
	"github.com/touristapp/booking-backend/internal/models"
	"github.com/touristapp/booking-backend/internal/service"
)

type BookingHandler struct {
	svc        service.BookingService
	catalogSvc service.CatalogService
}

func NewBookingHandler(svc service.BookingService, catalogSvc service.CatalogService) *BookingHandler {
	return &BookingHandler{svc: svc, catalogSvc: catalogSvc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings", middleware.JWTAuth())
	bookings.POST("", h.CreateBooking, middleware.RequireRole(string(models.RoleTourist)))
	bookings.GET("", h.ListTouristBookings, middleware.RequireRole(string(models.RoleTourist)))
	bookings.GET("/:id", h.GetBooking)
	bookings.PATCH("/:id/status", h.TransitionStatus)

	company := e.Group("/api/v1/company", middleware.JWTAuth(), middleware.RequireRole(string(models.RoleTravelCompany)))
	company.GET("/bookings", h.ListCompanyBookings)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TourPackageID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tour_package_id is required")
	}
	if req.NumberOfPeople <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "number_of_people must be positive")
	}
	if req.TravelDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "travel_date is required")
	}
	if req.ContactPhone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contact_phone is required")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		TourPackageID:          req.TourPackageID,
		TouristID:              middleware.CallerID(c),
		NumberOfPeople:         req.NumberOfPeople,
		TravelDate:             req.TravelDate,
		ContactPhone:           req.ContactPhone,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		SpecialRequests:        req.SpecialRequests,
		IdempotencyKey:         req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPackageInactive),
			errors.Is(err, service.ErrInvalidPartySize):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientCapacity),
			errors.Is(err, service.ErrConcurrentModification),
			errors.Is(err, service.ErrReferenceExhausted):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.authorizeParticipant(c, booking); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListTouristBookings(c echo.Context) error {
	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		if !bs.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		status = &bs
	}

	bookings, err := h.svc.ListTouristBookings(c.Request().Context(), middleware.CallerID(c), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ListCompanyBookings(c echo.Context) error {
	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		if !bs.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		status = &bs
	}

	bookings, err := h.svc.ListCompanyBookings(c.Request().Context(), middleware.CallerID(c), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingSummaryResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingSummaryResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

// TransitionStatus enforces who may request what: tourists can only cancel
// their own bookings, the owning company can confirm, complete or cancel,
// admins can do anything. State legality itself lives in the service.
func (h *BookingHandler) TransitionStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.BookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !req.Status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown booking status")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	switch middleware.CallerRole(c) {
	case string(models.RoleAdmin):
	case string(models.RoleTourist):
		if booking.TouristID != middleware.CallerID(c) {
			return echo.NewHTTPError(http.StatusForbidden, "not your booking")
		}
		if req.Status != models.StatusCancelled {
			return echo.NewHTTPError(http.StatusForbidden, "tourists may only cancel bookings")
		}
	case string(models.RoleTravelCompany):
		if err := h.authorizePackageOwner(c, booking.TourPackageID); err != nil {
			return err
		}
	default:
		return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	}

	updated, err := h.svc.TransitionStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(updated))
}

func (h *BookingHandler) authorizeParticipant(c echo.Context, booking *models.Booking) error {
	switch middleware.CallerRole(c) {
	case string(models.RoleAdmin):
		return nil
	case string(models.RoleTourist):
		if booking.TouristID != middleware.CallerID(c) {
			return echo.NewHTTPError(http.StatusForbidden, "not your booking")
		}
		return nil
	case string(models.RoleTravelCompany):
		return h.authorizePackageOwner(c, booking.TourPackageID)
	default:
		return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	}
}

func (h *BookingHandler) authorizePackageOwner(c echo.Context, packageID uint) error {
	pkg, err := h.catalogSvc.GetPackage(c.Request().Context(), packageID)
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
