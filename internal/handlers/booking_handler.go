package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/middleware"
	"github.com/swifttransit/bus-booking-backend/internal/models"
	"github.com/swifttransit/bus-booking-backend/internal/services"
	"github.com/swifttransit/bus-booking-backend/internal/utils"
)

// BookingHandler handles the booking lifecycle and read endpoints
type BookingHandler struct {
	bookingSvc *services.BookingService
	querySvc   *services.BookingQueryService
	ticketSvc  *services.TicketService
	logger     *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingSvc *services.BookingService,
	querySvc *services.BookingQueryService,
	ticketSvc *services.TicketService,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingSvc: bookingSvc,
		querySvc:   querySvc,
		ticketSvc:  ticketSvc,
		logger:     logger,
	}
}

// CreateBooking reserves seats on a trip
// @Summary Create a booking
// @Description Reserve seats on a trip with a timed hold. Works for guests and signed-in users.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.Booking "Booking created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Trip or seat not found"
// @Failure 409 {object} map[string]interface{} "Seats already held"
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	var userID *uuid.UUID
	if userCtx, exists := middleware.GetUserContext(c); exists {
		userID = &userCtx.UserID
	}

	device := utils.ParseUserAgent(c.Request.UserAgent())
	h.logger.WithFields(logrus.Fields{
		"trip_id":     req.TripID,
		"seat_count":  len(req.SeatIDs),
		"guest":       userID == nil,
		"device_type": device.DeviceType,
		"os":          device.OS,
		"ip":          c.ClientIP(),
	}).Info("Checkout started")

	booking, err := h.bookingSvc.CreateBooking(&req, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ConfirmBooking finalizes payment for a held booking
// @Summary Confirm a booking
// @Description Complete the payment of a booking using its confirmation token
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.ConfirmBookingRequest true "Confirmation token"
// @Success 200 {object} models.Booking "Booking confirmed"
// @Failure 400 {object} map[string]interface{} "Already paid or hold expired"
// @Failure 404 {object} map[string]interface{} "Unknown token"
// @Router /api/v1/bookings/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req models.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingSvc.ConfirmBooking(req.Token)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking removes a booking through its cancel credentials
// @Summary Cancel a booking
// @Description Cancel a booking with its lookup code and cancel token; the seats are released immediately
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CancelBookingRequest true "Cancel credentials"
// @Success 200 {object} map[string]interface{} "Booking cancelled"
// @Failure 403 {object} map[string]interface{} "Cancel token mismatch"
// @Failure 404 {object} map[string]interface{} "Unknown lookup code"
// @Router /api/v1/bookings/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.bookingSvc.CancelBooking(&req); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// LookUpBooking retrieves a booking for a guest
// @Summary Look up a booking
// @Description Retrieve a booking by lookup code and phone number, without an account
// @Tags Bookings
// @Produce json
// @Param code path string true "Lookup code"
// @Param phone query string true "Booking phone number"
// @Success 200 {object} models.Booking "Booking details"
// @Failure 403 {object} map[string]interface{} "Phone does not match"
// @Failure 404 {object} map[string]interface{} "Unknown lookup code"
// @Router /api/v1/bookings/lookup/{code} [get]
func (h *BookingHandler) LookUpBooking(c *gin.Context) {
	code := c.Param("code")
	phone := c.Query("phone")

	booking, err := h.querySvc.LookUpBooking(code, phone)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// SearchBookings retrieves the signed-in user's bookings
// @Summary Search own bookings
// @Description Paginated search over the authenticated user's bookings
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 10, max 100)"
// @Param sort_date query string false "asc or desc by departure time"
// @Param sort_price query string false "asc or desc by total price"
// @Success 200 {object} models.BookingSearchResult "Search result"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/bookings [get]
func (h *BookingHandler) SearchBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	params := models.BookingSearchParams{
		Page:      intQuery(c, "page", 0),
		PerPage:   intQuery(c, "per_page", 0),
		SortDate:  c.Query("sort_date"),
		SortPrice: c.Query("sort_price"),
	}

	result, err := h.querySvc.UserSearchBookings(userCtx.UserID, params)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTripSeats returns the seats currently blocked on a trip
// @Summary Get held seats of a trip
// @Description List the seats of a trip covered by paid bookings or live holds
// @Tags Bookings
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{} "Held seats"
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Router /api/v1/trips/{id}/seats/held [get]
func (h *BookingHandler) GetTripSeats(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	seats, err := h.querySvc.GetBookingSeatsByTrip(tripID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip_id": tripID, "seats": seats})
}

// DownloadETicket streams the e-ticket PDF of a paid booking
// @Summary Download e-ticket
// @Description Render the e-ticket PDF for a paid booking, addressed like guest lookup
// @Tags Bookings
// @Produce application/pdf
// @Param code path string true "Lookup code"
// @Param phone query string true "Booking phone number"
// @Success 200 {file} binary "E-ticket PDF"
// @Failure 400 {object} map[string]interface{} "Booking not paid yet"
// @Failure 404 {object} map[string]interface{} "Unknown lookup code"
// @Router /api/v1/bookings/lookup/{code}/ticket [get]
func (h *BookingHandler) DownloadETicket(c *gin.Context) {
	code := c.Param("code")
	phone := c.Query("phone")

	pdfBytes, filename, err := h.ticketSvc.GenerateETicket(code, phone)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
