package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swifttransit/bus-booking-backend/internal/models"
	"github.com/swifttransit/bus-booking-backend/internal/services"
)

// SeatLayoutHandler handles seat layout operations
type SeatLayoutHandler struct {
	layoutSvc *services.SeatLayoutService
}

// NewSeatLayoutHandler creates a new SeatLayoutHandler
func NewSeatLayoutHandler(layoutSvc *services.SeatLayoutService) *SeatLayoutHandler {
	return &SeatLayoutHandler{layoutSvc: layoutSvc}
}

// AddSeats places a batch of seats on a bus grid
// @Summary Add seats to a bus
// @Description Validate a batch of seat placements against the bus grid and persist it atomically
// @Tags Seat Layout
// @Accept json
// @Produce json
// @Param id path string true "Bus ID"
// @Param request body models.AddSeatsRequest true "Seat placements"
// @Success 201 {object} map[string]interface{} "Seats created"
// @Failure 400 {object} map[string]interface{} "Placement outside the grid"
// @Failure 404 {object} map[string]interface{} "Bus not found"
// @Failure 409 {object} map[string]interface{} "Placement overlaps an existing seat"
// @Security BearerAuth
// @Router /api/v1/buses/{id}/seats [post]
func (h *SeatLayoutHandler) AddSeats(c *gin.Context) {
	busID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID"})
		return
	}

	var req models.AddSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	seats, err := h.layoutSvc.AddSeats(busID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bus_id": busID, "seats": seats})
}

// GetLayout returns the full seat layout of a bus
// @Summary Get bus seat layout
// @Tags Seat Layout
// @Produce json
// @Param id path string true "Bus ID"
// @Success 200 {object} map[string]interface{} "Seat layout"
// @Failure 404 {object} map[string]interface{} "Bus not found"
// @Router /api/v1/buses/{id}/seats [get]
func (h *SeatLayoutHandler) GetLayout(c *gin.Context) {
	busID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID"})
		return
	}

	seats, err := h.layoutSvc.GetLayout(busID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bus_id": busID, "seats": seats})
}
