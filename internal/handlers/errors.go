package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
)

// respondDomainError translates a domain error into the matching HTTP status.
// Anything outside the taxonomy is a 500 with a generic message so internal
// details never reach clients.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsConflict(err):
		body := gin.H{"error": err.Error()}
		var conflict domain.ConflictError
		if errors.As(err, &conflict) && len(conflict.SeatIDs) > 0 {
			body["conflicting_seat_ids"] = conflict.SeatIDs
		}
		c.JSON(http.StatusConflict, body)
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case domain.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
