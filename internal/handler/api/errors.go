package api

import (
	"errors"
	"net/http"

	"timegrid/internal/domain/booking"
	"timegrid/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// respondError maps usecase errors onto HTTP statuses. Handlers call this as
// the fallthrough after any endpoint-specific handling.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRulesetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ruleset not found"})
	case errors.Is(err, errs.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, errs.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
	case errors.Is(err, errs.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, errs.ErrInvalidTimezone):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone identifier"})
	case errors.Is(err, errs.ErrRulesetValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed: " + err.Error()})
	case errors.Is(err, errs.ErrSaveInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "Another save is in flight for this ruleset"})
	case errors.Is(err, errs.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is no longer available"})
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Confirmation is currently being processed"})
	case errors.Is(err, booking.ErrDateNotSelected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "A date must be selected first"})
	case errors.Is(err, booking.ErrSlotNotOnSelectedDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Slot does not fall on the selected date"})
	case errors.Is(err, booking.ErrTerminalState):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is already finished"})
	case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Action not allowed in the current session step"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
