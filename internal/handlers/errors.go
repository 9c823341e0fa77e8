package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// respondError maps domain errors to HTTP responses. Typed errors carry
// their own payloads (validation details, per-platform outcomes); anything
// unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Validation failed",
			"details":  validationErr.Errors,
			"warnings": validationErr.Warnings,
		})
		return
	}

	var conflictErr *models.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
		return
	}

	var stateErr *models.InvalidStateError
	if errors.As(err, &stateErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          stateErr.Error(),
			"current_status": string(stateErr.Current),
		})
		return
	}

	var forbiddenErr *models.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		c.JSON(http.StatusForbidden, gin.H{"error": forbiddenErr.Error()})
		return
	}

	var partialErr *models.PartialFailureError
	if errors.As(err, &partialErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":            partialErr.Error(),
			"platform_results": partialErr.Results,
		})
		return
	}

	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
}
