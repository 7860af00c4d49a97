package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vision-alert-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrAlertNotFound),
		errors.Is(err, domain.ErrRuleNotFound),
		errors.Is(err, domain.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrRuleNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyAlertMessage),
		errors.Is(err, domain.ErrInvalidAlertLevel),
		errors.Is(err, domain.ErrAlertNotRetryable),
		errors.Is(err, domain.ErrInvalidRuleName),
		errors.Is(err, domain.ErrUnknownTargetClass),
		errors.Is(err, domain.ErrInvalidThreshold),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrRuleDisabled),
		errors.Is(err, domain.ErrRuleCooldown),
		errors.Is(err, domain.ErrEmptyFrame):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrNotifierNotEnabled),
		errors.Is(err, domain.ErrInferenceFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
