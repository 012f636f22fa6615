package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/service/auth"
	"github.com/mamadbah2/dairyflow/internal/service/export"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/pkg/clients/identity"
)

// respondError maps service errors to HTTP responses. Unrecognized errors get fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback int) {
	var (
		verr     *ingestion.ValidationError
		rejected *identity.RejectedError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, export.ErrUnknownCollection):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, auth.ErrInvalidSession), errors.Is(err, identity.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials or session"})
	case errors.As(err, &rejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": rejected.Message})
	case errors.Is(err, export.ErrSheetsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(fallback, gin.H{"error": http.StatusText(fallback)})
	}
}

func badBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// listOf keeps empty collections serialized as [] rather than null.
func listOf[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// reportDate reads the optional date query parameter, defaulting to today in loc.
func reportDate(c *gin.Context, loc *time.Location) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().In(loc), true
	}
	date, err := ingestion.NormalizeDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"date": "date must be a valid calendar date"}})
		return time.Time{}, false
	}
	t, _ := time.ParseInLocation(models.DateLayout, date, loc)
	return t, true
}
