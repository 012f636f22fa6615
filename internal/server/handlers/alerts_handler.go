package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/records"
)

// SweepRunner triggers an alert sweep outside the schedule.
type SweepRunner interface {
	SweepNow(ctx context.Context) (int, error)
}

// AlertsHandler exposes the alert list and its read state.
type AlertsHandler struct {
	svc    *records.Service
	sweep  SweepRunner
	logger *zap.Logger
}

// NewAlertsHandler constructs the HTTP handler adapter. sweep may be nil.
func NewAlertsHandler(svc *records.Service, sweep SweepRunner, logger *zap.Logger) *AlertsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertsHandler{svc: svc, sweep: sweep, logger: logger}
}

// List handles GET /alerts.
func (h *AlertsHandler) List(c *gin.Context) {
	alerts, err := h.svc.Alerts(c.Request.Context(), records.AlertFilter{
		UnreadOnly: c.Query("unread") == "true",
		Priority:   c.Query("priority"),
	})
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(alerts))
}

// Create handles POST /alerts.
func (h *AlertsHandler) Create(c *gin.Context) {
	var form ingestion.AlertForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	alert, err := h.svc.AddAlert(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// MarkRead handles POST /alerts/:id/read.
func (h *AlertsHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkAlertRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /alerts/read-all.
func (h *AlertsHandler) MarkAllRead(c *gin.Context) {
	n, err := h.svc.MarkAllAlertsRead(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// Dismiss handles DELETE /alerts/:id.
func (h *AlertsHandler) Dismiss(c *gin.Context) {
	if err := h.svc.DismissAlert(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurgeRead handles DELETE /alerts.
func (h *AlertsHandler) PurgeRead(c *gin.Context) {
	n, err := h.svc.PurgeReadAlerts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// Sweep handles POST /alerts/sweep.
func (h *AlertsHandler) Sweep(c *gin.Context) {
	if h.sweep == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert sweep is not configured"})
		return
	}
	n, err := h.sweep.SweepNow(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": n})
}
