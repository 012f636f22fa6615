package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/service/reporting"
)

// ReportsHandler exposes the aggregate reports.
type ReportsHandler struct {
	svc    *reporting.Service
	loc    *time.Location
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter. Report dates default to today in loc.
func NewReportsHandler(svc *reporting.Service, loc *time.Location, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{svc: svc, loc: loc, logger: logger}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	date, ok := reportDate(c, h.loc)
	if !ok {
		return
	}
	dash, err := h.svc.Dashboard(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Milk handles GET /reports/milk.
func (h *ReportsHandler) Milk(c *gin.Context) {
	date, ok := reportDate(c, h.loc)
	if !ok {
		return
	}
	summary, err := h.svc.Milk(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Finance handles GET /reports/finance.
func (h *ReportsHandler) Finance(c *gin.Context) {
	summary, err := h.svc.Finance(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Feed handles GET /reports/feed.
func (h *ReportsHandler) Feed(c *gin.Context) {
	summary, err := h.svc.Feed(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Breeding handles GET /reports/breeding.
func (h *ReportsHandler) Breeding(c *gin.Context) {
	summary, err := h.svc.Breeding(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Herd handles GET /reports/herd.
func (h *ReportsHandler) Herd(c *gin.Context) {
	date, ok := reportDate(c, h.loc)
	if !ok {
		return
	}
	summary, err := h.svc.Herd(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, summary)
}
