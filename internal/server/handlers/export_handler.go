package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/service/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet exports.
type ExportHandler struct {
	svc    *export.Service
	logger *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(svc *export.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// Workbook handles GET /exports/workbook.xlsx.
func (h *ExportHandler) Workbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.WriteWorkbook(c.Request.Context(), &buf); err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dairy-records.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SyncSheet handles POST /exports/sheets/:collection.
func (h *ExportHandler) SyncSheet(c *gin.Context) {
	collection := c.Param("collection")
	n, err := h.svc.SyncSheet(c.Request.Context(), collection)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection, "rows": n})
}
