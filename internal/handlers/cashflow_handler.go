package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tigearis/finsight/internal/forecast"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/services"
)

type CashFlowHandler struct {
	cashFlowService *services.CashFlowService
	exportService   *services.ExportService
}

func NewCashFlowHandler(cashFlowService *services.CashFlowService, exportService *services.ExportService) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService, exportService: exportService}
}

// @Summary Cash Flow Projection
// @Description Project the user's cash flow over a window (week, month, quarter, year)
// @Tags CashFlow
// @Produce json
// @Param window query string false "Projection window" default(month)
// @Param from query string false "Window start (YYYY-MM-DD), defaults to today"
// @Success 200 {object} forecast.CashFlowProjection
// @Failure 422 {object} map[string]string
// @Router /cashflow/projection [get]
func (h *CashFlowHandler) Projection(c *gin.Context) {
	userID := middleware.GetUserID(c)

	window := forecast.Window(c.DefaultQuery("window", "month"))
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	projection, err := h.cashFlowService.Project(c.Request.Context(), userID, window, from)
	if err != nil {
		respondProjectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}

// @Summary Export Cash Flow Projection
// @Description Download the projection (csv, xlsx or pdf)
// @Tags CashFlow
// @Produce octet-stream
// @Param window query string false "Projection window" default(month)
// @Param format query string false "Export format" default(csv)
// @Success 200 {file} binary
// @Router /cashflow/projection/export [get]
func (h *CashFlowHandler) Export(c *gin.Context) {
	userID := middleware.GetUserID(c)

	window := forecast.Window(c.DefaultQuery("window", "month"))
	from := time.Now().UTC().Truncate(24 * time.Hour)

	projection, err := h.cashFlowService.Project(c.Request.Context(), userID, window, from)
	if err != nil {
		respondProjectionError(c, err)
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, filename, err = h.exportService.ExportProjectionCSV(projection)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportProjectionXLSX(projection)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportProjectionPDF(projection)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func respondProjectionError(c *gin.Context, err error) {
	var invalid *forecast.InvalidInputError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": invalid.Field})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
