package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/services"
)

type AnomalyHandler struct {
	anomalyService *services.AnomalyService
}

func NewAnomalyHandler(anomalyService *services.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{anomalyService: anomalyService}
}

// @Summary Scan For Anomalies
// @Description Detect missed payments and abnormal amounts for the current user
// @Tags Anomalies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /anomalies/scan [post]
func (h *AnomalyHandler) Scan(c *gin.Context) {
	userID := middleware.GetUserID(c)

	anomalies, err := h.anomalyService.Scan(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies})
}
