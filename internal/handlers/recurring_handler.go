package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/services"
)

type RecurringHandler struct {
	recurringService *services.RecurringService
}

func NewRecurringHandler(recurringService *services.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// @Summary Scan For Recurring Payments
// @Description Run the recurring-pattern detector over the user's transactions
// @Tags Recurring
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /recurring/scan [post]
func (h *RecurringHandler) Scan(c *gin.Context) {
	userID := middleware.GetUserID(c)

	detections, err := h.recurringService.Scan(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detections": detections})
}

// @Summary Pending Detections
// @Description List recurring-pattern suggestions awaiting review
// @Tags Recurring
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /recurring [get]
func (h *RecurringHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)

	detections, err := h.recurringService.FindPending(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detections": detections})
}

// @Summary Accept Detection
// @Description Turn a pending suggestion into a scheduled payment event
// @Tags Recurring
// @Produce json
// @Param id path string true "Detection ID"
// @Success 201 {object} models.PaymentEvent
// @Failure 409 {object} map[string]string
// @Router /recurring/{id}/accept [post]
func (h *RecurringHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)

	event, err := h.recurringService.Accept(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondDetectionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// @Summary Reject Detection
// @Description Dismiss a pending recurring-pattern suggestion
// @Tags Recurring
// @Produce json
// @Param id path string true "Detection ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /recurring/{id}/reject [post]
func (h *RecurringHandler) Reject(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.recurringService.Reject(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondDetectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "detection rejected"})
}

func respondDetectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "detection not found"})
	case errors.Is(err, services.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": "detection already reviewed"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
