package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// @Summary List Payment Events
// @Description Get all payment events for the current user
// @Tags Events
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *EventHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)

	events, err := h.eventService.FindByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// @Summary Create Payment Event
// @Description Schedule a financial obligation
// @Tags Events
// @Accept json
// @Produce json
// @Param event body models.PaymentEvent true "Payment Event"
// @Success 201 {object} models.PaymentEvent
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var event models.PaymentEvent
	if err := BindNestedOrFlat(c, "event", &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}
	event.ID = ""
	event.UserID = userID

	if err := h.eventService.Create(c.Request.Context(), &event); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

type markPaidRequest struct {
	Amount float64    `json:"amount"`
	PaidAt *time.Time `json:"paid_at"`
}

// @Summary Mark Event Paid
// @Description Record a payment against a scheduled event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body markPaidRequest false "Payment details"
// @Success 200 {object} models.PaymentEvent
// @Failure 422 {object} map[string]string
// @Router /events/{id}/pay [post]
func (h *EventHandler) MarkPaid(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req markPaidRequest
	_ = BindNestedOrFlat(c, "payment", &req)
	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	event, err := h.eventService.MarkPaid(c.Request.Context(), c.Param("id"), userID, req.Amount, paidAt)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// @Summary Cancel Event
// @Description Cancel a scheduled payment event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.PaymentEvent
// @Failure 422 {object} map[string]string
// @Router /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)

	event, err := h.eventService.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
