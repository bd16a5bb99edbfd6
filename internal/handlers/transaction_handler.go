package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
	"github.com/tigearis/finsight/internal/services"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// @Summary List Transactions
// @Description Get a paginated list of the user's transactions
// @Tags Transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Param sort query string false "Sort (field-direction)"
// @Success 200 {object} map[string]interface{}
// @Router /transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)

	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	transactions, total, err := h.transactionService.List(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Create Transaction
// @Description Record a single ledger transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction body models.Transaction true "Transaction"
// @Success 201 {object} models.Transaction
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var tx models.Transaction
	if err := BindNestedOrFlat(c, "transaction", &tx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction payload"})
		return
	}
	tx.ID = 0
	tx.UserID = userID

	if err := h.transactionService.Create(c.Request.Context(), &tx); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

type importRequest struct {
	Transactions []models.Transaction `json:"transactions" binding:"required"`
}

// @Summary Import Transactions
// @Description Bulk import ledger transactions
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body importRequest true "Transactions"
// @Success 201 {object} map[string]interface{}
// @Router /transactions/import [post]
func (h *TransactionHandler) Import(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import payload"})
		return
	}

	count, err := h.transactionService.Import(c.Request.Context(), userID, req.Transactions)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": count})
}
