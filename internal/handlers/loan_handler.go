package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tigearis/finsight/internal/forecast"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/services"
)

type LoanHandler struct {
	loanService   *services.LoanService
	exportService *services.ExportService
}

func NewLoanHandler(loanService *services.LoanService, exportService *services.ExportService) *LoanHandler {
	return &LoanHandler{loanService: loanService, exportService: exportService}
}

// @Summary List Loans
// @Description Get all loans for the current user
// @Tags Loans
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /loans [get]
func (h *LoanHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)

	loans, err := h.loanService.FindByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// @Summary Show Loan
// @Description Get a single loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} models.Loan
// @Failure 404 {object} map[string]string
// @Router /loans/{id} [get]
func (h *LoanHandler) Show(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	loan, err := h.loanService.FindByID(c.Request.Context(), id)
	if err != nil || loan.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}

	c.JSON(http.StatusOK, loan)
}

// @Summary Create Loan
// @Description Register a loan with its terms
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan body models.Loan true "Loan"
// @Success 201 {object} models.Loan
// @Failure 422 {object} map[string]string
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var loan models.Loan
	if err := BindNestedOrFlat(c, "loan", &loan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan payload"})
		return
	}
	loan.ID = 0
	loan.UserID = userID

	if err := h.loanService.Create(c.Request.Context(), &loan); err != nil {
		var invalid *forecast.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": invalid.Field})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, loan)
}

// @Summary Close Loan
// @Description Mark a loan as paid off
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loans/{id}/close [post]
func (h *LoanHandler) Close(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	if err := h.loanService.Close(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		case errors.Is(err, services.ErrLoanClosed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "loan is already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "loan closed"})
}

// @Summary Amortization Schedule
// @Description Generate the full amortization schedule for a loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} forecast.AmortizationResult
// @Failure 404 {object} map[string]string
// @Router /loans/{id}/schedule [get]
func (h *LoanHandler) Schedule(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	result, err := h.loanService.Schedule(c.Request.Context(), id, userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type scenarioRequest struct {
	AnnualRate   *float64 `json:"annual_rate"`
	ExtraPayment *float64 `json:"extra_payment"`
	LumpSum      float64  `json:"lump_sum"`
}

// @Summary Compare Scenario
// @Description Compare a loan's schedule against a what-if variant
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param scenario body scenarioRequest true "Scenario overrides"
// @Success 200 {object} forecast.ScenarioComparison
// @Failure 404 {object} map[string]string
// @Router /loans/{id}/compare [post]
func (h *LoanHandler) Compare(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	var req scenarioRequest
	if err := BindNestedOrFlat(c, "scenario", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario payload"})
		return
	}

	variant := forecast.ScenarioVariant{
		AnnualRate:   req.AnnualRate,
		ExtraPayment: req.ExtraPayment,
		LumpSum:      req.LumpSum,
	}
	comparison, err := h.loanService.CompareScenario(c.Request.Context(), id, userID, variant)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// @Summary Payoff Strategy
// @Description Recommend a payoff ordering across the user's active loans
// @Tags Loans
// @Produce json
// @Success 200 {object} forecast.StrategyResult
// @Router /loans/strategy [get]
func (h *LoanHandler) Strategy(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.loanService.PayoffStrategy(c.Request.Context(), userID)
	if err != nil {
		var invalid *forecast.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": invalid.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Export Schedule
// @Description Download a loan's amortization schedule (csv, xlsx or pdf)
// @Tags Loans
// @Produce octet-stream
// @Param id path int true "Loan ID"
// @Param format query string false "Export format" default(csv)
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /loans/{id}/schedule/export [get]
func (h *LoanHandler) ExportSchedule(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, filename, err = h.exportService.ExportScheduleCSV(c.Request.Context(), id, userID)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportScheduleXLSX(c.Request.Context(), id, userID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportSchedulePDF(c.Request.Context(), id, userID)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
		return
	}
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func respondScheduleError(c *gin.Context, err error) {
	var invalid *forecast.InvalidInputError
	var nonAmortizing *forecast.NonAmortizingError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": invalid.Field})
	case errors.As(err, &nonAmortizing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
