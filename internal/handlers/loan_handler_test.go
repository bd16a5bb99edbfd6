package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
	"github.com/tigearis/finsight/internal/services"
)

// Mock LoanRepository (using embedding to avoid implementing all methods)
type mockLoanRepository struct {
	repository.LoanRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Loan, error)
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func scheduleRouter(repo repository.LoanRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	loanSvc := services.NewLoanService(repo)
	h := NewLoanHandler(loanSvc, services.NewExportService(loanSvc))

	router := gin.New()
	scoped := router.Group("/api/v1")
	scoped.Use(middleware.RequireUser())
	scoped.GET("/loans/:id/schedule", h.Schedule)
	scoped.GET("/loans/:id/schedule/export", h.ExportSchedule)
	return router
}

func ownedLoan(id, userID uint) *models.Loan {
	return &models.Loan{
		ID:               id,
		UserID:           userID,
		Name:             "Car Loan",
		Principal:        20000,
		CurrentBalance:   20000,
		InterestRate:     7.5,
		TermMonths:       60,
		PaymentFrequency: "monthly",
		StartDate:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:           models.LoanStatusActive,
	}
}

func TestLoanHandler_Schedule(t *testing.T) {
	router := scheduleRouter(&mockLoanRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Loan, error) {
			return ownedLoan(id, 7), nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/loans/1/schedule", nil)
	req.Header.Set("X-User-ID", "7")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(60), body["total_payments"])
	assert.NotEmpty(t, body["schedule"])
}

func TestLoanHandler_ScheduleWrongOwner(t *testing.T) {
	router := scheduleRouter(&mockLoanRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Loan, error) {
			return ownedLoan(id, 7), nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/loans/1/schedule", nil)
	req.Header.Set("X-User-ID", "99")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoanHandler_ScheduleMissingUser(t *testing.T) {
	router := scheduleRouter(&mockLoanRepository{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/loans/1/schedule", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoanHandler_ExportScheduleCSV(t *testing.T) {
	router := scheduleRouter(&mockLoanRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Loan, error) {
			return ownedLoan(id, 7), nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/loans/1/schedule/export?format=csv", nil)
	req.Header.Set("X-User-ID", "7")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "Amortization Schedule")
}

func TestLoanHandler_ExportScheduleUnsupportedFormat(t *testing.T) {
	router := scheduleRouter(&mockLoanRepository{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/loans/1/schedule/export?format=docx", nil)
	req.Header.Set("X-User-ID", "7")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
