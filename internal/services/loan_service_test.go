package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
)

// Mock LoanRepository (using embedding to avoid implementing all methods)
type mockLoanRepository struct {
	repository.LoanRepository
	mockFindByID         func(ctx context.Context, id uint) (*models.Loan, error)
	mockFindActiveByUser func(ctx context.Context, userID uint) ([]models.Loan, error)
	mockCreate           func(ctx context.Context, loan *models.Loan) error
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockLoanRepository) FindActiveByUser(ctx context.Context, userID uint) ([]models.Loan, error) {
	if m.mockFindActiveByUser != nil {
		return m.mockFindActiveByUser(ctx, userID)
	}
	return nil, nil
}

func (m *mockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, loan)
	}
	return nil
}

func testLoan(id, userID uint) *models.Loan {
	return &models.Loan{
		ID:               id,
		UserID:           userID,
		Name:             "Car Loan",
		Principal:        20000,
		CurrentBalance:   15000,
		InterestRate:     7.5,
		TermMonths:       60,
		PaymentFrequency: "monthly",
		MinimumPayment:   400,
		StartDate:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:           models.LoanStatusActive,
	}
}

func TestLoanService_Schedule(t *testing.T) {
	repo := &mockLoanRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Loan, error) {
			return testLoan(id, 7), nil
		},
	}
	svc := NewLoanService(repo)

	result, err := svc.Schedule(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 60, result.TotalPayments)
	assert.Greater(t, result.PeriodicPayment, 0.0)
	assert.Greater(t, result.TotalInterest, 0.0)
}

func TestLoanService_ScheduleWrongOwner(t *testing.T) {
	repo := &mockLoanRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Loan, error) {
			return testLoan(id, 7), nil
		},
	}
	svc := NewLoanService(repo)

	_, err := svc.Schedule(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoanService_CreateRejectsInvalidTerms(t *testing.T) {
	svc := NewLoanService(&mockLoanRepository{})

	loan := testLoan(0, 7)
	loan.Principal = -100
	err := svc.Create(context.Background(), loan)
	assert.Error(t, err)
}

func TestLoanService_CreateDefaultsBalance(t *testing.T) {
	var created *models.Loan
	repo := &mockLoanRepository{
		mockCreate: func(ctx context.Context, loan *models.Loan) error {
			created = loan
			return nil
		},
	}
	svc := NewLoanService(repo)

	loan := testLoan(0, 7)
	loan.CurrentBalance = 0
	require.NoError(t, svc.Create(context.Background(), loan))
	require.NotNil(t, created)
	assert.Equal(t, loan.Principal, created.CurrentBalance)
}

func TestLoanService_PayoffStrategy(t *testing.T) {
	repo := &mockLoanRepository{
		mockFindActiveByUser: func(ctx context.Context, userID uint) ([]models.Loan, error) {
			low := testLoan(1, userID)
			low.Name = "Mortgage"
			low.InterestRate = 4.0
			high := testLoan(2, userID)
			high.Name = "Credit Card"
			high.CurrentBalance = 3000
			high.InterestRate = 22.0
			high.MinimumPayment = 90
			return []models.Loan{*low, *high}, nil
		},
	}
	svc := NewLoanService(repo)

	result, err := svc.PayoffStrategy(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result.Order, 2)
	assert.Equal(t, "Credit Card", result.Order[0].Name)
}

func TestLoanService_PayoffStrategyNoLoans(t *testing.T) {
	svc := NewLoanService(&mockLoanRepository{})

	result, err := svc.PayoffStrategy(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, result.Order)
}
