package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tigearis/finsight/internal/forecast"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
	"gorm.io/gorm"
)

// LoanService exposes loan CRUD plus the amortization and payoff
// planning operations built on the forecast package.
type LoanService struct {
	loanRepo repository.LoanRepository
}

func NewLoanService(loanRepo repository.LoanRepository) *LoanService {
	return &LoanService{loanRepo: loanRepo}
}

func (s *LoanService) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) FindByUser(ctx context.Context, userID uint) ([]models.Loan, error) {
	return s.loanRepo.FindByUser(ctx, userID)
}

func (s *LoanService) Create(ctx context.Context, loan *models.Loan) error {
	// Validate terms up front so a broken loan never reaches storage.
	if _, err := forecast.GenerateSchedule(loan.ToTerms()); err != nil {
		return fmt.Errorf("invalid loan terms: %w", err)
	}
	if loan.CurrentBalance == 0 {
		loan.CurrentBalance = loan.Principal
	}
	loan.Status = models.LoanStatusActive
	return s.loanRepo.Create(ctx, loan)
}

func (s *LoanService) Close(ctx context.Context, id, userID uint) error {
	loan, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if loan.UserID != userID {
		return ErrNotFound
	}
	if !loan.IsActive() {
		return ErrLoanClosed
	}
	return s.loanRepo.Close(ctx, id)
}

// Schedule generates the full amortization schedule for a stored loan.
func (s *LoanService) Schedule(ctx context.Context, id, userID uint) (*forecast.AmortizationResult, error) {
	loan, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrNotFound
	}
	result, err := forecast.GenerateSchedule(loan.ToTerms())
	if err != nil {
		return nil, fmt.Errorf("generating schedule for loan %d: %w", id, err)
	}
	return result, nil
}

// CompareScenario runs the stored loan against a what-if variant and
// returns both schedules with the interest and time deltas.
func (s *LoanService) CompareScenario(ctx context.Context, id, userID uint, variant forecast.ScenarioVariant) (*forecast.ScenarioComparison, error) {
	loan, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrNotFound
	}
	comparison, err := forecast.CompareScenario(loan.ToTerms(), variant)
	if err != nil {
		return nil, fmt.Errorf("comparing scenario for loan %d: %w", id, err)
	}
	return comparison, nil
}

// PayoffStrategy recommends a payoff ordering across the user's active
// loans.
func (s *LoanService) PayoffStrategy(ctx context.Context, userID uint) (*forecast.StrategyResult, error) {
	loans, err := s.loanRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	optimizerLoans := make([]forecast.Loan, 0, len(loans))
	for _, loan := range loans {
		optimizerLoans = append(optimizerLoans, loan.ToOptimizerLoan())
	}
	result, err := forecast.OptimalStrategy(optimizerLoans)
	if err != nil {
		return nil, fmt.Errorf("computing payoff strategy: %w", err)
	}
	return result, nil
}
