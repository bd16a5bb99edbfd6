package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tigearis/finsight/internal/forecast"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
)

// CashFlowService assembles projector input from storage and runs the
// projection. Cancelled events are filtered by the projector itself.
type CashFlowService struct {
	eventRepo       repository.PaymentEventRepository
	transactionRepo repository.TransactionRepository
}

func NewCashFlowService(
	eventRepo repository.PaymentEventRepository,
	transactionRepo repository.TransactionRepository,
) *CashFlowService {
	return &CashFlowService{eventRepo: eventRepo, transactionRepo: transactionRepo}
}

// Project forecasts the user's cash flow over the window starting at from.
func (s *CashFlowService) Project(ctx context.Context, userID uint, window forecast.Window, from time.Time) (*forecast.CashFlowProjection, error) {
	events, err := s.eventRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading payment events: %w", err)
	}
	transactions, err := s.transactionRepo.FindByUserSince(ctx, userID, from.Add(-scanLookback))
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	projection, err := forecast.Project(
		models.EventsToForecast(events),
		models.TransactionsToForecast(transactions),
		window,
		from,
	)
	if err != nil {
		return nil, fmt.Errorf("projecting cash flow: %w", err)
	}
	return projection, nil
}
