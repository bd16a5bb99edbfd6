package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tigearis/finsight/internal/forecast"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
	"github.com/tigearis/finsight/internal/statemachine"
	"github.com/tigearis/finsight/pkg/logger"
)

// AnomalyService runs the anomaly detectors over a user's payment events
// and transactions. Missed payments flip the underlying event to overdue;
// every anomaly produces a notification.
type AnomalyService struct {
	eventRepo       repository.PaymentEventRepository
	transactionRepo repository.TransactionRepository
	notificationSvc *NotificationService
}

func NewAnomalyService(
	eventRepo repository.PaymentEventRepository,
	transactionRepo repository.TransactionRepository,
	notificationSvc *NotificationService,
) *AnomalyService {
	return &AnomalyService{
		eventRepo:       eventRepo,
		transactionRepo: transactionRepo,
		notificationSvc: notificationSvc,
	}
}

// Scan detects anomalies for the user as of now. The scan itself is pure;
// side effects (overdue transitions, notifications) happen here.
func (s *AnomalyService) Scan(ctx context.Context, userID uint, now time.Time) ([]forecast.PaymentAnomaly, error) {
	events, err := s.eventRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading payment events: %w", err)
	}
	transactions, err := s.transactionRepo.FindByUserSince(ctx, userID, now.Add(-scanLookback))
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	anomalies := forecast.DetectAnomalies(
		models.EventsToForecast(events),
		models.TransactionsToForecast(transactions),
		now,
	)

	byID := make(map[string]*models.PaymentEvent, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}

	for _, anomaly := range anomalies {
		if anomaly.Type == forecast.AnomalyMissedPayment {
			if event, ok := byID[anomaly.EventID]; ok && event.MayMarkOverdue() {
				fsm := statemachine.NewEventFSM(event)
				if err := fsm.MarkOverdue(ctx); err != nil {
					logger.Error("failed to mark event overdue", "error", err, "event_id", event.ID)
					continue
				}
				if err := s.eventRepo.Update(ctx, event); err != nil {
					return nil, fmt.Errorf("updating overdue event %s: %w", event.ID, err)
				}
			}
		}
		s.notify(ctx, userID, anomaly)
	}

	logger.Info("anomaly scan completed", "user_id", userID, "anomalies", len(anomalies))
	return anomalies, nil
}

// ScanAll runs the anomaly scan for every user with payment events. Used
// by the scheduled job; per-user failures are logged, not fatal.
func (s *AnomalyService) ScanAll(ctx context.Context, now time.Time) error {
	userIDs, err := s.eventRepo.DistinctUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing users with events: %w", err)
	}
	for _, userID := range userIDs {
		if _, err := s.Scan(ctx, userID, now); err != nil {
			logger.Error("anomaly scan failed", "error", err, "user_id", userID)
		}
	}
	return nil
}

func (s *AnomalyService) notify(ctx context.Context, userID uint, anomaly forecast.PaymentAnomaly) {
	if s.notificationSvc == nil {
		return
	}
	var title, notifType string
	switch anomaly.Type {
	case forecast.AnomalyMissedPayment:
		title = "Missed payment"
		notifType = models.NotificationTypeMissedPayment
	case forecast.AnomalyAmountVariance:
		title = "Unusual payment amount"
		notifType = models.NotificationTypeAmountVariance
	default:
		return
	}
	if err := s.notificationSvc.NotifyUser(ctx, userID, title, anomaly.Description, notifType); err != nil {
		logger.Error("failed to create anomaly notification", "error", err, "event_id", anomaly.EventID)
	}
}
