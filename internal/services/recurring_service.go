package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tigearis/finsight/internal/forecast"
	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
	"github.com/tigearis/finsight/internal/statemachine"
	"github.com/tigearis/finsight/pkg/logger"
	"gorm.io/gorm"
)

const (
	// scanLookback bounds how far back the detector reads transactions.
	scanLookback = 365 * 24 * time.Hour

	// persistThreshold is the minimum confidence worth surfacing to a
	// reviewer. Weaker patterns are recomputed on the next scan instead
	// of cluttering the review queue.
	persistThreshold = 0.5
)

// RecurringService runs the recurring-pattern detector over a user's
// transactions and manages the review lifecycle of its suggestions.
type RecurringService struct {
	detectionRepo   repository.DetectionRepository
	transactionRepo repository.TransactionRepository
	eventRepo       repository.PaymentEventRepository
	notificationSvc *NotificationService
}

func NewRecurringService(
	detectionRepo repository.DetectionRepository,
	transactionRepo repository.TransactionRepository,
	eventRepo repository.PaymentEventRepository,
	notificationSvc *NotificationService,
) *RecurringService {
	return &RecurringService{
		detectionRepo:   detectionRepo,
		transactionRepo: transactionRepo,
		eventRepo:       eventRepo,
		notificationSvc: notificationSvc,
	}
}

// Scan detects recurring outflow patterns in the user's last year of
// transactions and persists the confident ones for review. Returns all
// detections, persisted or not, so callers can show the full picture.
func (s *RecurringService) Scan(ctx context.Context, userID uint, now time.Time) ([]forecast.RecurringPaymentDetection, error) {
	transactions, err := s.transactionRepo.FindByUserSince(ctx, userID, now.Add(-scanLookback))
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	detections := forecast.DetectRecurring(models.TransactionsToForecast(transactions))

	for _, det := range detections {
		if det.Confidence < persistThreshold {
			continue
		}
		row, err := models.NewRecurringDetection(userID, det)
		if err != nil {
			return nil, fmt.Errorf("encoding detection for %s: %w", det.Merchant, err)
		}
		if err := s.detectionRepo.Upsert(ctx, row); err != nil {
			return nil, fmt.Errorf("persisting detection for %s: %w", det.Merchant, err)
		}
	}

	logger.Info("recurring scan completed", "user_id", userID, "detections", len(detections))
	return detections, nil
}

// ScanAll runs the recurring scan for every user with transactions. Used
// by the scheduled job; per-user failures are logged, not fatal.
func (s *RecurringService) ScanAll(ctx context.Context, now time.Time) error {
	userIDs, err := s.transactionRepo.DistinctUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing users with transactions: %w", err)
	}
	for _, userID := range userIDs {
		if _, err := s.Scan(ctx, userID, now); err != nil {
			logger.Error("recurring scan failed", "error", err, "user_id", userID)
		}
	}
	return nil
}

// FindPending lists suggestions awaiting review, strongest first.
func (s *RecurringService) FindPending(ctx context.Context, userID uint) ([]models.RecurringDetection, error) {
	return s.detectionRepo.FindPendingByUser(ctx, userID)
}

// Accept turns a pending suggestion into a scheduled payment event.
func (s *RecurringService) Accept(ctx context.Context, id string, userID uint) (*models.PaymentEvent, error) {
	detection, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !detection.MayReview() {
		return nil, ErrAlreadyReviewed
	}

	event := detection.ToDraftEvent()
	fsm := statemachine.NewEventFSM(event)
	if err := fsm.Activate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("creating payment event: %w", err)
	}
	if err := s.detectionRepo.SetReviewStatus(ctx, detection.ID, models.ReviewStatusAccepted); err != nil {
		return nil, err
	}

	if s.notificationSvc != nil {
		message := fmt.Sprintf("Recurring payment %q is now tracked (%s, %.2f).",
			detection.Merchant, detection.Frequency, detection.AverageAmount)
		if err := s.notificationSvc.NotifyUser(ctx, userID, "Recurring payment tracked", message,
			models.NotificationTypeRecurringPattern); err != nil {
			logger.Error("failed to notify on accepted detection", "error", err, "detection_id", detection.ID)
		}
	}

	return event, nil
}

// Reject dismisses a pending suggestion. The row stays so the next scan
// does not resurface the same merchant.
func (s *RecurringService) Reject(ctx context.Context, id string, userID uint) error {
	detection, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if !detection.MayReview() {
		return ErrAlreadyReviewed
	}
	return s.detectionRepo.SetReviewStatus(ctx, detection.ID, models.ReviewStatusRejected)
}

func (s *RecurringService) findOwned(ctx context.Context, id string, userID uint) (*models.RecurringDetection, error) {
	detection, err := s.detectionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if detection.UserID != userID {
		return nil, ErrNotFound
	}
	return detection, nil
}
