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
	"gorm.io/gorm"
)

// EventService manages scheduled payment events. Status transitions run
// through the state machine; a paid recurring event rolls forward to its
// next occurrence.
type EventService struct {
	eventRepo repository.PaymentEventRepository
}

func NewEventService(eventRepo repository.PaymentEventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) FindByID(ctx context.Context, id string) (*models.PaymentEvent, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) FindByUser(ctx context.Context, userID uint) ([]models.PaymentEvent, error) {
	return s.eventRepo.FindByUser(ctx, userID)
}

func (s *EventService) Create(ctx context.Context, event *models.PaymentEvent) error {
	if event.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if event.Status == "" {
		event.Status = models.EventStatusScheduled
	}
	if event.Recurring {
		pattern := forecast.RecurringPattern{
			Frequency: forecast.Frequency(event.Frequency),
			Interval:  event.IntervalMultiplier,
		}
		if _, ok := pattern.NextDate(event.DueDate); !ok {
			return fmt.Errorf("unknown frequency %q", event.Frequency)
		}
	}
	return s.eventRepo.Create(ctx, event)
}

// MarkPaid records a payment against the event. The paid amount lands in
// the event's history so the variance detector sees it. Recurring events
// advance to their next due date and return to scheduled.
func (s *EventService) MarkPaid(ctx context.Context, id string, userID uint, amount float64, paidAt time.Time) (*models.PaymentEvent, error) {
	event, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewEventFSM(event)
	if err := fsm.MarkPaid(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if amount == 0 {
		amount = event.Amount
	}
	if err := event.AppendHistory(forecast.PaymentRecord{
		Date:   paidAt,
		Amount: amount,
		Status: models.EventStatusPaid,
	}); err != nil {
		return nil, fmt.Errorf("recording payment history: %w", err)
	}
	event.PaidAt = &paidAt

	if event.Recurring {
		pattern := forecast.RecurringPattern{
			Frequency: forecast.Frequency(event.Frequency),
			Interval:  event.IntervalMultiplier,
		}
		if next, ok := pattern.NextDate(event.DueDate); ok {
			if err := fsm.Reschedule(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
			event.DueDate = next
			event.PaidAt = nil
		}
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Cancel removes the event from future projections.
func (s *EventService) Cancel(ctx context.Context, id string, userID uint) (*models.PaymentEvent, error) {
	event, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewEventFSM(event)
	if err := fsm.Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) findOwned(ctx context.Context, id string, userID uint) (*models.PaymentEvent, error) {
	event, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrNotFound
	}
	return event, nil
}
