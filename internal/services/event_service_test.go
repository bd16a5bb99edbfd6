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

// Mock PaymentEventRepository (using embedding to avoid implementing all methods)
type mockEventRepository struct {
	repository.PaymentEventRepository
	mockFindByID   func(ctx context.Context, id string) (*models.PaymentEvent, error)
	mockFindByUser func(ctx context.Context, userID uint) ([]models.PaymentEvent, error)
	mockCreate     func(ctx context.Context, event *models.PaymentEvent) error
	mockUpdate     func(ctx context.Context, event *models.PaymentEvent) error
}

func (m *mockEventRepository) FindByID(ctx context.Context, id string) (*models.PaymentEvent, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockEventRepository) FindByUser(ctx context.Context, userID uint) ([]models.PaymentEvent, error) {
	if m.mockFindByUser != nil {
		return m.mockFindByUser(ctx, userID)
	}
	return nil, nil
}

func (m *mockEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, event)
	}
	return nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *models.PaymentEvent) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, event)
	}
	return nil
}

func testEvent(id string, userID uint) *models.PaymentEvent {
	return &models.PaymentEvent{
		ID:                 id,
		UserID:             userID,
		Title:              "Rent",
		Amount:             1200,
		DueDate:            time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EventType:          "recurring",
		Recurring:          true,
		Frequency:          "monthly",
		IntervalMultiplier: 1,
		Status:             models.EventStatusScheduled,
	}
}

func TestEventService_MarkPaidRecurringRollsForward(t *testing.T) {
	var updated *models.PaymentEvent
	repo := &mockEventRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.PaymentEvent, error) {
			return testEvent(id, 7), nil
		},
		mockUpdate: func(ctx context.Context, event *models.PaymentEvent) error {
			updated = event
			return nil
		},
	}
	svc := NewEventService(repo)

	paidAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	event, err := svc.MarkPaid(context.Background(), "ev-1", 7, 1200, paidAt)
	require.NoError(t, err)
	require.NotNil(t, updated)

	// Recurring events return to scheduled at the next due date.
	assert.Equal(t, models.EventStatusScheduled, event.Status)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), event.DueDate)
	assert.Nil(t, event.PaidAt)

	history := event.History()
	require.Len(t, history, 1)
	assert.Equal(t, 1200.0, history[0].Amount)
	assert.Equal(t, paidAt, history[0].Date.UTC())
}

func TestEventService_MarkPaidOneOffStaysPaid(t *testing.T) {
	repo := &mockEventRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.PaymentEvent, error) {
			ev := testEvent(id, 7)
			ev.Recurring = false
			return ev, nil
		},
	}
	svc := NewEventService(repo)

	paidAt := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	event, err := svc.MarkPaid(context.Background(), "ev-1", 7, 0, paidAt)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusPaid, event.Status)
	require.NotNil(t, event.PaidAt)

	// Zero amount defaults to the scheduled amount.
	history := event.History()
	require.Len(t, history, 1)
	assert.Equal(t, 1200.0, history[0].Amount)
}

func TestEventService_MarkPaidCancelledRejected(t *testing.T) {
	repo := &mockEventRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.PaymentEvent, error) {
			ev := testEvent(id, 7)
			ev.Status = models.EventStatusCancelled
			return ev, nil
		},
	}
	svc := NewEventService(repo)

	_, err := svc.MarkPaid(context.Background(), "ev-1", 7, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEventService_CancelScheduled(t *testing.T) {
	repo := &mockEventRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.PaymentEvent, error) {
			return testEvent(id, 7), nil
		},
	}
	svc := NewEventService(repo)

	event, err := svc.Cancel(context.Background(), "ev-1", 7)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, event.Status)
}

func TestEventService_CancelWrongOwner(t *testing.T) {
	repo := &mockEventRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.PaymentEvent, error) {
			return testEvent(id, 7), nil
		},
	}
	svc := NewEventService(repo)

	_, err := svc.Cancel(context.Background(), "ev-1", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventService_CreateUnknownFrequency(t *testing.T) {
	svc := NewEventService(&mockEventRepository{})

	event := testEvent("", 7)
	event.Frequency = "lunar"
	err := svc.Create(context.Background(), event)
	assert.Error(t, err)
}
