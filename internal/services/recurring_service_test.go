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

// Mock DetectionRepository (using embedding to avoid implementing all methods)
type mockDetectionRepository struct {
	repository.DetectionRepository
	mockFindByID        func(ctx context.Context, id string) (*models.RecurringDetection, error)
	mockUpsert          func(ctx context.Context, detection *models.RecurringDetection) error
	mockSetReviewStatus func(ctx context.Context, id, status string) error
}

func (m *mockDetectionRepository) FindByID(ctx context.Context, id string) (*models.RecurringDetection, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockDetectionRepository) Upsert(ctx context.Context, detection *models.RecurringDetection) error {
	if m.mockUpsert != nil {
		return m.mockUpsert(ctx, detection)
	}
	return nil
}

func (m *mockDetectionRepository) SetReviewStatus(ctx context.Context, id, status string) error {
	if m.mockSetReviewStatus != nil {
		return m.mockSetReviewStatus(ctx, id, status)
	}
	return nil
}

// Mock TransactionRepository
type mockTransactionRepository struct {
	repository.TransactionRepository
	mockFindByUserSince func(ctx context.Context, userID uint, since time.Time) ([]models.Transaction, error)
}

func (m *mockTransactionRepository) FindByUserSince(ctx context.Context, userID uint, since time.Time) ([]models.Transaction, error) {
	if m.mockFindByUserSince != nil {
		return m.mockFindByUserSince(ctx, userID, since)
	}
	return nil, nil
}

func subscriptionHistory(userID uint, merchant string, months int, amount float64) []models.Transaction {
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	txs := make([]models.Transaction, 0, months)
	for i := 0; i < months; i++ {
		txs = append(txs, models.Transaction{
			ID:       uint(i + 1),
			UserID:   userID,
			Date:     start.AddDate(0, 0, i*30),
			Amount:   -amount,
			Merchant: merchant,
		})
	}
	return txs
}

func TestRecurringService_ScanPersistsConfidentDetections(t *testing.T) {
	var upserted []*models.RecurringDetection
	detectionRepo := &mockDetectionRepository{
		mockUpsert: func(ctx context.Context, detection *models.RecurringDetection) error {
			upserted = append(upserted, detection)
			return nil
		},
	}
	txRepo := &mockTransactionRepository{
		mockFindByUserSince: func(ctx context.Context, userID uint, since time.Time) ([]models.Transaction, error) {
			return subscriptionHistory(userID, "Netflix", 6, 15.99), nil
		},
	}
	svc := NewRecurringService(detectionRepo, txRepo, &mockEventRepository{}, nil)

	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	detections, err := svc.Scan(context.Background(), 7, now)
	require.NoError(t, err)
	require.Len(t, detections, 1)

	require.Len(t, upserted, 1)
	assert.Equal(t, uint(7), upserted[0].UserID)
	assert.Equal(t, "netflix", upserted[0].Merchant)
	assert.Equal(t, "monthly", upserted[0].Frequency)
	assert.GreaterOrEqual(t, upserted[0].Confidence, 0.5)
	assert.Equal(t, models.ReviewStatusPending, upserted[0].ReviewStatus)
}

func TestRecurringService_ScanSkipsWeakDetections(t *testing.T) {
	var upserts int
	detectionRepo := &mockDetectionRepository{
		mockUpsert: func(ctx context.Context, detection *models.RecurringDetection) error {
			upserts++
			return nil
		},
	}
	// Irregular gaps plus wildly varying amounts drag confidence below
	// the persistence bar while still matching a dominant interval twice.
	txRepo := &mockTransactionRepository{
		mockFindByUserSince: func(ctx context.Context, userID uint, since time.Time) ([]models.Transaction, error) {
			start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
			offsets := []int{0, 30, 60, 105, 165, 266}
			amounts := []float64{5, 400, 12, 350, 8, 290}
			txs := make([]models.Transaction, 0, len(offsets))
			for i, off := range offsets {
				txs = append(txs, models.Transaction{
					ID:       uint(i + 1),
					UserID:   userID,
					Date:     start.AddDate(0, 0, off),
					Amount:   -amounts[i],
					Merchant: "Corner Store",
				})
			}
			return txs, nil
		},
	}
	svc := NewRecurringService(detectionRepo, txRepo, &mockEventRepository{}, nil)

	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	detections, err := svc.Scan(context.Background(), 7, now)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Less(t, detections[0].Confidence, 0.5)
	assert.Equal(t, 0, upserts)
}

func pendingDetection(id string, userID uint) *models.RecurringDetection {
	return &models.RecurringDetection{
		ID:                 id,
		UserID:             userID,
		Merchant:           "netflix",
		Frequency:          "monthly",
		IntervalDays:       30,
		IntervalMultiplier: 1,
		Confidence:         0.93,
		AverageAmount:      15.99,
		NextDueDate:        time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
		ReviewStatus:       models.ReviewStatusPending,
	}
}

func TestRecurringService_AcceptCreatesScheduledEvent(t *testing.T) {
	var created *models.PaymentEvent
	var reviewedStatus string
	detectionRepo := &mockDetectionRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.RecurringDetection, error) {
			return pendingDetection(id, 7), nil
		},
		mockSetReviewStatus: func(ctx context.Context, id, status string) error {
			reviewedStatus = status
			return nil
		},
	}
	eventRepo := &mockEventRepository{
		mockCreate: func(ctx context.Context, event *models.PaymentEvent) error {
			created = event
			return nil
		},
	}
	svc := NewRecurringService(detectionRepo, &mockTransactionRepository{}, eventRepo, nil)

	event, err := svc.Accept(context.Background(), "det-1", 7)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, models.EventStatusScheduled, event.Status)
	assert.Equal(t, "netflix", event.Title)
	assert.Equal(t, 15.99, event.Amount)
	assert.True(t, event.Recurring)
	assert.Equal(t, models.ReviewStatusAccepted, reviewedStatus)
}

func TestRecurringService_AcceptAlreadyReviewed(t *testing.T) {
	detectionRepo := &mockDetectionRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.RecurringDetection, error) {
			det := pendingDetection(id, 7)
			det.ReviewStatus = models.ReviewStatusRejected
			return det, nil
		},
	}
	svc := NewRecurringService(detectionRepo, &mockTransactionRepository{}, &mockEventRepository{}, nil)

	_, err := svc.Accept(context.Background(), "det-1", 7)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestRecurringService_RejectMarksRejected(t *testing.T) {
	var reviewedStatus string
	detectionRepo := &mockDetectionRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.RecurringDetection, error) {
			return pendingDetection(id, 7), nil
		},
		mockSetReviewStatus: func(ctx context.Context, id, status string) error {
			reviewedStatus = status
			return nil
		},
	}
	svc := NewRecurringService(detectionRepo, &mockTransactionRepository{}, &mockEventRepository{}, nil)

	require.NoError(t, svc.Reject(context.Background(), "det-1", 7))
	assert.Equal(t, models.ReviewStatusRejected, reviewedStatus)
}

func TestRecurringService_AcceptWrongOwner(t *testing.T) {
	detectionRepo := &mockDetectionRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.RecurringDetection, error) {
			return pendingDetection(id, 7), nil
		},
	}
	svc := NewRecurringService(detectionRepo, &mockTransactionRepository{}, &mockEventRepository{}, nil)

	_, err := svc.Accept(context.Background(), "det-1", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
