package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tigearis/finsight/internal/models"
	"gorm.io/gorm"
)

// PaymentEventRepository defines the interface for scheduled obligation
// data access
type PaymentEventRepository interface {
	FindByID(ctx context.Context, id string) (*models.PaymentEvent, error)
	FindByUser(ctx context.Context, userID uint) ([]models.PaymentEvent, error)
	FindScheduledByUser(ctx context.Context, userID uint) ([]models.PaymentEvent, error)
	DistinctUserIDs(ctx context.Context) ([]uint, error)
	Create(ctx context.Context, event *models.PaymentEvent) error
	Update(ctx context.Context, event *models.PaymentEvent) error
	Delete(ctx context.Context, id string) error
}

type paymentEventRepository struct {
	db *gorm.DB
}

// NewPaymentEventRepository creates a new payment event repository
func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) FindByID(ctx context.Context, id string) (*models.PaymentEvent, error) {
	var event models.PaymentEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *paymentEventRepository) FindByUser(ctx context.Context, userID uint) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date ASC").
		Find(&events).Error
	return events, err
}

func (r *paymentEventRepository) FindScheduledByUser(ctx context.Context, userID uint) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.EventStatusScheduled).
		Order("due_date ASC").
		Find(&events).Error
	return events, err
}

func (r *paymentEventRepository) DistinctUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.PaymentEvent{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *paymentEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *paymentEventRepository) Update(ctx context.Context, event *models.PaymentEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *paymentEventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PaymentEvent{}).Error
}
