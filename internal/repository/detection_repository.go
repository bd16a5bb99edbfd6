package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tigearis/finsight/internal/models"
	"gorm.io/gorm"
)

// DetectionRepository defines the interface for recurring-pattern
// suggestion data access
type DetectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.RecurringDetection, error)
	FindPendingByUser(ctx context.Context, userID uint) ([]models.RecurringDetection, error)
	FindByUserAndMerchant(ctx context.Context, userID uint, merchant string) (*models.RecurringDetection, error)
	Create(ctx context.Context, detection *models.RecurringDetection) error
	Upsert(ctx context.Context, detection *models.RecurringDetection) error
	Update(ctx context.Context, detection *models.RecurringDetection) error
	SetReviewStatus(ctx context.Context, id, status string) error
}

type detectionRepository struct {
	db *gorm.DB
}

// NewDetectionRepository creates a new detection repository
func NewDetectionRepository(db *gorm.DB) DetectionRepository {
	return &detectionRepository{db: db}
}

func (r *detectionRepository) FindByID(ctx context.Context, id string) (*models.RecurringDetection, error) {
	var detection models.RecurringDetection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&detection).Error; err != nil {
		return nil, err
	}
	return &detection, nil
}

func (r *detectionRepository) FindPendingByUser(ctx context.Context, userID uint) ([]models.RecurringDetection, error) {
	var detections []models.RecurringDetection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND review_status = ?", userID, models.ReviewStatusPending).
		Order("confidence DESC").
		Find(&detections).Error
	return detections, err
}

func (r *detectionRepository) FindByUserAndMerchant(ctx context.Context, userID uint, merchant string) (*models.RecurringDetection, error) {
	var detection models.RecurringDetection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND merchant = ?", userID, merchant).
		Order("created_at DESC").
		First(&detection).Error
	if err != nil {
		return nil, err
	}
	return &detection, nil
}

func (r *detectionRepository) Create(ctx context.Context, detection *models.RecurringDetection) error {
	if detection.ID == "" {
		detection.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(detection).Error
}

// Upsert inserts the detection, or refreshes the existing row for the
// same user and merchant when one is still pending review. Accepted and
// rejected rows are left untouched so a reviewer's decision sticks.
func (r *detectionRepository) Upsert(ctx context.Context, detection *models.RecurringDetection) error {
	err := r.Create(ctx, detection)
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err, "idx_detections_user_merchant") {
		return err
	}

	var existing models.RecurringDetection
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND merchant = ?", detection.UserID, detection.Merchant).
		First(&existing).Error; err != nil {
		return err
	}
	if existing.ReviewStatus != models.ReviewStatusPending {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&models.RecurringDetection{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"frequency":           detection.Frequency,
			"interval_days":       detection.IntervalDays,
			"interval_multiplier": detection.IntervalMultiplier,
			"confidence":          detection.Confidence,
			"average_amount":      detection.AverageAmount,
			"next_due_date":       detection.NextDueDate,
			"supporting_ids":      detection.SupportingIDs,
			"observed_history":    detection.ObservedHistory,
		}).Error
}

func (r *detectionRepository) Update(ctx context.Context, detection *models.RecurringDetection) error {
	return r.db.WithContext(ctx).Save(detection).Error
}

func (r *detectionRepository) SetReviewStatus(ctx context.Context, id, status string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.RecurringDetection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"review_status": status, "reviewed_at": now}).Error
}

// isUniqueViolation detects a duplicate key constraint failure
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}
