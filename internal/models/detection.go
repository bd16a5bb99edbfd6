package models

import (
	"encoding/json"
	"time"

	"github.com/tigearis/finsight/internal/forecast"
)

// RecurringDetection is a persisted recurring-pattern suggestion awaiting
// human review. Accepting one creates a PaymentEvent from the embedded
// draft.
type RecurringDetection struct {
	ID                 string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID             uint            `gorm:"not null;uniqueIndex:idx_detections_user_merchant" json:"user_id"`
	Merchant           string          `gorm:"not null;uniqueIndex:idx_detections_user_merchant" json:"merchant"`
	Frequency          string          `gorm:"not null" json:"frequency"`
	IntervalDays       int             `json:"interval_days"`
	IntervalMultiplier int             `gorm:"default:1" json:"interval_multiplier"`
	Confidence         float64         `gorm:"type:decimal(4,3);not null" json:"confidence"`
	AverageAmount      float64         `gorm:"type:decimal(12,2)" json:"average_amount"`
	NextDueDate        time.Time       `gorm:"type:date" json:"next_due_date"`
	SupportingIDs      json.RawMessage `gorm:"type:jsonb" json:"supporting_ids"`
	ObservedHistory    json.RawMessage `gorm:"type:jsonb" json:"observed_history"`
	ReviewStatus       string          `gorm:"default:pending;not null;index" json:"review_status"`
	ReviewedAt         *time.Time      `json:"reviewed_at"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName specifies the table name for RecurringDetection
func (RecurringDetection) TableName() string {
	return "recurring_detections"
}

// Review status constants
const (
	ReviewStatusPending  = "pending"
	ReviewStatusAccepted = "accepted"
	ReviewStatusRejected = "rejected"
)

// MayReview returns true while the detection awaits a decision
func (d *RecurringDetection) MayReview() bool {
	return d.ReviewStatus == ReviewStatusPending
}

// NewRecurringDetection builds a persisted row from a core detection.
func NewRecurringDetection(userID uint, det forecast.RecurringPaymentDetection) (*RecurringDetection, error) {
	ids, err := json.Marshal(det.SupportingIDs)
	if err != nil {
		return nil, err
	}
	history, err := json.Marshal(det.Suggested.History)
	if err != nil {
		return nil, err
	}

	return &RecurringDetection{
		UserID:             userID,
		Merchant:           det.Merchant,
		Frequency:          string(det.Pattern.Frequency),
		IntervalDays:       det.IntervalDays,
		IntervalMultiplier: det.Pattern.Interval,
		Confidence:         det.Confidence,
		AverageAmount:      det.AverageAmount,
		NextDueDate:        det.Suggested.DueDate,
		SupportingIDs:      ids,
		ObservedHistory:    history,
		ReviewStatus:       ReviewStatusPending,
	}, nil
}

// ToDraftEvent builds the PaymentEvent a reviewer accepts into existence.
// The suggestion starts pending; activation happens through the state
// machine.
func (d *RecurringDetection) ToDraftEvent() *PaymentEvent {
	return &PaymentEvent{
		UserID:             d.UserID,
		Title:              d.Merchant,
		Amount:             d.AverageAmount,
		DueDate:            d.NextDueDate,
		EventType:          "recurring",
		Recurring:          true,
		Frequency:          d.Frequency,
		IntervalMultiplier: d.IntervalMultiplier,
		Status:             EventStatusPending,
		PaymentHistory:     d.ObservedHistory,
	}
}
