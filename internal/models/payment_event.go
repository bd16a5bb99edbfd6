package models

import (
	"encoding/json"
	"time"

	"github.com/tigearis/finsight/internal/forecast"
)

// PaymentEvent is a scheduled financial obligation. Created by explicit
// user input or accepted from a recurring-pattern detection. Status
// transitions go through the state machine; the forecasting core itself
// never writes status.
type PaymentEvent struct {
	ID                 string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID             uint            `gorm:"not null;index" json:"user_id"`
	Title              string          `gorm:"not null" json:"title"`
	Amount             float64         `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate            time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	EventType          string          `gorm:"default:other" json:"event_type"`
	Recurring          bool            `gorm:"default:false" json:"recurring"`
	Frequency          string          `json:"frequency"`
	IntervalMultiplier int             `gorm:"default:1" json:"interval_multiplier"`
	Status             string          `gorm:"default:scheduled;not null;index" json:"status"`
	PaymentHistory     json.RawMessage `gorm:"type:jsonb" json:"payment_history"`
	PaidAt             *time.Time      `json:"paid_at"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName specifies the table name for PaymentEvent
func (PaymentEvent) TableName() string {
	return "payment_events"
}

// PaymentEvent status constants
const (
	EventStatusScheduled = "scheduled"
	EventStatusPaid      = "paid"
	EventStatusOverdue   = "overdue"
	EventStatusCancelled = "cancelled"
	EventStatusPending   = "pending"
)

// MayActivate returns true if a pending suggestion can become scheduled
func (e *PaymentEvent) MayActivate() bool {
	return e.Status == EventStatusPending
}

// MayMarkPaid returns true if the event can transition to paid
func (e *PaymentEvent) MayMarkPaid() bool {
	return e.Status == EventStatusScheduled || e.Status == EventStatusOverdue
}

// MayMarkOverdue returns true if the event can transition to overdue
func (e *PaymentEvent) MayMarkOverdue() bool {
	return e.Status == EventStatusScheduled
}

// MayCancel returns true if the event can be cancelled
func (e *PaymentEvent) MayCancel() bool {
	return e.Status == EventStatusScheduled || e.Status == EventStatusPending || e.Status == EventStatusOverdue
}

// IsOverdue returns true if the event is past due and still scheduled
func (e *PaymentEvent) IsOverdue(now time.Time) bool {
	return e.Status == EventStatusScheduled && e.DueDate.Before(now)
}

// OverdueDays returns full days past the due date
func (e *PaymentEvent) OverdueDays(now time.Time) int {
	if !e.DueDate.Before(now) {
		return 0
	}
	return int(now.Sub(e.DueDate).Hours() / 24)
}

// History decodes the recorded payment history. A missing or malformed
// column decodes to an empty history.
func (e *PaymentEvent) History() []forecast.PaymentRecord {
	if len(e.PaymentHistory) == 0 {
		return nil
	}
	var records []forecast.PaymentRecord
	if err := json.Unmarshal(e.PaymentHistory, &records); err != nil {
		return nil
	}
	return records
}

// SetHistory encodes the payment history for storage.
func (e *PaymentEvent) SetHistory(records []forecast.PaymentRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	e.PaymentHistory = data
	return nil
}

// AppendHistory records one observed payment.
func (e *PaymentEvent) AppendHistory(record forecast.PaymentRecord) error {
	return e.SetHistory(append(e.History(), record))
}

// ToForecast converts the stored event into the core's view.
func (e *PaymentEvent) ToForecast() forecast.PaymentEvent {
	return forecast.PaymentEvent{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		DueDate:   e.DueDate,
		EventType: e.EventType,
		Recurring: e.Recurring,
		Pattern: forecast.RecurringPattern{
			Frequency: forecast.Frequency(e.Frequency),
			Interval:  e.IntervalMultiplier,
		},
		Status:  e.Status,
		History: e.History(),
	}
}

// EventsToForecast converts a slice of stored events.
func EventsToForecast(events []PaymentEvent) []forecast.PaymentEvent {
	out := make([]forecast.PaymentEvent, 0, len(events))
	for i := range events {
		out = append(out, events[i].ToForecast())
	}
	return out
}
