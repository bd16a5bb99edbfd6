package forecast

import "time"

// Transaction is the core's read-only view of a ledger entry. Negative
// amounts are outflows.
type Transaction struct {
	ID       string
	Date     time.Time
	Amount   float64
	Merchant string
	Category string
}

// PaymentRecord is one observed payment of an obligation.
type PaymentRecord struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Status string    `json:"status"`
}

// PaymentEvent status constants. The core never mutates status; transitions
// are driven by the service layer.
const (
	EventStatusScheduled = "scheduled"
	EventStatusPaid      = "paid"
	EventStatusOverdue   = "overdue"
	EventStatusCancelled = "cancelled"
	EventStatusPending   = "pending"
)

// PaymentEvent is a scheduled obligation as seen by the detectors and the
// projector.
type PaymentEvent struct {
	ID        string
	Title     string
	Amount    float64
	DueDate   time.Time
	EventType string
	Recurring bool
	Pattern   RecurringPattern
	Status    string
	History   []PaymentRecord
}
