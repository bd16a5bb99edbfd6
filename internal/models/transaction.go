package models

import (
	"strconv"
	"time"

	"github.com/tigearis/finsight/internal/forecast"
)

// Transaction is one ledger movement. Negative amounts are outflows.
// Sourced from the external ledger import; read-only to this service.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	Amount    float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Merchant  string    `gorm:"index" json:"merchant"`
	Category  string    `gorm:"index" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// IsOutflow returns true for spending transactions
func (t *Transaction) IsOutflow() bool {
	return t.Amount < 0
}

// ToForecast converts the stored row into the core's view.
func (t *Transaction) ToForecast() forecast.Transaction {
	return forecast.Transaction{
		ID:       uintToString(t.ID),
		Date:     t.Date,
		Amount:   t.Amount,
		Merchant: t.Merchant,
		Category: t.Category,
	}
}

// TransactionsToForecast converts a slice of stored transactions.
func TransactionsToForecast(txs []Transaction) []forecast.Transaction {
	out := make([]forecast.Transaction, 0, len(txs))
	for i := range txs {
		out = append(out, txs[i].ToForecast())
	}
	return out
}

func uintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
