package models

import (
	"time"

	"github.com/tigearis/finsight/internal/forecast"
)

// Loan represents a financed debt tracked by a user. Created by the loan
// setup flow; read-only to the forecasting core.
type Loan struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	Name             string     `gorm:"not null" json:"name"`
	Principal        float64    `gorm:"type:decimal(15,2);not null" json:"principal"`
	CurrentBalance   float64    `gorm:"type:decimal(15,2);not null" json:"current_balance"`
	InterestRate     float64    `gorm:"type:decimal(6,3);not null" json:"interest_rate"`
	TermMonths       int        `gorm:"not null" json:"term_months"`
	PaymentFrequency string     `gorm:"default:monthly;not null" json:"payment_frequency"`
	MinimumPayment   float64    `gorm:"type:decimal(12,2)" json:"minimum_payment"`
	ExtraPayment     float64    `gorm:"type:decimal(12,2);default:0" json:"extra_payment"`
	StartDate        time.Time  `gorm:"type:date;not null" json:"start_date"`
	Status           string     `gorm:"default:active;not null;index" json:"status"`
	ClosedAt         *time.Time `json:"closed_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Loan status constants
const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// IsActive returns true while the loan still accrues interest
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// ToTerms converts the stored loan into amortization input.
func (l *Loan) ToTerms() forecast.LoanTerms {
	return forecast.LoanTerms{
		Principal:    l.Principal,
		AnnualRate:   l.InterestRate,
		TermMonths:   l.TermMonths,
		Frequency:    forecast.Frequency(l.PaymentFrequency),
		ExtraPayment: l.ExtraPayment,
		StartDate:    l.StartDate,
	}
}

// ToOptimizerLoan converts the stored loan into the optimizer's view.
func (l *Loan) ToOptimizerLoan() forecast.Loan {
	return forecast.Loan{
		ID:             uintToString(l.ID),
		Name:           l.Name,
		CurrentBalance: l.CurrentBalance,
		InterestRate:   l.InterestRate,
		MinimumPayment: l.MinimumPayment,
		Status:         l.Status,
	}
}
