package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Loan         LoanRepository
	Transaction  TransactionRepository
	PaymentEvent PaymentEventRepository
	Detection    DetectionRepository
	Notification NotificationRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Loan:         NewLoanRepository(db),
		Transaction:  NewTransactionRepository(db),
		PaymentEvent: NewPaymentEventRepository(db),
		Detection:    NewDetectionRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// ListQuery carries pagination for list endpoints
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 50,
	}
}

func (q *ListQuery) offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.limit()
}

func (q *ListQuery) limit() int {
	if q.PerPage < 1 {
		return 50
	}
	return q.PerPage
}

// orderClause builds an ORDER BY from the query, accepting only columns in
// the allowlist. Anything else falls back to the given default ordering.
func (q *ListQuery) orderClause(sortable map[string]bool, fallback string) string {
	if q.SortBy == "" || !sortable[q.SortBy] {
		return fallback
	}
	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}
	return q.SortBy + " " + dir
}
