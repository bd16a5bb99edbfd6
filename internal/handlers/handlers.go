package handlers

import (
	"github.com/tigearis/finsight/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Loan         *LoanHandler
	Transaction  *TransactionHandler
	Event        *EventHandler
	Recurring    *RecurringHandler
	Anomaly      *AnomalyHandler
	CashFlow     *CashFlowHandler
	Notification *NotificationHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Loan:         NewLoanHandler(svcs.Loan, svcs.Export),
		Transaction:  NewTransactionHandler(svcs.Transaction),
		Event:        NewEventHandler(svcs.Event),
		Recurring:    NewRecurringHandler(svcs.Recurring),
		Anomaly:      NewAnomalyHandler(svcs.Anomaly),
		CashFlow:     NewCashFlowHandler(svcs.CashFlow, svcs.Export),
		Notification: NewNotificationHandler(svcs.Notification),
		Job:          NewJobHandler(svcs.Job),
	}
}
