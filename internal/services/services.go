package services

import (
	"github.com/tigearis/finsight/internal/jobs"
	"github.com/tigearis/finsight/internal/repository"
)

// Services holds all service instances
type Services struct {
	Loan         *LoanService
	Transaction  *TransactionService
	Event        *EventService
	Recurring    *RecurringService
	Anomaly      *AnomalyService
	CashFlow     *CashFlowService
	Notification *NotificationService
	Export       *ExportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker) *Services {
	notificationSvc := NewNotificationService(repos.Notification)
	loanSvc := NewLoanService(repos.Loan)

	return &Services{
		Loan:         loanSvc,
		Transaction:  NewTransactionService(repos.Transaction),
		Event:        NewEventService(repos.PaymentEvent),
		Recurring:    NewRecurringService(repos.Detection, repos.Transaction, repos.PaymentEvent, notificationSvc),
		Anomaly:      NewAnomalyService(repos.PaymentEvent, repos.Transaction, notificationSvc),
		CashFlow:     NewCashFlowService(repos.PaymentEvent, repos.Transaction),
		Notification: notificationSvc,
		Export:       NewExportService(loanSvc),
		Job:          NewJobService(worker),
	}
}
