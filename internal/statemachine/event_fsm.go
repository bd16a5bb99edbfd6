package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/tigearis/finsight/internal/models"
)

// EventFSM wraps a payment event with its status state machine
type EventFSM struct {
	event *models.PaymentEvent
	fsm   *fsm.FSM
}

// NewEventFSM creates a new payment event state machine
func NewEventFSM(event *models.PaymentEvent) *EventFSM {
	efsm := &EventFSM{
		event: event,
	}

	efsm.fsm = fsm.NewFSM(
		event.Status,
		fsm.Events{
			// pending → scheduled (reviewer accepts a suggestion)
			{Name: "activate", Src: []string{models.EventStatusPending}, Dst: models.EventStatusScheduled},

			// scheduled/overdue → paid
			{Name: "mark_paid", Src: []string{models.EventStatusScheduled, models.EventStatusOverdue}, Dst: models.EventStatusPaid},

			// scheduled → overdue (anomaly scan)
			{Name: "mark_overdue", Src: []string{models.EventStatusScheduled}, Dst: models.EventStatusOverdue},

			// scheduled/pending/overdue → cancelled
			{Name: "cancel", Src: []string{models.EventStatusScheduled, models.EventStatusPending, models.EventStatusOverdue}, Dst: models.EventStatusCancelled},

			// paid → scheduled (next occurrence of a recurring event)
			{Name: "reschedule", Src: []string{models.EventStatusPaid}, Dst: models.EventStatusScheduled},
		},
		fsm.Callbacks{},
	)

	return efsm
}

// Activate transitions a pending suggestion to scheduled
func (e *EventFSM) Activate(ctx context.Context) error {
	if !e.event.MayActivate() {
		return fmt.Errorf("event cannot be activated in current state: %s", e.event.Status)
	}

	if err := e.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate event: %w", err)
	}

	e.event.Status = e.fsm.Current()
	return nil
}

// MarkPaid transitions the event to paid
func (e *EventFSM) MarkPaid(ctx context.Context) error {
	if !e.event.MayMarkPaid() {
		return fmt.Errorf("event cannot be marked paid in current state: %s", e.event.Status)
	}

	if err := e.fsm.Event(ctx, "mark_paid"); err != nil {
		return fmt.Errorf("failed to mark event paid: %w", err)
	}

	e.event.Status = e.fsm.Current()
	return nil
}

// MarkOverdue transitions the event to overdue
func (e *EventFSM) MarkOverdue(ctx context.Context) error {
	if !e.event.MayMarkOverdue() {
		return fmt.Errorf("event cannot be marked overdue in current state: %s", e.event.Status)
	}

	if err := e.fsm.Event(ctx, "mark_overdue"); err != nil {
		return fmt.Errorf("failed to mark event overdue: %w", err)
	}

	e.event.Status = e.fsm.Current()
	return nil
}

// Cancel transitions the event to cancelled
func (e *EventFSM) Cancel(ctx context.Context) error {
	if !e.event.MayCancel() {
		return fmt.Errorf("event cannot be cancelled in current state: %s", e.event.Status)
	}

	if err := e.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	e.event.Status = e.fsm.Current()
	return nil
}

// Reschedule transitions a paid recurring event back to scheduled
func (e *EventFSM) Reschedule(ctx context.Context) error {
	if err := e.fsm.Event(ctx, "reschedule"); err != nil {
		return fmt.Errorf("failed to reschedule event: %w", err)
	}

	e.event.Status = e.fsm.Current()
	return nil
}

// Current returns the current state
func (e *EventFSM) Current() string {
	return e.fsm.Current()
}

// Can checks if a transition is possible
func (e *EventFSM) Can(event string) bool {
	return e.fsm.Can(event)
}
