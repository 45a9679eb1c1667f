package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gastaro/gastaro/internal/core/events"
)

// EventHandler turns domain events into inbox notifications. It is the
// only consumer on the bus; delivery failures are logged by the bus and
// never reach the publishing operation.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterHandlers subscribes to every event type that produces a
// notification.
func (h *EventHandler) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeSharedExpenseProposed, h.handleSharedExpenseProposed)
	bus.Subscribe(events.EventTypeSharedExpenseAccepted, h.handleSharedExpenseResponded)
	bus.Subscribe(events.EventTypeSharedExpenseRejected, h.handleSharedExpenseResponded)
	bus.Subscribe(events.EventTypeExpenseCreated, h.handleExpenseCreated)
	bus.Subscribe(events.EventTypeIncomeCreated, h.handleIncomeCreated)
	bus.Subscribe(events.EventTypePayCompleted, h.handlePayCompleted)
}

func (h *EventHandler) handleSharedExpenseProposed(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SharedExpenseProposedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	message := fmt.Sprintf("%s added you to a shared expense of $%s. Your share is $%s.",
		e.OwnerName, e.TotalAmount.StringFixed(2), e.CounterpartyAmount.StringFixed(2))

	_, err := h.service.Notify(e.CounterpartyID, TypeSharedExpenseProposed,
		"New shared expense", message, event.Payload().(map[string]interface{}))
	return err
}

func (h *EventHandler) handleSharedExpenseResponded(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SharedExpenseRespondedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	notifType := TypeSharedExpenseRejected
	title := "Shared expense rejected"
	message := fmt.Sprintf("%s rejected your shared expense.", e.ResponderName)
	if e.Status == "accepted" {
		notifType = TypeSharedExpenseAccepted
		title = "Shared expense accepted"
		message = fmt.Sprintf("%s accepted your shared expense. Their share of $%s has been recorded.",
			e.ResponderName, e.CounterpartyAmount.StringFixed(2))
	}

	_, err := h.service.Notify(e.OwnerID, notifType, title, message,
		event.Payload().(map[string]interface{}))
	return err
}

func (h *EventHandler) handleExpenseCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ExpenseCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	message := fmt.Sprintf("Expense of $%s recorded.", e.Amount.StringFixed(2))
	if e.Category != "" {
		message = fmt.Sprintf("Expense of $%s recorded in %s.", e.Amount.StringFixed(2), e.Category)
	}

	_, err := h.service.Notify(e.UserID, TypeExpenseCreated,
		"Expense recorded", message, event.Payload().(map[string]interface{}))
	return err
}

func (h *EventHandler) handleIncomeCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.IncomeCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	message := fmt.Sprintf("Income of $%s recorded for %04d-%02d.",
		e.Total.StringFixed(2), e.Year, e.Month)

	_, err := h.service.Notify(e.UserID, TypeIncomeCreated,
		"Income recorded", message, event.Payload().(map[string]interface{}))
	return err
}

func (h *EventHandler) handlePayCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PayCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	message := fmt.Sprintf("You sent $%s to %s via Gastaro Pay.",
		e.Amount.StringFixed(2), e.Recipient)

	_, err := h.service.Notify(e.UserID, TypePayCompleted,
		"Payment sent", message, event.Payload().(map[string]interface{}))
	return err
}
