package commands

import (
	"errors"

	"foodorders/internal/core/domain/events"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrNotifyOrderEventCommandIsNotConstructed = errors.New(
	"NotifyOrderEventCommand must be created via NewNotifyOrderEventCommand constructor",
)

// NotifyOrderEventCommand represents a lifecycle event to be fanned out to
// every interested push connection.
type NotifyOrderEventCommand struct { //nolint:recvcheck //using for validation
	event events.LifecycleEvent

	guard guard.ConstructorGuard
}

// NewNotifyOrderEventCommand creates a command to fan out a lifecycle
// event.
func NewNotifyOrderEventCommand(event events.LifecycleEvent) (NotifyOrderEventCommand, error) {
	notifyCommand := NotifyOrderEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireField("eventType", event.EventType),
		requireField("orderId", event.OrderID),
		requireField("tenantId", event.TenantID),
		requireField("userId", event.UserID),
	); err != nil {
		return NotifyOrderEventCommand{}, err
	}

	notifyCommand.event = event
	return notifyCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c NotifyOrderEventCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOrderEventCommandIsNotConstructed)
}

// Event returns the lifecycle event to deliver.
func (c NotifyOrderEventCommand) Event() events.LifecycleEvent {
	return c.event
}

func requireField(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
