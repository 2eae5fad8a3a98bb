package commands

import (
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a staff member's request to move an
// order to a new lifecycle status.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	newStatus order.Status
	actor     order.Actor

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to transition an order.
// Validates the order identifier, the target status, and the acting staff
// member's identity.
func NewChangeOrderStatusCommand(orderID kernel.UUID, newStatus order.Status, actor order.Actor) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setNewStatus(newStatus),
		statusCommand.setActor(actor),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// NewStatus returns the requested target status.
func (c ChangeOrderStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

// Actor returns the staff member requesting the transition.
func (c ChangeOrderStatusCommand) Actor() order.Actor {
	return c.actor
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setNewStatus(newStatus order.Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	c.newStatus = newStatus
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
