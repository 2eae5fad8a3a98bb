package commands

import (
	"errors"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to persist and announce a fully
// prepared order aggregate. The aggregate comes from
// PrepareOrderCommandHandler, which already priced the lines and
// snapshotted the customer's details.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	order *order.Order

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to persist a prepared order.
// The aggregate must itself be validly constructed.
func NewCreateOrderCommand(preparedOrder *order.Order) (CreateOrderCommand, error) {
	if err := preparedOrder.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		order: preparedOrder,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Order returns the prepared order aggregate to persist.
func (c CreateOrderCommand) Order() *order.Order {
	return c.order
}
