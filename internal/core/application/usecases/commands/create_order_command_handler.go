package commands

import (
	"context"
	"time"

	"foodorders/internal/core/domain/events"
	"foodorders/internal/core/ports"
)

// CreateOrderCommandHandler persists a prepared order and announces it on
// the event bus. Persistence and publication are deliberately ordered: the
// order is committed first, then ORDER_CREATED is emitted, so consumers can
// always load the order the event refers to.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order creation
// operations. Requires an OrderUoWFactory for transactional persistence and
// an EventPublisher for the ORDER_CREATED announcement.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle persists the prepared order and publishes ORDER_CREATED.
// A publish failure after commit is returned to the caller; the order
// itself stays persisted.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err := orderRepo.Add(ctx, cmd.Order()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	return h.publisher.Publish(ctx, events.NewOrderCreated(cmd.Order(), time.Now().UTC()))
}
