package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"foodorders/internal/core/domain/events"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

// casRetryAttempts bounds how often a transition is replayed when another
// writer updated the order between our read and our write.
const casRetryAttempts = 3

// ChangeOrderStatusCommandHandler moves an order through its lifecycle on
// behalf of a staff member. The transition itself is decided by the order
// aggregate and the configured TransitionPolicy; the handler contributes
// authorization, optimistic concurrency, and the ORDER_STATUS_CHANGED
// announcement.
//
// Concurrent transitions on the same order are resolved by retrying: when
// the version check fails on write, the order is reloaded and the
// transition replayed against the fresh state, up to casRetryAttempts
// times.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     order.TransitionPolicy
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for status
// transition operations.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy order.TransitionPolicy,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle applies the requested transition and returns the updated order
// together with the applied change (previous status, new status, update
// time).
//
// Only staff roles may transition orders; customers track their orders
// through notifications instead. A failure to publish the status-change
// event is logged and swallowed: the transition is already durable and
// consumers can recover state from the order itself.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, order.StatusChange, error) {
	if err := cmd.Validate(); err != nil {
		return nil, order.StatusChange{}, err
	}

	if !cmd.Actor().Role.IsStaff() {
		return nil, order.StatusChange{}, errs.NewPermissionDeniedError("only staff can change order status")
	}

	var (
		updatedOrder *order.Order
		change       order.StatusChange
		err          error
	)

	for attempt := 1; attempt <= casRetryAttempts; attempt++ {
		updatedOrder, change, err = h.applyTransition(ctx, cmd)
		if err == nil {
			break
		}
		if !errors.Is(err, errs.ErrConcurrentModification) {
			return nil, order.StatusChange{}, err
		}

		h.logger.Info("order status change lost the version race, retrying",
			zap.String("orderId", cmd.OrderID().String()),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		return nil, order.StatusChange{}, err
	}

	event := events.NewOrderStatusChanged(updatedOrder, change, cmd.Actor().UserID)
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("order status changed but event publish failed",
			zap.String("orderId", cmd.OrderID().String()),
			zap.String("newStatus", change.New.String()),
			zap.Error(err),
		)
	}

	return updatedOrder, change, nil
}

func (h *ChangeOrderStatusCommandHandler) applyTransition(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, order.StatusChange, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, order.StatusChange{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, order.StatusChange{}, err
	}

	change, err := aggregate.ChangeStatus(h.policy, cmd.NewStatus(), cmd.Actor(), time.Now().UTC())
	if err != nil {
		return nil, order.StatusChange{}, err
	}

	if err := orderRepo.Update(ctx, aggregate); err != nil {
		return nil, order.StatusChange{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, order.StatusChange{}, err
	}

	return aggregate, change, nil
}
