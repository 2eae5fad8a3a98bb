// Package workflow sequences multi-step business operations that span
// several command handlers.
package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"foodorders/internal/core/application/usecases/commands"
)

// intakeTimeout bounds a detached intake run. Asynchronous submissions are
// detached from the HTTP request and need their own deadline.
const intakeTimeout = 30 * time.Second

// OrderIntake runs the two-step order acceptance flow: validate and price
// the request against the catalog, then persist the resulting aggregate and
// announce it. The API acknowledges requests before this flow completes, so
// the intake also offers an asynchronous entry point.
type OrderIntake struct {
	prepareHandler commands.PrepareOrderCommandHandler
	createHandler  commands.CreateOrderCommandHandler
	logger         *zap.Logger
}

// NewOrderIntake creates the intake flow from its two command handlers.
func NewOrderIntake(
	prepareHandler commands.PrepareOrderCommandHandler,
	createHandler commands.CreateOrderCommandHandler,
	logger *zap.Logger,
) *OrderIntake {
	return &OrderIntake{
		prepareHandler: prepareHandler,
		createHandler:  createHandler,
		logger:         logger,
	}
}

// Submit runs the intake flow synchronously.
func (w *OrderIntake) Submit(ctx context.Context, cmd commands.PrepareOrderCommand) error {
	preparedOrder, err := w.prepareHandler.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	createCmd, err := commands.NewCreateOrderCommand(preparedOrder)
	if err != nil {
		return err
	}

	return w.createHandler.Handle(ctx, createCmd)
}

// SubmitAsync runs the intake flow in the background. The caller has
// already acknowledged the request; failures are logged under the order
// identifier so the dropped request can be traced.
func (w *OrderIntake) SubmitAsync(cmd commands.PrepareOrderCommand) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), intakeTimeout)
		defer cancel()

		if err := w.Submit(ctx, cmd); err != nil {
			w.logger.Error("order intake failed",
				zap.String("orderId", cmd.OrderID().String()),
				zap.String("tenantId", cmd.TenantID()),
				zap.Error(err),
			)
		}
	}()
}
