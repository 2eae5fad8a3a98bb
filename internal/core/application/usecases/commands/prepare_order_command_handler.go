package commands

import (
	"context"
	"errors"
	"time"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

// DefaultPreparationTimeMinutes is assumed for catalog entries that do not
// declare a preparation time.
const DefaultPreparationTimeMinutes = 15

// ErrProductIsUnavailable is wrapped into the validation error returned
// when a requested product exists but cannot currently be ordered.
var ErrProductIsUnavailable = errors.New("product is unavailable")

// PrepareOrderCommandHandler turns a raw order request into a priced order
// aggregate. Every line is resolved against the tenant's catalog so the
// order carries a snapshot of prices and names as they were at order time,
// and the customer's contact details are copied from the profile store.
//
// The handler does not persist anything: the resulting aggregate is handed
// to CreateOrderCommandHandler by the intake workflow.
type PrepareOrderCommandHandler struct {
	productRepository ports.ProductRepository
	userRepository    ports.UserRepository
}

// NewPrepareOrderCommandHandler creates a handler for order intake
// validation and pricing.
func NewPrepareOrderCommandHandler(
	productRepository ports.ProductRepository,
	userRepository ports.UserRepository,
) PrepareOrderCommandHandler {
	return PrepareOrderCommandHandler{
		productRepository: productRepository,
		userRepository:    userRepository,
	}
}

// Handle validates the request against the catalog and customer profile and
// returns the priced order aggregate in CREATED status.
func (h *PrepareOrderCommandHandler) Handle(ctx context.Context, cmd PrepareOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	customer, err := h.userRepository.Get(ctx, cmd.UserID())
	if err != nil {
		// an unknown user is a bad request, not a missing resource
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("userId", err)
		}
		return nil, err
	}

	items := make([]order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		catalogEntry, err := h.productRepository.Get(ctx, cmd.TenantID(), line.ProductID)
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				return nil, errs.NewValueIsInvalidErrorWithCause("items.productId", err)
			}
			return nil, err
		}
		if !catalogEntry.IsAvailable() {
			return nil, errs.NewValueIsInvalidErrorWithCause("items.productId", ErrProductIsUnavailable)
		}

		preparationTime := catalogEntry.PreparationTimeMinutes()
		if preparationTime <= 0 {
			preparationTime = DefaultPreparationTimeMinutes
		}

		item, err := order.NewItem(
			catalogEntry.ID(),
			catalogEntry.Name(),
			line.Quantity,
			catalogEntry.Price(),
			preparationTime,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	deliveryAddress := cmd.DeliveryAddress()
	if deliveryAddress == "" {
		deliveryAddress = customer.Address()
	}

	return order.NewOrder(
		cmd.OrderID(),
		cmd.TenantID(),
		cmd.UserID(),
		order.UserInfo{
			FirstName:   customer.FirstName(),
			LastName:    customer.LastName(),
			Email:       customer.Email(),
			PhoneNumber: customer.PhoneNumber(),
			Address:     customer.Address(),
		},
		items,
		cmd.Notes(),
		cmd.PaymentMethod(),
		deliveryAddress,
		time.Now().UTC(),
	)
}
