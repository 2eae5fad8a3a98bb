// Package ports defines the contracts between the application core and
// infrastructure adapters. These interfaces establish transaction, storage,
// messaging and push-delivery boundaries, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using the
	// aggregate's version as an optimistic concurrency check. Returns
	// errs.ConcurrentModificationError when the stored version no longer
	// matches the version the aggregate was loaded with.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
