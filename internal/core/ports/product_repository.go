package ports

import (
	"context"

	"foodorders/internal/core/domain/model/product"
)

// ProductRepository defines the read contract for the tenant catalog.
// Intake uses it to price order lines from the current catalog state.
type ProductRepository interface {
	// Get retrieves a catalog entry by tenant and product identifier.
	// Returns errs.ObjectNotFoundError when the tenant does not offer
	// the product.
	Get(ctx context.Context, tenantID, productID string) (*product.Product, error)
}
