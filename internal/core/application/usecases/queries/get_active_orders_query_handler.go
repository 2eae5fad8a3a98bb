package queries

import (
	"context"

	"gorm.io/gorm"

	"foodorders/internal/core/domain/model/order"
)

// GetActiveOrdersQueryHandler retrieves a tenant's non-terminal orders from
// the database, oldest first so the kitchen works the queue in order.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order
// queries. Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query, excluding DELIVERED and CANCELLED orders.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tenant_id,
			user_id,
			items,
			status,
			timeline,
			cook_id,
			dispatcher_id,
			resolved_at,
			total_cents,
			notes,
			payment_method,
			delivery_address,
			estimated_prep,
			created_at,
			updated_at
		FROM orders
		WHERE tenant_id = ? AND status NOT IN (?, ?)
		ORDER BY created_at
	`, query.TenantID(), order.StatusDelivered.String(), order.StatusCancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderResponse, 0)
	for rows.Next() {
		response, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
