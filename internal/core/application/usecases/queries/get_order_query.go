// Package queries contains read operations of the CQRS architecture.
// Query handlers bypass the domain model and read the database directly,
// returning flat response structures shaped for the API.
package queries

import (
	"errors"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order on behalf of a requester.
// Customers may only view their own orders; staff may view any order of
// their tenant.
type GetOrderQuery struct {
	orderID   kernel.UUID
	requester order.Actor

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order.
func NewGetOrderQuery(orderID kernel.UUID, requester order.Actor) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if err := requester.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID:   orderID,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Requester returns the authenticated party asking for the order.
func (q GetOrderQuery) Requester() order.Actor {
	return q.requester
}

// OrderItemResponse represents one order line in a query response.
type OrderItemResponse struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice kernel.Money `json:"unitPrice"`
	Subtotal  kernel.Money `json:"subtotal"`
}

// OrderResponse represents a complete order as exposed by the read side.
type OrderResponse struct {
	ID                              string               `json:"orderId"`
	TenantID                        string               `json:"tenantId"`
	UserID                          string               `json:"userId"`
	Status                          string               `json:"status"`
	Items                           []OrderItemResponse  `json:"items"`
	Total                           kernel.Money         `json:"total"`
	EstimatedPreparationTimeMinutes int                  `json:"estimatedPreparationTime"`
	Timeline                        map[string]time.Time `json:"timeline"`
	CookID                          *string              `json:"cookId,omitempty"`
	DispatcherID                    *string              `json:"dispatcherId,omitempty"`
	ResolvedAt                      *time.Time           `json:"resolvedAt,omitempty"`
	Notes                           string               `json:"notes,omitempty"`
	PaymentMethod                   string               `json:"paymentMethod"`
	DeliveryAddress                 string               `json:"deliveryAddress"`
	CreatedAt                       time.Time            `json:"createdAt"`
	UpdatedAt                       time.Time            `json:"updatedAt"`
}
