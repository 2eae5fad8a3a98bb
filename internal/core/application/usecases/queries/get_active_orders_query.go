package queries

import (
	"errors"

	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves every order of a tenant that has not yet
// reached a terminal status. Used by kitchen and dispatch dashboards.
type GetActiveOrdersQuery struct {
	tenantID string

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query to retrieve a tenant's active
// orders.
func NewGetActiveOrdersQuery(tenantID string) (GetActiveOrdersQuery, error) {
	if tenantID == "" {
		return GetActiveOrdersQuery{}, errs.NewValueIsRequiredError("tenantId")
	}

	return GetActiveOrdersQuery{
		tenantID: tenantID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// TenantID returns the tenant whose active orders are requested.
func (q GetActiveOrdersQuery) TenantID() string {
	return q.tenantID
}
