// Package product provides the read-side catalog entry consumed during
// order intake. Catalog management itself lives in another service; this
// model only carries what pricing an order requires.
package product

import (
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned when a Product was not created
// through the NewProduct factory.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a catalog entry scoped to a tenant. Intake copies its price,
// name and preparation time into the order as a snapshot.
type Product struct {
	id                     string
	tenantID               string
	name                   string
	price                  kernel.Money
	preparationTimeMinutes int
	available              bool

	isConstructed bool
}

// NewProduct creates a validated catalog entry.
func NewProduct(id, tenantID, name string, price kernel.Money, preparationTimeMinutes int, available bool) (*Product, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("productId")
	}
	if tenantID == "" {
		return nil, errs.NewValueIsRequiredError("tenantId")
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Product{
		id:                     id,
		tenantID:               tenantID,
		name:                   name,
		price:                  price,
		preparationTimeMinutes: preparationTimeMinutes,
		available:              available,
		isConstructed:          true,
	}, nil
}

// Validate ensures the Product was created through NewProduct.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product identifier.
func (p *Product) ID() string {
	return p.id
}

// TenantID returns the tenant offering the product.
func (p *Product) TenantID() string {
	return p.tenantID
}

// Name returns the display name.
func (p *Product) Name() string {
	return p.name
}

// Price returns the current catalog price.
func (p *Product) Price() kernel.Money {
	return p.price
}

// PreparationTimeMinutes returns the kitchen preparation time.
func (p *Product) PreparationTimeMinutes() int {
	return p.preparationTimeMinutes
}

// IsAvailable reports whether the product can currently be ordered.
func (p *Product) IsAvailable() bool {
	return p.available
}
