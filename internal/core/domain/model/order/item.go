package order

import (
	"errors"
	"fmt"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created through
// the NewItem factory.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is an order line: a catalog product priced at order time. The unit
// price and preparation time are snapshots — later catalog changes must not
// retroactively affect an existing order.
//
// Item invariants:
//   - quantity is at least 1
//   - subtotal equals unit price times quantity
//   - the product reference and name are never empty
type Item struct {
	productID              string
	name                   string
	quantity               int
	unitPrice              kernel.Money
	subtotal               kernel.Money
	preparationTimeMinutes int

	isConstructed bool
}

// NewItem creates a validated order line. The subtotal is computed here and
// nowhere else, so it cannot drift from unitPrice × quantity.
func NewItem(productID, name string, quantity int, unitPrice kernel.Money, preparationTimeMinutes int) (Item, error) {
	item := Item{
		isConstructed: true,
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
		item.setPreparationTime(preparationTimeMinutes),
	); err != nil {
		return Item{}, err
	}

	item.unitPrice = unitPrice
	item.subtotal = unitPrice.MultiplyBy(quantity)
	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ProductID returns the catalog product identifier.
func (i Item) ProductID() string {
	return i.productID
}

// Name returns the product name captured at order time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the catalog price snapshot taken at order time.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() kernel.Money {
	return i.subtotal
}

// PreparationTimeMinutes returns the preparation time copied from the
// catalog at order time.
func (i Item) PreparationTimeMinutes() int {
	return i.preparationTimeMinutes
}

func (i *Item) setProductID(productID string) error {
	if productID == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	i.productID = productID
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not at least 1", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setPreparationTime(minutes int) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("preparationTimeMinutes",
			fmt.Errorf("%d is negative", minutes))
	}
	i.preparationTimeMinutes = minutes
	return nil
}
