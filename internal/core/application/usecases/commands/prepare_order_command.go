package commands

import (
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

// DefaultPaymentMethod is assumed when an order request names no payment
// method.
const DefaultPaymentMethod = "CASH"

var ErrPrepareOrderCommandIsNotConstructed = errors.New(
	"PrepareOrderCommand must be created via NewPrepareOrderCommand constructor",
)

// OrderLine is a single requested line of an incoming order, before the
// catalog has been consulted for pricing.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// PrepareOrderCommand represents a raw order request from a customer:
// which products, how many, and for which tenant. Pricing, contact
// snapshots and preparation estimates are resolved by the handler.
type PrepareOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	tenantID        string
	userID          string
	lines           []OrderLine
	notes           string
	paymentMethod   string
	deliveryAddress string

	guard guard.ConstructorGuard
}

// NewPrepareOrderCommand creates a command to validate and price an order
// request. An empty payment method falls back to DefaultPaymentMethod.
func NewPrepareOrderCommand(
	orderID kernel.UUID,
	tenantID, userID string,
	lines []OrderLine,
	notes, paymentMethod, deliveryAddress string,
) (PrepareOrderCommand, error) {
	prepareCommand := PrepareOrderCommand{
		notes:           notes,
		deliveryAddress: deliveryAddress,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		prepareCommand.setOrderID(orderID),
		prepareCommand.setTenantID(tenantID),
		prepareCommand.setUserID(userID),
		prepareCommand.setLines(lines),
		prepareCommand.setPaymentMethod(paymentMethod),
	); err != nil {
		return PrepareOrderCommand{}, err
	}

	return prepareCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c PrepareOrderCommand) Validate() error {
	return c.guard.Validate(ErrPrepareOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the order being prepared.
func (c PrepareOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TenantID returns the tenant the order is placed with.
func (c PrepareOrderCommand) TenantID() string {
	return c.tenantID
}

// UserID returns the ordering customer.
func (c PrepareOrderCommand) UserID() string {
	return c.userID
}

// Lines returns the requested order lines.
func (c PrepareOrderCommand) Lines() []OrderLine {
	return c.lines
}

// Notes returns free-form customer notes.
func (c PrepareOrderCommand) Notes() string {
	return c.notes
}

// PaymentMethod returns the requested payment method.
func (c PrepareOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

// DeliveryAddress returns the requested delivery address. May be empty, in
// which case the customer's profile address is used.
func (c PrepareOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c *PrepareOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PrepareOrderCommand) setTenantID(tenantID string) error {
	if tenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}

	c.tenantID = tenantID
	return nil
}

func (c *PrepareOrderCommand) setUserID(userID string) error {
	if userID == "" {
		return errs.NewValueIsRequiredError("userId")
	}

	c.userID = userID
	return nil
}

func (c *PrepareOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	for _, line := range lines {
		if line.ProductID == "" {
			return errs.NewValueIsRequiredError("items.productId")
		}
		if line.Quantity < 1 {
			return errs.NewValueIsInvalidError("items.quantity")
		}
	}

	c.lines = lines
	return nil
}

func (c *PrepareOrderCommand) setPaymentMethod(paymentMethod string) error {
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	c.paymentMethod = paymentMethod
	return nil
}
