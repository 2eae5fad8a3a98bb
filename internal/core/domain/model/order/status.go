package order

import (
	"fmt"

	"foodorders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The operational flow moves forward through:
//
//	CREATED ──> COOKING ──> READY ──> PACKAGED ──> ON_THE_WAY ──> DELIVERED
//
// with CANCELLED reachable from any non-terminal state. DELIVERED and
// CANCELLED are terminal. Which transitions are actually accepted is decided
// by a TransitionPolicy, not by the enum itself.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusCreated is the initial status assigned when an order is persisted.
	StatusCreated

	// StatusCooking indicates the kitchen has taken the order.
	StatusCooking

	// StatusReady indicates the kitchen has finished preparation.
	StatusReady

	// StatusPackaged indicates a dispatcher has packaged the order.
	StatusPackaged

	// StatusOnTheWay indicates the order left the tenant for delivery.
	StatusOnTheWay

	// StatusDelivered indicates the order reached the customer. Terminal.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled. Terminal.
	StatusCancelled
)

// getStatusStrings maps Status values to their wire-format tokens.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusCreated:   "CREATED",
		StatusCooking:   "COOKING",
		StatusReady:     "READY",
		StatusPackaged:  "PACKAGED",
		StatusOnTheWay:  "ON_THE_WAY",
		StatusDelivered: "DELIVERED",
		StatusCancelled: "CANCELLED",
	}
}

// StatusFromString parses a wire-format status token such as "ON_THE_WAY".
// Unknown tokens are a validation failure, not an internal error: they come
// from caller input.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// String returns the wire-format token of the status, or "UNKNOWN" for
// invalid values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks that the Status is one of the defined enumeration values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether the status ends the order lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// TransitionPolicy decides whether a status transition is accepted. The
// policy is injected into status changes so deployments can swap the rule
// set without touching the aggregate.
type TransitionPolicy interface {
	// CanTransition returns nil if moving from one status to another is
	// allowed, or a validation error describing why it is not.
	CanTransition(from, to Status) error
}

// PermissivePolicy accepts any defined status from any other, including
// backward moves and re-entering an already-visited status. This matches the
// operational requirement that staff can correct a mis-tapped status; there
// is deliberately no forward-only enforcement.
type PermissivePolicy struct{}

// NewPermissivePolicy creates the default transition policy.
func NewPermissivePolicy() PermissivePolicy {
	return PermissivePolicy{}
}

// CanTransition only requires both endpoints to be defined statuses.
func (PermissivePolicy) CanTransition(from, to Status) error {
	if err := from.Validate(); err != nil {
		return err
	}
	return to.Validate()
}
