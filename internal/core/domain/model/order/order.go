package order

import (
	"errors"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not
// created through NewOrder or RestoreOrder. This ensures all orders carry
// validated state.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// UserInfo is the customer snapshot captured when the order is created. It
// is never re-fetched: notifications render the contact data the customer
// had at order time even if the profile changes later.
type UserInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// Actor identifies the authenticated party requesting a status change.
type Actor struct {
	UserID   string
	TenantID string
	Role     kernel.Role
}

// Validate checks the actor carries an identity and a defined role. A
// tenant is required only for staff roles: customers are scoped by the
// orders they own, not by a tenant of their own.
func (a Actor) Validate() error {
	if a.UserID == "" {
		return errs.NewValueIsRequiredError("userId")
	}
	if a.Role.IsStaff() && a.TenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}
	return a.Role.Validate()
}

// StatusChange describes the outcome of an applied transition.
type StatusChange struct {
	Previous  Status
	New       Status
	UpdatedAt time.Time
}

// Order is the aggregate root for a customer order. It owns the order's
// pricing snapshot, the status timeline, and the sticky staff assignments.
//
// Order invariants:
//   - the item list is never empty and every item is constructor-validated
//   - total equals the sum of item subtotals
//   - cookId and dispatcherId are assigned at most once
//   - resolvedAt is set exactly once, on the first terminal transition
//   - the timeline records the most recent entry into each status
type Order struct {
	id              kernel.UUID
	tenantID        string
	userID          string
	userInfo        UserInfo
	items           []Item
	status          Status
	timeline        map[Status]time.Time
	cookID          *string
	dispatcherID    *string
	resolvedAt      *time.Time
	total           kernel.Money
	notes           string
	paymentMethod   string
	deliveryAddress string
	estimatedPrep   int
	createdAt       time.Time
	updatedAt       time.Time
	version         int

	isConstructed bool
}

// NewOrder creates a freshly-placed order in CREATED status with a seeded
// timeline. The total and estimated preparation time are derived from the
// items: total is the exact sum of subtotals, and the estimate is the
// maximum item preparation time, because the kitchen prepares lines
// concurrently.
func NewOrder(
	id kernel.UUID,
	tenantID, userID string,
	userInfo UserInfo,
	items []Item,
	notes, paymentMethod, deliveryAddress string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		userInfo:        userInfo,
		status:          StatusCreated,
		timeline:        map[Status]time.Time{StatusCreated: now},
		notes:           notes,
		paymentMethod:   paymentMethod,
		deliveryAddress: deliveryAddress,
		createdAt:       now,
		updatedAt:       now,
		version:         1,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setUserID(userID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence without re-deriving
// any state. Callers are trusted to pass the stored values verbatim.
func RestoreOrder(
	id kernel.UUID,
	tenantID, userID string,
	userInfo UserInfo,
	items []Item,
	status Status,
	timeline map[Status]time.Time,
	cookID, dispatcherID *string,
	resolvedAt *time.Time,
	notes, paymentMethod, deliveryAddress string,
	createdAt, updatedAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		userInfo:        userInfo,
		status:          status,
		timeline:        timeline,
		cookID:          cookID,
		dispatcherID:    dispatcherID,
		resolvedAt:      resolvedAt,
		notes:           notes,
		paymentMethod:   paymentMethod,
		deliveryAddress: deliveryAddress,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		version:         version,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setUserID(userID),
		o.setItems(items),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if o.timeline == nil {
		o.timeline = make(map[Status]time.Time)
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TenantID returns the tenant the order belongs to.
func (o *Order) TenantID() string {
	return o.tenantID
}

// UserID returns the customer who placed the order.
func (o *Order) UserID() string {
	return o.userID
}

// UserInfo returns the customer snapshot captured at creation time.
func (o *Order) UserInfo() UserInfo {
	return o.userInfo
}

// Items returns the order lines in their original sequence.
func (o *Order) Items() []Item {
	return o.items
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Timeline returns when each status was most recently entered.
func (o *Order) Timeline() map[Status]time.Time {
	return o.timeline
}

// CookID returns the cook assigned to the order, or nil.
func (o *Order) CookID() *string {
	return o.cookID
}

// DispatcherID returns the dispatcher assigned to the order, or nil.
func (o *Order) DispatcherID() *string {
	return o.dispatcherID
}

// ResolvedAt returns when the order first reached a terminal status, or nil.
func (o *Order) ResolvedAt() *time.Time {
	return o.resolvedAt
}

// Total returns the exact sum of item subtotals.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Notes returns the free-form customer notes.
func (o *Order) Notes() string {
	return o.notes
}

// PaymentMethod returns the payment method chosen at checkout.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// DeliveryAddress returns the delivery address supplied at checkout.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// EstimatedPreparationTimeMinutes returns the kitchen estimate: the maximum
// preparation time across items, since lines are prepared concurrently.
func (o *Order) EstimatedPreparationTimeMinutes() int {
	return o.estimatedPrep
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order was last modified.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic-concurrency counter. Persistence uses it
// for conditional updates; it is bumped by the repository on every write.
func (o *Order) Version() int {
	return o.version
}

// SyncVersion records the version the repository just persisted, keeping
// the loaded aggregate usable for a subsequent conditional write.
func (o *Order) SyncVersion(version int) {
	o.version = version
}

// ChangeStatus applies a status transition requested by a staff actor.
//
// The transition enforces tenant isolation (the actor must belong to the
// order's tenant), consults the injected policy for from→to admissibility,
// stamps the timeline (overwriting the timestamp on a repeated visit),
// performs sticky auto-assignment, and records resolution on the first
// terminal transition:
//   - COOKING assigns the actor as cook if no cook is set
//   - PACKAGED or ON_THE_WAY assigns the actor as dispatcher if none is set
//   - DELIVERED or CANCELLED sets resolvedAt if not already set
//
// Assignments are never overwritten by later actors.
func (o *Order) ChangeStatus(policy TransitionPolicy, newStatus Status, actor Actor, now time.Time) (StatusChange, error) {
	if err := newStatus.Validate(); err != nil {
		return StatusChange{}, err
	}

	if actor.TenantID != o.tenantID {
		return StatusChange{}, errs.NewPermissionDeniedError("actor does not belong to the order tenant")
	}

	if err := policy.CanTransition(o.status, newStatus); err != nil {
		return StatusChange{}, err
	}

	previous := o.status
	o.status = newStatus
	o.timeline[newStatus] = now

	if newStatus == StatusCooking && o.cookID == nil {
		cookID := actor.UserID
		o.cookID = &cookID
	}
	if (newStatus == StatusPackaged || newStatus == StatusOnTheWay) && o.dispatcherID == nil {
		dispatcherID := actor.UserID
		o.dispatcherID = &dispatcherID
	}
	if newStatus.IsTerminal() && o.resolvedAt == nil {
		resolvedAt := now
		o.resolvedAt = &resolvedAt
	}

	o.updatedAt = now

	return StatusChange{Previous: previous, New: newStatus, UpdatedAt: now}, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTenantID(tenantID string) error {
	if tenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}
	o.tenantID = tenantID
	return nil
}

func (o *Order) setUserID(userID string) error {
	if userID == "" {
		return errs.NewValueIsRequiredError("userId")
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	total := kernel.Money{}
	estimatedPrep := 0
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		total = total.Add(item.Subtotal())
		if item.PreparationTimeMinutes() > estimatedPrep {
			estimatedPrep = item.PreparationTimeMinutes()
		}
	}

	o.items = items
	o.total = total
	o.estimatedPrep = estimatedPrep
	return nil
}
