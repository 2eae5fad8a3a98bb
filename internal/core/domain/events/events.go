// Package events defines the order lifecycle events published to the event
// bus and consumed by the notification pipeline. Events are serialized as
// JSON and must stay wire-compatible with existing consumers, so field
// names are fixed by their json tags.
package events

import (
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
)

// Event type discriminators carried in LifecycleEvent.EventType.
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// Item is the wire form of an order line inside a lifecycle event.
type Item struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice kernel.Money `json:"unitPrice"`
	Subtotal  kernel.Money `json:"subtotal"`
}

// UserInfo is the wire form of the customer snapshot inside a lifecycle
// event.
type UserInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// LifecycleEvent is a single order lifecycle fact. ORDER_CREATED events
// carry the full order snapshot; ORDER_STATUS_CHANGED events additionally
// carry the transition endpoints and the acting staff member.
type LifecycleEvent struct {
	EventType string `json:"eventType"`
	OrderID   string `json:"orderId"`
	TenantID  string `json:"tenantId"`
	UserID    string `json:"userId"`

	Status                          string       `json:"status"`
	PreviousStatus                  string       `json:"previousStatus,omitempty"`
	NewStatus                       string       `json:"newStatus,omitempty"`
	ChangedBy                       string       `json:"changedBy,omitempty"`
	Notes                           string       `json:"notes,omitempty"`
	Total                           kernel.Money `json:"total"`
	EstimatedPreparationTimeMinutes int          `json:"estimatedPreparationTime"`
	Items                           []Item       `json:"items"`
	UserInfo                        UserInfo     `json:"userInfo"`
	Timestamp                       time.Time    `json:"timestamp"`
}

// NewOrderCreated builds the event announcing a freshly accepted order.
func NewOrderCreated(o *order.Order, occurredAt time.Time) LifecycleEvent {
	event := snapshot(o)
	event.EventType = EventTypeOrderCreated
	event.Timestamp = occurredAt
	return event
}

// NewOrderStatusChanged builds the event announcing a status transition.
func NewOrderStatusChanged(o *order.Order, change order.StatusChange, changedBy string) LifecycleEvent {
	event := snapshot(o)
	event.EventType = EventTypeOrderStatusChanged
	event.PreviousStatus = change.Previous.String()
	event.NewStatus = change.New.String()
	event.ChangedBy = changedBy
	event.Timestamp = change.UpdatedAt
	return event
}

func snapshot(o *order.Order) LifecycleEvent {
	items := make([]Item, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, Item{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Subtotal:  item.Subtotal(),
		})
	}

	info := o.UserInfo()

	return LifecycleEvent{
		OrderID:                         o.ID().String(),
		TenantID:                        o.TenantID(),
		UserID:                          o.UserID(),
		Status:                          o.Status().String(),
		Notes:                           o.Notes(),
		Total:                           o.Total(),
		EstimatedPreparationTimeMinutes: o.EstimatedPreparationTimeMinutes(),
		Items:                           items,
		UserInfo: UserInfo{
			FirstName:   info.FirstName,
			LastName:    info.LastName,
			Email:       info.Email,
			PhoneNumber: info.PhoneNumber,
			Address:     info.Address,
		},
	}
}
