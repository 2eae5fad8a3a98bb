package ports

import (
	"context"

	"foodorders/internal/core/domain/events"
)

// EventPublisher defines the contract for emitting order lifecycle events
// to the event bus consumed by the notification pipeline.
type EventPublisher interface {
	// Publish emits a lifecycle event. Delivery to downstream consumers
	// is at-least-once; callers decide whether a publish failure is fatal
	// for their operation.
	Publish(ctx context.Context, event events.LifecycleEvent) error
}
