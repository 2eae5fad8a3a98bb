package ports

import (
	"context"

	"foodorders/internal/core/domain/model/connection"
)

// ConnectionRegistry defines the storage contract for active push channels.
// Registrations carry a TTL; the registry must treat expired entries as
// absent even before PurgeExpired removes them.
type ConnectionRegistry interface {
	// Register stores a connection, replacing any previous registration
	// with the same identifier.
	Register(ctx context.Context, conn *connection.Connection) error

	// Unregister removes a connection. Removing an unknown connection is
	// not an error.
	Unregister(ctx context.Context, connectionID string) error

	// FindByUser retrieves every live connection registered by a user.
	FindByUser(ctx context.Context, userID string) ([]*connection.Connection, error)

	// FindByTenant retrieves every live staff connection observing a
	// tenant's orders.
	FindByTenant(ctx context.Context, tenantID string) ([]*connection.Connection, error)

	// PurgeExpired removes registrations past their TTL and returns how
	// many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}
