// Package connection models an active push channel between a client device
// and the notification gateway. Connections expire automatically so that
// channels abandoned without a clean disconnect do not accumulate.
package connection

import (
	"errors"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// TTL is how long a registration stays valid without being refreshed.
const TTL = 24 * time.Hour

// ErrConnectionIsNotConstructed is returned when a Connection was not
// created through NewConnection or RestoreConnection.
var ErrConnectionIsNotConstructed = errors.New("Connection must be created via NewConnection constructor")

// Connection is a registered push channel. A connection always belongs to a
// user; staff connections additionally carry the tenant whose orders they
// observe.
type Connection struct {
	id          string
	userID      string
	tenantID    string
	role        kernel.Role
	connectedAt time.Time
	expiresAt   time.Time

	isConstructed bool
}

// NewConnection registers a push channel valid for TTL from now.
func NewConnection(id, userID, tenantID string, role kernel.Role, now time.Time) (*Connection, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("connectionId")
	}
	if userID == "" {
		return nil, errs.NewValueIsRequiredError("userId")
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if role.IsStaff() && tenantID == "" {
		return nil, errs.NewValueIsRequiredError("tenantId")
	}

	return &Connection{
		id:            id,
		userID:        userID,
		tenantID:      tenantID,
		role:          role,
		connectedAt:   now,
		expiresAt:     now.Add(TTL),
		isConstructed: true,
	}, nil
}

// RestoreConnection rebuilds a Connection from persisted state.
func RestoreConnection(id, userID, tenantID string, role kernel.Role, connectedAt, expiresAt time.Time) (*Connection, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("connectionId")
	}
	if userID == "" {
		return nil, errs.NewValueIsRequiredError("userId")
	}

	return &Connection{
		id:            id,
		userID:        userID,
		tenantID:      tenantID,
		role:          role,
		connectedAt:   connectedAt,
		expiresAt:     expiresAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Connection was created through a constructor.
func (c *Connection) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConnectionIsNotConstructed
	}
	return nil
}

// ID returns the gateway connection identifier.
func (c *Connection) ID() string { return c.id }

// UserID returns the owning user.
func (c *Connection) UserID() string { return c.userID }

// TenantID returns the tenant a staff connection observes. Empty for
// customer connections.
func (c *Connection) TenantID() string { return c.tenantID }

// Role returns the role the channel was registered with.
func (c *Connection) Role() kernel.Role { return c.role }

// ConnectedAt returns the registration time.
func (c *Connection) ConnectedAt() time.Time { return c.connectedAt }

// ExpiresAt returns the time after which the registration is stale.
func (c *Connection) ExpiresAt() time.Time { return c.expiresAt }

// IsExpired reports whether the registration is past its TTL.
func (c *Connection) IsExpired(now time.Time) bool {
	return !now.Before(c.expiresAt)
}
