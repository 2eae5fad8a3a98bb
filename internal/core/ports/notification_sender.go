package ports

import (
	"context"
	"errors"
)

// ErrConnectionGone is returned by NotificationSender.Send when the gateway
// reports that the connection no longer exists. The caller should drop the
// registration.
var ErrConnectionGone = errors.New("connection is gone")

// NotificationSender defines the contract for pushing a payload to a single
// registered connection through the gateway.
type NotificationSender interface {
	// Send delivers payload to the connection. Returns ErrConnectionGone
	// when the gateway reports the channel as closed; any other error is
	// a transient delivery failure.
	Send(ctx context.Context, connectionID string, payload []byte) error
}
