package commands

import (
	"context"
	"time"

	"foodorders/internal/core/domain/model/connection"
	"foodorders/internal/core/ports"
)

// RegisterConnectionCommandHandler records a push channel in the
// connection registry. Re-registering an existing connection refreshes its
// TTL.
type RegisterConnectionCommandHandler struct {
	registry ports.ConnectionRegistry
}

// NewRegisterConnectionCommandHandler creates a handler for connection
// registration.
func NewRegisterConnectionCommandHandler(registry ports.ConnectionRegistry) RegisterConnectionCommandHandler {
	return RegisterConnectionCommandHandler{registry: registry}
}

// Handle stores the connection with a fresh TTL.
func (h *RegisterConnectionCommandHandler) Handle(ctx context.Context, cmd RegisterConnectionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	conn, err := connection.NewConnection(
		cmd.ConnectionID(),
		cmd.UserID(),
		cmd.TenantID(),
		cmd.Role(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	return h.registry.Register(ctx, conn)
}
